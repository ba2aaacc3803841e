package recipefile

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/recipetracker/internal/model"
)

type ingredientDoc struct {
	Name     string  `yaml:"name"`
	Quantity float64 `yaml:"quantity"`
	Unit     string  `yaml:"unit,omitempty"`
}

type recipeDoc struct {
	ID          string          `yaml:"id"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description,omitempty"`
	Ingredients []ingredientDoc `yaml:"ingredients"`
}

// WriteYAML writes recipes as a YAML stream, one document per recipe.
// The output loads back through Load.
func WriteYAML(w io.Writer, recipes []model.Recipe) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, r := range recipes {
		doc := recipeDoc{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Ingredients: make([]ingredientDoc, 0, len(r.Ingredients)),
		}
		for _, in := range r.Ingredients {
			doc.Ingredients = append(doc.Ingredients, ingredientDoc(in))
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode recipe %s: %w", r.ID, err)
		}
	}
	return enc.Close()
}
