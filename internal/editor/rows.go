package editor

import (
	"github.com/roach88/recipetracker/internal/ingredients"
	"github.com/roach88/recipetracker/internal/model"
)

// Rows is the editable ingredient list shared by both forms.
type Rows struct {
	Items []model.Ingredient
}

// AddIngredient appends a blank row.
func (r *Rows) AddIngredient() {
	r.Items = ingredients.WithAppended(r.Items, ingredients.Blank())
}

// UpdateIngredient sets one field of the row at index.
func (r *Rows) UpdateIngredient(index int, field ingredients.Field, value string) error {
	updated, err := ingredients.WithUpdatedAt(r.Items, index, field, value)
	if err != nil {
		return err
	}
	r.Items = updated
	return nil
}

// RemoveIngredient deletes the row at index.
func (r *Rows) RemoveIngredient(index int) error {
	updated, err := ingredients.WithRemovedAt(r.Items, index)
	if err != nil {
		return err
	}
	r.Items = updated
	return nil
}

func cloneRows(in []model.Ingredient) []model.Ingredient {
	if in == nil {
		return nil
	}
	return append([]model.Ingredient(nil), in...)
}
