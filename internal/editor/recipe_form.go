package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/recipetracker/internal/ingredients"
	"github.com/roach88/recipetracker/internal/model"
	"github.com/roach88/recipetracker/internal/slug"
)

// RecipeForm edits one recipe. A form created by NewRecipeForm has no id
// until its first successful submit; the id is then fixed.
type RecipeForm struct {
	Rows

	ID          string
	Title       string
	Description string

	session  *Session
	existing bool
}

// NewRecipeForm starts an empty form for a new recipe.
func (s *Session) NewRecipeForm() *RecipeForm {
	return &RecipeForm{session: s}
}

// EditRecipe starts a form pre-filled with an existing recipe.
func (s *Session) EditRecipe(r model.Recipe) *RecipeForm {
	return &RecipeForm{
		Rows:        Rows{Items: cloneRows(r.Ingredients)},
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		session:     s,
		existing:    r.ID != "",
	}
}

// IsNew reports whether submitting creates a recipe.
func (f *RecipeForm) IsNew() bool {
	return !f.existing
}

// Recipe returns the entity the form would submit, deriving the id from
// the title when none is set.
func (f *RecipeForm) Recipe() model.Recipe {
	id := f.ID
	if id == "" {
		id = slug.Slugify(f.Title)
	}
	return model.Recipe{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		Ingredients: cloneRows(f.Items),
	}
}

// Submit validates the form and saves it with the persisted identity as
// author. On success the form adopts the stored recipe and later submits
// are recorded as changes.
func (f *RecipeForm) Submit(ctx context.Context) (model.Recipe, error) {
	if strings.TrimSpace(f.Title) == "" {
		return model.Recipe{}, model.ErrMissingTitle
	}
	recipe := f.Recipe()
	if recipe.ID == "" {
		return model.Recipe{}, fmt.Errorf("title %q has no slug characters: %w", f.Title, model.ErrMissingRecipeID)
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = []model.Ingredient{}
	}
	if err := ingredients.Validate(recipe.Ingredients); err != nil {
		return model.Recipe{}, err
	}

	verb := "Changed"
	if f.IsNew() {
		verb = "Added"
	}
	info := f.session.commitInfo(ctx, fmt.Sprintf("%s recipe %s", verb, recipe.ID))

	saved, err := f.session.api.SaveRecipe(ctx, recipe, info)
	if err != nil {
		return model.Recipe{}, err
	}
	f.session.log.Debug("recipe saved", "id", saved.ID, "new", f.IsNew())

	f.ID = saved.ID
	f.Title = saved.Title
	f.Description = saved.Description
	f.Items = cloneRows(saved.Ingredients)
	f.existing = true
	return saved, nil
}
