package prefs

import (
	"context"
	"fmt"

	"github.com/roach88/recipetracker/internal/model"
)

// Well-known keys.
const (
	KeyGitName  = "gitName"
	KeyGitEmail = "gitEmail"

	checkedIngredientsPrefix = "checkedIngredients"
)

// CheckedIngredientsKey returns the key holding the checked state of a
// recipe's ingredients.
func CheckedIngredientsKey(recipeID string) string {
	return checkedIngredientsPrefix + recipeID
}

// Identity returns the persisted attribution identity. Missing fields are
// empty strings.
func (s *Store) Identity(ctx context.Context) model.Identity {
	return model.Identity{
		Name:  Get(ctx, s, KeyGitName, ""),
		Email: Get(ctx, s, KeyGitEmail, ""),
	}
}

// SetIdentity persists both identity fields.
func (s *Store) SetIdentity(ctx context.Context, id model.Identity) error {
	if err := Set(ctx, s, KeyGitName, id.Name); err != nil {
		return fmt.Errorf("set identity name: %w", err)
	}
	if err := Set(ctx, s, KeyGitEmail, id.Email); err != nil {
		return fmt.Errorf("set identity email: %w", err)
	}
	return nil
}

// CheckedIngredients returns ingredient name -> checked for a recipe.
// The returned map is owned by the caller.
func (s *Store) CheckedIngredients(ctx context.Context, recipeID string) map[string]bool {
	checked := Get(ctx, s, CheckedIngredientsKey(recipeID), map[string]bool{})
	if checked == nil {
		checked = map[string]bool{}
	}
	return checked
}

// ToggleIngredient flips the checked flag of one ingredient and returns
// its new value.
func (s *Store) ToggleIngredient(ctx context.Context, recipeID, name string) (bool, error) {
	checked := s.CheckedIngredients(ctx, recipeID)
	checked[name] = !checked[name]
	if err := Set(ctx, s, CheckedIngredientsKey(recipeID), checked); err != nil {
		return false, fmt.Errorf("toggle ingredient %q: %w", name, err)
	}
	return checked[name], nil
}

// ClearChecked unchecks every ingredient of a recipe.
func (s *Store) ClearChecked(ctx context.Context, recipeID string) error {
	return Set(ctx, s, CheckedIngredientsKey(recipeID), map[string]bool{})
}
