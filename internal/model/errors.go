package model

import "errors"

// Sentinel errors used across layers.
var (
	ErrMissingRecipeID      = errors.New("recipe ID is required")
	ErrMissingTitle         = errors.New("recipe title is required")
	ErrIncompleteIngredient = errors.New("ingredient row is incomplete")
)
