package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/roach88/recipetracker/internal/model"
)

// ListRecipes returns every recipe. GET /api/recipes
func (c *Client) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := c.call(ctx, "list recipes", http.MethodGet, c.endpoint(nil, "api", "recipes"), nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetRecipe fetches one recipe. GET /api/recipes/{id}
func (c *Client) GetRecipe(ctx context.Context, id string) (model.Recipe, error) {
	if id == "" {
		return model.Recipe{}, fmt.Errorf("fetch recipe: %w", model.ErrMissingRecipeID)
	}
	var recipe model.Recipe
	if err := c.call(ctx, "fetch recipe", http.MethodGet, c.endpoint(nil, "api", "recipes", id), nil, &recipe); err != nil {
		return model.Recipe{}, err
	}
	return recipe, nil
}

// SaveRecipe creates or updates a recipe and returns the stored entity.
// POST /api/recipes?commitMessage=&author=
func (c *Client) SaveRecipe(ctx context.Context, recipe model.Recipe, info model.CommitInfo) (model.Recipe, error) {
	if err := ValidateCommitInfo(info); err != nil {
		return model.Recipe{}, err
	}

	var saved model.Recipe
	u := c.endpoint(EncodeCommitInfo(info), "api", "recipes")
	if err := c.call(ctx, "save recipe", http.MethodPost, u, recipe, &saved); err != nil {
		return model.Recipe{}, err
	}
	// The server does not echo the path-derived id in every version.
	if saved.ID == "" {
		saved.ID = recipe.ID
	}
	return saved, nil
}

// RecipeHistory lists the commits that touched a recipe, newest first.
// GET /api/recipes/{id}/history
func (c *Client) RecipeHistory(ctx context.Context, id string) ([]model.Commit, error) {
	if id == "" {
		return nil, fmt.Errorf("fetch recipe history: %w", model.ErrMissingRecipeID)
	}
	var commits []model.Commit
	u := c.endpoint(nil, "api", "recipes", id, "history")
	if err := c.call(ctx, "fetch recipe history", http.MethodGet, u, nil, &commits); err != nil {
		return nil, err
	}
	return commits, nil
}
