package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/roach88/recipetracker/internal/model"
)

// ErrMissingLogID is returned when a log operation lacks the log id.
var ErrMissingLogID = errors.New("recipe log ID is required")

// ListLogs returns the cooking logs of a recipe.
// GET /api/recipes/{id}/logs
func (c *Client) ListLogs(ctx context.Context, recipeID string) ([]model.RecipeLog, error) {
	if recipeID == "" {
		return nil, fmt.Errorf("fetch recipe logs: %w", model.ErrMissingRecipeID)
	}
	var logs []model.RecipeLog
	u := c.endpoint(nil, "api", "recipes", recipeID, "logs")
	if err := c.call(ctx, "fetch recipe logs", http.MethodGet, u, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// GetLog fetches one cooking log.
// GET /api/recipes/{recipeId}/logs/{logId}
func (c *Client) GetLog(ctx context.Context, recipeID, logID string) (model.RecipeLog, error) {
	if err := requireLogKey(recipeID, logID); err != nil {
		return model.RecipeLog{}, fmt.Errorf("fetch recipe log: %w", err)
	}
	var log model.RecipeLog
	u := c.endpoint(nil, "api", "recipes", recipeID, "logs", logID)
	if err := c.call(ctx, "fetch recipe log", http.MethodGet, u, nil, &log); err != nil {
		return model.RecipeLog{}, err
	}
	return log, nil
}

// SaveLog creates or updates a cooking log and returns the stored entity.
// POST /api/recipes/{recipeId}/logs?commitMessage=&author=
func (c *Client) SaveLog(ctx context.Context, log model.RecipeLog, info model.CommitInfo) (model.RecipeLog, error) {
	if err := ValidateCommitInfo(info); err != nil {
		return model.RecipeLog{}, err
	}
	if log.RecipeID == "" {
		return model.RecipeLog{}, fmt.Errorf("save recipe log: %w", model.ErrMissingRecipeID)
	}

	var saved model.RecipeLog
	u := c.endpoint(EncodeCommitInfo(info), "api", "recipes", log.RecipeID, "logs")
	if err := c.call(ctx, "save recipe log", http.MethodPost, u, log, &saved); err != nil {
		return model.RecipeLog{}, err
	}
	return saved, nil
}

// DeleteLog removes a cooking log with commit attribution.
// DELETE /api/recipes/{recipeId}/logs/{logId}?commitMessage=&author=
func (c *Client) DeleteLog(ctx context.Context, recipeID, logID string, info model.CommitInfo) error {
	if err := ValidateCommitInfo(info); err != nil {
		return err
	}
	if err := requireLogKey(recipeID, logID); err != nil {
		return fmt.Errorf("delete recipe log: %w", err)
	}

	u := c.endpoint(EncodeCommitInfo(info), "api", "recipes", recipeID, "logs", logID)
	return c.call(ctx, "delete recipe log", http.MethodDelete, u, nil, nil)
}

func requireLogKey(recipeID, logID string) error {
	if recipeID == "" {
		return model.ErrMissingRecipeID
	}
	if logID == "" {
		return ErrMissingLogID
	}
	return nil
}
