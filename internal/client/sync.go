package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/roach88/recipetracker/internal/model"
)

// Sync asks the backing git store to synchronize with its upstream.
// POST /api/db/push or POST /api/db/pull
func (c *Client) Sync(ctx context.Context, dir model.SyncDirection) error {
	var op string
	switch dir {
	case model.SyncPush:
		op = "push database"
	case model.SyncPull:
		op = "pull database"
	default:
		return fmt.Errorf("sync: invalid direction %q", dir)
	}
	return c.call(ctx, op, http.MethodPost, c.endpoint(nil, "api", "db", string(dir)), nil, nil)
}

// Push sends local store commits upstream.
func (c *Client) Push(ctx context.Context) error {
	return c.Sync(ctx, model.SyncPush)
}

// Pull fetches upstream commits into the store.
func (c *Client) Pull(ctx context.Context) error {
	return c.Sync(ctx, model.SyncPull)
}
