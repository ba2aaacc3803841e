// Package editor holds the form sessions that sit between user input and
// the REST client: recipe and log forms, the store sync panel and the
// recipe detail view.
//
// Forms are plain values edited field by field. Submitting a form derives
// any missing identifiers, validates the rows, attaches the persisted
// identity as commit attribution and issues exactly one mutation.
package editor

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/recipetracker/internal/model"
	"github.com/roach88/recipetracker/internal/prefs"
)

// API is the subset of the REST client the editor drives.
// *client.Client satisfies it.
type API interface {
	GetRecipe(ctx context.Context, id string) (model.Recipe, error)
	SaveRecipe(ctx context.Context, recipe model.Recipe, info model.CommitInfo) (model.Recipe, error)
	ListLogs(ctx context.Context, recipeID string) ([]model.RecipeLog, error)
	SaveLog(ctx context.Context, log model.RecipeLog, info model.CommitInfo) (model.RecipeLog, error)
	DeleteLog(ctx context.Context, recipeID, logID string, info model.CommitInfo) error
	Sync(ctx context.Context, dir model.SyncDirection) error
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the time source used to mint log ids.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// Session bundles the API with the local preference store.
type Session struct {
	api   API
	prefs *prefs.Store
	now   func() time.Time
	log   *slog.Logger
}

// NewSession creates a session.
func NewSession(api API, store *prefs.Store, opts ...Option) *Session {
	s := &Session{
		api:   api,
		prefs: store,
		now:   time.Now,
		log:   slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// commitInfo attributes message to the persisted identity.
func (s *Session) commitInfo(ctx context.Context, message string) model.CommitInfo {
	return model.CommitInfo{Message: message, Author: s.prefs.Identity(ctx)}
}
