package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/recipetracker/internal/async"
	"github.com/roach88/recipetracker/internal/model"
)

// ErrNoRecipe is returned by Refresh before any recipe was shown.
var ErrNoRecipe = errors.New("no recipe selected")

// RecipeDetails is everything the recipe page shows.
type RecipeDetails struct {
	Recipe  model.Recipe      `json:"recipe"`
	Logs    []model.RecipeLog `json:"logs"`
	Checked map[string]bool   `json:"checked"`
}

// RecipeView loads recipe details keyed by recipe id. Switching ids while
// a load is in flight discards the older result.
type RecipeView struct {
	session *Session
	ctrl    *async.Controller[RecipeDetails]
}

// RecipeView creates a detail view. Close releases it.
func (s *Session) RecipeView(opts ...async.Option) *RecipeView {
	v := &RecipeView{session: s}
	opts = append([]async.Option{async.WithLogger(s.log)}, opts...)
	v.ctrl = async.New(v.load, opts...)
	return v
}

// Show switches the view to id and waits for its details.
func (v *RecipeView) Show(ctx context.Context, id string) (RecipeDetails, error) {
	v.ctrl.Restart(id)
	st, err := v.ctrl.Wait(ctx)
	if err != nil {
		return RecipeDetails{}, err
	}
	if st.Err != nil {
		return RecipeDetails{}, st.Err
	}
	return st.Data, nil
}

// Refresh reloads the current recipe.
func (v *RecipeView) Refresh(ctx context.Context) (RecipeDetails, error) {
	v.ctrl.Reload()
	st, err := v.ctrl.Wait(ctx)
	if err != nil {
		return RecipeDetails{}, err
	}
	return st.Data, st.Err
}

// State exposes the underlying load state.
func (v *RecipeView) State() async.State[RecipeDetails] {
	return v.ctrl.State()
}

// Close cancels any in-flight load.
func (v *RecipeView) Close() {
	v.ctrl.Close()
}

func (v *RecipeView) load(ctx context.Context, deps []any) (RecipeDetails, error) {
	if len(deps) == 0 {
		return RecipeDetails{}, ErrNoRecipe
	}
	id := deps[0].(string)

	recipe, err := v.session.api.GetRecipe(ctx, id)
	if err != nil {
		return RecipeDetails{}, err
	}
	logs, err := v.session.api.ListLogs(ctx, id)
	if err != nil {
		return RecipeDetails{}, fmt.Errorf("recipe %s: %w", id, err)
	}
	return RecipeDetails{
		Recipe:  recipe,
		Logs:    logs,
		Checked: v.session.prefs.CheckedIngredients(ctx, id),
	}, nil
}
