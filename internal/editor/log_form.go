package editor

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/recipetracker/internal/ingredients"
	"github.com/roach88/recipetracker/internal/model"
)

// ErrUnsavedLog is returned when deleting a log that was never saved.
var ErrUnsavedLog = errors.New("log has not been saved")

// LogForm edits one cooking log of a recipe.
type LogForm struct {
	Rows

	ID          string
	RecipeID    string
	Description string

	session *Session
}

// NewLogForm starts a log for recipe, pre-filling the actual ingredients
// with the recipe's list.
func (s *Session) NewLogForm(recipe model.Recipe) *LogForm {
	return &LogForm{
		Rows:     Rows{Items: cloneRows(recipe.Ingredients)},
		RecipeID: recipe.ID,
		session:  s,
	}
}

// EditLog starts a form pre-filled with an existing log.
func (s *Session) EditLog(l model.RecipeLog) *LogForm {
	return &LogForm{
		Rows:        Rows{Items: cloneRows(l.ActualIngredients)},
		ID:          l.ID,
		RecipeID:    l.RecipeID,
		Description: l.Description,
		session:     s,
	}
}

// Submit saves the log. A log without an id is assigned the current unix
// time in seconds.
func (f *LogForm) Submit(ctx context.Context) (model.RecipeLog, error) {
	if f.RecipeID == "" {
		return model.RecipeLog{}, model.ErrMissingRecipeID
	}
	if err := ingredients.Validate(f.Items); err != nil {
		return model.RecipeLog{}, err
	}

	id := f.ID
	if id == "" {
		id = strconv.FormatInt(f.session.now().Unix(), 10)
	}
	entry := model.RecipeLog{
		ID:                id,
		RecipeID:          f.RecipeID,
		Description:       f.Description,
		ActualIngredients: cloneRows(f.Items),
	}
	info := f.session.commitInfo(ctx, fmt.Sprintf("Changed log %s in recipe %s", id, f.RecipeID))

	saved, err := f.session.api.SaveLog(ctx, entry, info)
	if err != nil {
		return model.RecipeLog{}, err
	}
	if saved.ID == "" {
		saved.ID = id
	}
	f.session.log.Debug("log saved", "recipe", f.RecipeID, "id", saved.ID)

	f.ID = saved.ID
	return saved, nil
}

// Delete removes the saved log.
func (f *LogForm) Delete(ctx context.Context) error {
	if f.RecipeID == "" {
		return model.ErrMissingRecipeID
	}
	if f.ID == "" {
		return ErrUnsavedLog
	}
	info := f.session.commitInfo(ctx, fmt.Sprintf("Deleted log %s in recipe %s", f.ID, f.RecipeID))
	return f.session.api.DeleteLog(ctx, f.RecipeID, f.ID, info)
}
