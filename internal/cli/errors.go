package cli

import (
	"errors"
	"net/url"

	"github.com/roach88/recipetracker/internal/client"
	"github.com/roach88/recipetracker/internal/editor"
	"github.com/roach88/recipetracker/internal/ingredients"
	"github.com/roach88/recipetracker/internal/model"
	"github.com/roach88/recipetracker/internal/recipefile"
)

// Error code constants, unified across all commands.
const (
	ErrCodeGeneric    = "E001" // Generic/unknown error
	ErrCodeConfig     = "E002" // Configuration could not be resolved
	ErrCodeState      = "E003" // Local preference database unusable
	ErrCodeUsage      = "E004" // Invalid flag or argument
	ErrCodeValidation = "E010" // Rejected before any request was sent
	ErrCodeNotFound   = "E011" // Server answered 404
	ErrCodeServer     = "E012" // Server answered with another failure
	ErrCodeTransport  = "E013" // Server could not be reached
	ErrCodeExport     = "E020" // Output file could not be written
)

// localErrors are rejected before any request is issued.
var localErrors = []error{
	model.ErrMissingRecipeID,
	model.ErrMissingTitle,
	model.ErrIncompleteIngredient,
	ingredients.ErrIndexOutOfRange,
	client.ErrMissingLogID,
	editor.ErrUnsavedLog,
}

// classify maps an error to its output code and exit code.
func classify(err error) (code string, exit int) {
	var loadErr *recipefile.LoadError
	switch {
	case errors.As(err, &loadErr):
		return loadErr.Code, ExitCommandError
	case client.IsValidationError(err):
		return ErrCodeValidation, ExitCommandError
	case client.IsNotFound(err):
		return ErrCodeNotFound, ExitFailure
	case client.IsResponseError(err), client.IsDecodeError(err):
		return ErrCodeServer, ExitFailure
	case errors.Is(err, editor.ErrSyncInProgress):
		return ErrCodeGeneric, ExitFailure
	}
	for _, local := range localErrors {
		if errors.Is(err, local) {
			return ErrCodeValidation, ExitCommandError
		}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ErrCodeTransport, ExitFailure
	}
	return ErrCodeGeneric, ExitFailure
}

// details returns machine-readable context for err, if any.
func details(err error) any {
	var ve *client.ValidationError
	if errors.As(err, &ve) {
		return map[string]string{"field": ve.Field, "rule": ve.Rule}
	}
	if status := client.StatusCode(err); status != 0 {
		return map[string]int{"status": status}
	}
	return nil
}

// fail reports err through the formatter and returns the matching
// ExitError.
func fail(f *OutputFormatter, err error) error {
	code, exit := classify(err)
	_ = f.Error(code, err.Error(), details(err))
	return exitError(exit, code, err)
}

// failWith reports err under an explicit code.
func failWith(f *OutputFormatter, code string, exit int, err error) error {
	_ = f.Error(code, err.Error(), nil)
	return exitError(exit, code, err)
}
