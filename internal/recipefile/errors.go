package recipefile

import (
	"fmt"

	"cuelang.org/go/cue/token"
)

// Error codes reported by LoadError.
const (
	ErrCodeNotFound    = "E201" // Path not found
	ErrCodeNoFiles     = "E202" // Directory holds no recipe documents
	ErrCodeUnsupported = "E203" // Unknown file extension
	ErrCodeParse       = "E204" // File is not valid CUE, YAML or JSON
	ErrCodeSchema      = "E205" // Recipe violates the schema
	ErrCodeDuplicateID = "E206" // Two recipes share an id
	ErrCodeNoID        = "E207" // Title yields no id
)

// LoadError describes one recipe document that could not be loaded.
type LoadError struct {
	File    string
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
