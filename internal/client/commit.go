package client

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/recipetracker/internal/model"
)

// MinIdentityLength is the shortest accepted author name or email.
const MinIdentityLength = 5

// Query parameter names understood by mutation endpoints.
const (
	ParamCommitMessage = "commitMessage"
	ParamAuthor        = "author"
	ParamEmail         = "email"
)

// attribution is the validated shape of a CommitInfo.
type attribution struct {
	Message string `validate:"required"`
	Name    string `validate:"required,min=5"`
	Email   string `validate:"omitempty,min=5"`
}

var fieldNames = map[string]string{
	"Message": "commit.message",
	"Name":    "author.name",
	"Email":   "author.email",
}

var fieldLabels = map[string]string{
	"Message": "Commit message",
	"Name":    "Author name",
	"Email":   "Author email",
}

var validate = validator.New()

// ValidateCommitInfo checks the attribution of a mutation. It returns a
// *ValidationError describing the first violated rule.
func ValidateCommitInfo(info model.CommitInfo) error {
	a := attribution{
		Message: strings.TrimSpace(info.Message),
		Name:    strings.TrimSpace(info.Author.Name),
		Email:   strings.TrimSpace(info.Author.Email),
	}

	err := validate.Struct(a)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "commit", Rule: "invalid", Message: err.Error()}
	}

	fe := fieldErrs[0]
	label := fieldLabels[fe.StructField()]
	msg := fmt.Sprintf("%s is invalid", label)
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", label)
	case "min":
		msg = fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
	}
	return &ValidationError{Field: fieldNames[fe.StructField()], Rule: fe.Tag(), Message: msg}
}

// EncodeCommitInfo produces the query parameters attached to every
// mutation. The email parameter is omitted when empty.
func EncodeCommitInfo(info model.CommitInfo) url.Values {
	q := url.Values{}
	q.Set(ParamCommitMessage, info.Message)
	q.Set(ParamAuthor, info.Author.Name)
	if info.Author.Email != "" {
		q.Set(ParamEmail, info.Author.Email)
	}
	return q
}
