// Package ingredients implements the editing rules for ingredient lists.
//
// Form state holds one row per rendered input line, so every
// transformation preserves index alignment: rows that are not targeted
// keep their relative order and field values. Inputs are never mutated;
// each function returns a fresh slice.
package ingredients

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/recipetracker/internal/model"
)

// Field names one editable column of an ingredient row.
type Field string

const (
	FieldName     Field = "name"
	FieldQuantity Field = "quantity"
	FieldUnit     Field = "unit"
)

// ValidFields lists the editable columns.
var ValidFields = []Field{FieldName, FieldQuantity, FieldUnit}

// ErrIndexOutOfRange is returned when a row index does not exist.
var ErrIndexOutOfRange = errors.New("ingredient index out of range")

// ParseField converts a column name to a Field.
func ParseField(s string) (Field, error) {
	for _, f := range ValidFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid ingredient field %q: must be one of %v", s, ValidFields)
}

// Blank returns the default row appended by "add ingredient".
func Blank() model.Ingredient {
	return model.Ingredient{Name: "", Quantity: 0, Unit: ""}
}

// WithAppended returns a copy of list with blank added at the end.
func WithAppended(list []model.Ingredient, blank model.Ingredient) []model.Ingredient {
	out := make([]model.Ingredient, len(list), len(list)+1)
	copy(out, list)
	return append(out, blank)
}

// WithUpdatedAt returns a copy of list where the row at index has field
// replaced by value. Quantities are parsed as numbers; name and unit are
// copied verbatim, including empty strings typed mid-edit.
func WithUpdatedAt(list []model.Ingredient, index int, field Field, value string) ([]model.Ingredient, error) {
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("update row %d of %d: %w", index, len(list), ErrIndexOutOfRange)
	}

	row := list[index]
	switch field {
	case FieldName:
		row.Name = value
	case FieldUnit:
		row.Unit = value
	case FieldQuantity:
		row.Quantity = ParseQuantity(value)
	default:
		return nil, fmt.Errorf("update row %d: invalid field %q", index, field)
	}

	out := make([]model.Ingredient, len(list))
	copy(out, list)
	out[index] = row
	return out, nil
}

// WithRemovedAt returns a copy of list without the row at index. Later
// rows shift down by one position.
func WithRemovedAt(list []model.Ingredient, index int) ([]model.Ingredient, error) {
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("remove row %d of %d: %w", index, len(list), ErrIndexOutOfRange)
	}

	out := make([]model.Ingredient, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...), nil
}

// Validate checks that every row is complete enough to be persisted.
func Validate(list []model.Ingredient) error {
	for i, row := range list {
		if !row.Complete() {
			return fmt.Errorf("row %d: %w", i+1, model.ErrIncompleteIngredient)
		}
	}
	return nil
}

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseQuantity reads the leading number of s, ignoring leading
// whitespace and any trailing text ("250g" is 250). Input without a
// numeric prefix, including the empty string, yields 0.
func ParseQuantity(s string) float64 {
	m := numberPrefix.FindString(strings.TrimLeft(s, " \t\n\r"))
	if m == "" {
		return 0
	}
	// Only overflow can fail here, and then v is ±Inf, which Validate rejects.
	v, _ := strconv.ParseFloat(m, 64)
	return v
}
