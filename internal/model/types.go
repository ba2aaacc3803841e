package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Ingredient is one row of a recipe's ingredient list.
// Order within the containing slice is significant.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Complete reports whether the row may be persisted.
// Partially filled rows only exist while a form is being edited.
func (i Ingredient) Complete() bool {
	if strings.TrimSpace(i.Name) == "" {
		return false
	}
	return !math.IsNaN(i.Quantity) && !math.IsInf(i.Quantity, 0)
}

// String renders the row the way the recipe page lists it.
func (i Ingredient) String() string {
	parts := []string{formatQuantity(i.Quantity)}
	for _, p := range []string{i.Unit, i.Name} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func formatQuantity(q float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", q), "0"), ".")
}

// Recipe is the primary versioned entity.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Ingredients []Ingredient `json:"ingredients"`
}

// RecipeLog records one real-world cooking of a recipe.
type RecipeLog struct {
	ID                string       `json:"id"`
	RecipeID          string       `json:"recipeId"`
	Description       string       `json:"description"`
	ActualIngredients []Ingredient `json:"actualIngredients,omitempty"`
	Commit            *Commit      `json:"commit,omitempty"`
}

// Signature identifies the author or committer of a commit.
type Signature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	When  time.Time `json:"when"`
}

// Commit is an immutable history entry attached by the server.
type Commit struct {
	Author    Signature `json:"author"`
	Committer Signature `json:"committer"`
	Message   string    `json:"message"`
	Hash      string    `json:"hash"`
}

// ShortHash returns the abbreviated commit hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) <= 7 {
		return c.Hash
	}
	return c.Hash[:7]
}

// Identity is the attribution persisted locally and reused for every
// mutation issued from one installation.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CommitInfo is the metadata supplied with a mutation.
type CommitInfo struct {
	Message string
	Author  Identity
}

// SyncDirection selects which way the backing store synchronizes.
type SyncDirection string

const (
	SyncPush SyncDirection = "push"
	SyncPull SyncDirection = "pull"
)

// ValidSyncDirections lists the accepted directions.
var ValidSyncDirections = []SyncDirection{SyncPush, SyncPull}

// ParseSyncDirection converts a user supplied string to a SyncDirection.
func ParseSyncDirection(s string) (SyncDirection, error) {
	for _, d := range ValidSyncDirections {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid sync direction %q: must be one of %v", s, ValidSyncDirections)
}
