package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/recipetracker/internal/editor"
	"github.com/roach88/recipetracker/internal/model"
)

const timeLayout = "2006-01-02 15:04"

type recipeList []model.Recipe

func (l recipeList) writeText(w io.Writer) {
	if len(l) == 0 {
		fmt.Fprintln(w, "No recipes found.")
		return
	}
	width := 0
	for _, r := range l {
		width = max(width, len(r.ID))
	}
	for _, r := range l {
		fmt.Fprintf(w, "%-*s  %s (%s)\n", width, r.ID, r.Title, plural(len(r.Ingredients), "ingredient"))
	}
}

type recipeDetail editor.RecipeDetails

func (d recipeDetail) writeText(w io.Writer) {
	fmt.Fprintf(w, "%s\nID: %s\n", d.Recipe.Title, d.Recipe.ID)
	if d.Recipe.Description != "" {
		fmt.Fprintf(w, "\n%s\n", d.Recipe.Description)
	}

	fmt.Fprintln(w, "\nIngredients:")
	if len(d.Recipe.Ingredients) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, in := range d.Recipe.Ingredients {
		mark := " "
		if d.Checked[in.Name] {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s] %s\n", mark, in)
	}

	fmt.Fprintln(w, "\nLogs:")
	if len(d.Logs) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, l := range d.Logs {
		fmt.Fprintf(w, "  %s  %s\n", l.ID, firstLine(l.Description))
	}
}

type historyView []model.Commit

func (h historyView) writeText(w io.Writer) {
	if len(h) == 0 {
		fmt.Fprintln(w, "No history.")
		return
	}
	for _, c := range h {
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			c.ShortHash(), c.Author.When.UTC().Format(timeLayout), c.Author.Name, firstLine(c.Message))
	}
}

type logList []model.RecipeLog

func (l logList) writeText(w io.Writer) {
	if len(l) == 0 {
		fmt.Fprintln(w, "No logs.")
		return
	}
	for _, entry := range l {
		fmt.Fprintf(w, "%s  %s\n", entry.ID, firstLine(entry.Description))
	}
}

type logDetail model.RecipeLog

func (d logDetail) writeText(w io.Writer) {
	fmt.Fprintf(w, "Log %s of recipe %s\n", d.ID, d.RecipeID)
	if d.Description != "" {
		fmt.Fprintf(w, "\n%s\n", d.Description)
	}
	fmt.Fprintln(w, "\nActual ingredients:")
	if len(d.ActualIngredients) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, in := range d.ActualIngredients {
		fmt.Fprintf(w, "  %s\n", in)
	}
	if d.Commit != nil {
		fmt.Fprintf(w, "\nCommit %s by %s at %s\n",
			d.Commit.ShortHash(), d.Commit.Author.Name, d.Commit.Author.When.UTC().Format(timeLayout))
	}
}

type identityView model.Identity

func (v identityView) writeText(w io.Writer) {
	name, email := v.Name, v.Email
	if name == "" {
		name = "(not set)"
	}
	if email == "" {
		email = "(not set)"
	}
	fmt.Fprintf(w, "Name:  %s\nEmail: %s\n", name, email)
}

type checkedView struct {
	RecipeID string          `json:"recipeId"`
	Checked  map[string]bool `json:"checked"`
	Names    []string        `json:"-"`
}

func (v checkedView) writeText(w io.Writer) {
	if len(v.Names) == 0 {
		fmt.Fprintf(w, "No ingredients checked for %s.\n", v.RecipeID)
		return
	}
	for _, name := range v.Names {
		fmt.Fprintf(w, "[x] %s\n", name)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
