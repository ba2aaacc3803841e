package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/recipetracker/internal/async"
	"github.com/roach88/recipetracker/internal/client"
	"github.com/roach88/recipetracker/internal/editor"
	"github.com/roach88/recipetracker/internal/export"
	"github.com/roach88/recipetracker/internal/ingredients"
	"github.com/roach88/recipetracker/internal/model"
	"github.com/roach88/recipetracker/internal/recipefile"
	"github.com/roach88/recipetracker/internal/slug"
)

// NewRecipesCommand creates the recipes command group.
func NewRecipesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List, show and edit recipes",
	}

	cmd.AddCommand(newRecipesListCommand(rootOpts))
	cmd.AddCommand(newRecipesShowCommand(rootOpts))
	cmd.AddCommand(newRecipesSaveCommand(rootOpts))
	cmd.AddCommand(newRecipesHistoryCommand(rootOpts))
	cmd.AddCommand(newRecipesExportCommand(rootOpts))

	return cmd
}

func newRecipesListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			recipes, err := e.client.ListRecipes(cmd.Context())
			if err != nil {
				return fail(e.out, err)
			}
			return e.out.Success(recipeList(recipes))
		},
	}
}

func newRecipesShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show a recipe with its logs and checked ingredients",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			view := e.session.RecipeView(async.WithContext(cmd.Context()))
			defer view.Close()

			details, err := view.Show(cmd.Context(), args[0])
			if err != nil {
				return fail(e.out, err)
			}
			return e.out.Success(recipeDetail(details))
		},
	}
}

// RecipeSaveOptions holds flags for recipes save.
type RecipeSaveOptions struct {
	*RootOptions
	File        string
	ID          string
	Title       string
	Description string
	Ingredients []string
}

func newRecipesSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecipeSaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create or update recipes",
		Long: `Create or update a recipe from flags, or every recipe in a document.

Documents may be .cue, .yaml/.yml or .json files, or a directory of them.
A recipe without an id gets one derived from its title. Ingredients are
given as name:quantity[:unit].

Example:
  recipetracker recipes save --title "Tomato Soup" --ingredient tomato:4:pcs
  recipetracker recipes save --id tomato-soup --description "Simmer slowly."
  recipetracker recipes save --file ./recipes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecipesSave(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "recipe document or directory")
	cmd.Flags().StringVar(&opts.ID, "id", "", "recipe id (default: derived from title)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "recipe title")
	cmd.Flags().StringVar(&opts.Description, "description", "", "recipe description")
	cmd.Flags().StringArrayVar(&opts.Ingredients, "ingredient", nil, "ingredient as name:quantity[:unit] (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("file", "id")
	cmd.MarkFlagsMutuallyExclusive("file", "title")

	return cmd
}

// savedRecipe is one line of save output.
type savedRecipe struct {
	ID    string `json:"id"`
	Added bool   `json:"added"`
}

type savedRecipes []savedRecipe

func (s savedRecipes) String() string {
	lines := make([]string, len(s))
	for i, r := range s {
		verb := "Changed"
		if r.Added {
			verb = "Added"
		}
		lines[i] = fmt.Sprintf("%s recipe %s", verb, r.ID)
	}
	return strings.Join(lines, "\n")
}

func runRecipesSave(opts *RecipeSaveOptions, cmd *cobra.Command) error {
	e, err := setup(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer e.close()
	ctx := cmd.Context()

	if opts.File != "" {
		result, errs := recipefile.Load(opts.File, recipefile.LoadModeCollectAll)
		if len(errs) > 0 {
			last := len(errs) - 1
			for _, err := range errs[:last] {
				code, _ := classify(err)
				_ = e.out.Error(code, err.Error(), nil)
			}
			return fail(e.out, errs[last])
		}
		e.out.VerboseLog("Loaded %d recipe(s) from %d file(s)", len(result.Recipes), len(result.Files))

		var saved savedRecipes
		for _, r := range result.Recipes {
			added, err := upsertRecipe(ctx, e, r.ID, func(f *editor.RecipeForm) error {
				f.Title = r.Title
				f.Description = r.Description
				f.Items = r.Ingredients
				return nil
			})
			if err != nil {
				return fail(e.out, fmt.Errorf("recipe %s: %w", r.ID, err))
			}
			saved = append(saved, savedRecipe{ID: r.ID, Added: added})
		}
		return e.out.Success(saved)
	}

	id := opts.ID
	if id == "" {
		id = slug.Slugify(opts.Title)
	}
	if id == "" {
		return fail(e.out, model.ErrMissingTitle)
	}
	if !slug.IsSlug(id) {
		return failWith(e.out, ErrCodeUsage, ExitCommandError, fmt.Errorf("invalid recipe id %q", id))
	}

	flags := cmd.Flags()
	added, err := upsertRecipe(ctx, e, id, func(f *editor.RecipeForm) error {
		if flags.Changed("title") {
			f.Title = opts.Title
		}
		if flags.Changed("description") {
			f.Description = opts.Description
		}
		if flags.Changed("ingredient") {
			return setIngredients(&f.Rows, opts.Ingredients)
		}
		return nil
	})
	if err != nil {
		return fail(e.out, err)
	}
	return e.out.Success(savedRecipes{{ID: id, Added: added}})
}

// upsertRecipe edits the stored recipe with id, or starts a new one when
// the server does not know it, and submits the result.
func upsertRecipe(ctx context.Context, e *env, id string, apply func(*editor.RecipeForm) error) (added bool, err error) {
	var form *editor.RecipeForm
	existing, err := e.client.GetRecipe(ctx, id)
	switch {
	case err == nil:
		form = e.session.EditRecipe(existing)
	case client.IsNotFound(err):
		form = e.session.NewRecipeForm()
		form.ID = id
	default:
		return false, err
	}

	if err := apply(form); err != nil {
		return false, err
	}
	added = form.IsNew()
	if _, err := form.Submit(ctx); err != nil {
		return false, err
	}
	return added, nil
}

// setIngredients replaces rows with name:quantity[:unit] specs, going
// through the same row edits as an interactive form.
func setIngredients(rows *editor.Rows, specs []string) error {
	rows.Items = nil
	for i, spec := range specs {
		parts := strings.SplitN(spec, ":", 3)
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
			return fmt.Errorf("ingredient %q: want name:quantity[:unit]: %w", spec, model.ErrIncompleteIngredient)
		}
		rows.AddIngredient()
		values := map[ingredients.Field]string{
			ingredients.FieldName:     strings.TrimSpace(parts[0]),
			ingredients.FieldQuantity: strings.TrimSpace(parts[1]),
		}
		if len(parts) == 3 {
			values[ingredients.FieldUnit] = strings.TrimSpace(parts[2])
		}
		for field, value := range values {
			if err := rows.UpdateIngredient(i, field, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func newRecipesHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <recipe-id>",
		Short: "List the commits that changed a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			commits, err := e.client.RecipeHistory(cmd.Context(), args[0])
			if err != nil {
				return fail(e.out, err)
			}
			return e.out.Success(historyView(commits))
		},
	}
}

func newRecipesExportCommand(rootOpts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every recipe to a spreadsheet or YAML file",
		Long: `Export every recipe to a file chosen by extension: .xlsx writes a
workbook with one sheet per recipe and the checked ingredient state;
.yaml/.yml writes a recipe document that "recipes save --file" accepts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecipesExport(rootOpts, out, cmd)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (.xlsx, .yaml or .yml)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runRecipesExport(opts *RootOptions, path string, cmd *cobra.Command) error {
	e, err := setup(opts, cmd)
	if err != nil {
		return err
	}
	defer e.close()
	ctx := cmd.Context()

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".yaml" && ext != ".yml" {
		return failWith(e.out, ErrCodeUsage, ExitCommandError,
			fmt.Errorf("unsupported export format %q: use .xlsx, .yaml or .yml", ext))
	}

	recipes, err := e.client.ListRecipes(ctx)
	if err != nil {
		return fail(e.out, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return failWith(e.out, ErrCodeExport, ExitCommandError, err)
	}
	if ext == ".xlsx" {
		checked := export.Checked{}
		for _, r := range recipes {
			checked[r.ID] = e.prefs.CheckedIngredients(ctx, r.ID)
		}
		err = export.WriteWorkbook(f, recipes, checked)
	} else {
		err = recipefile.WriteYAML(f, recipes)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return failWith(e.out, ErrCodeExport, ExitCommandError, err)
	}

	return e.out.Success(fmt.Sprintf("Exported %s to %s", plural(len(recipes), "recipe"), path))
}
