package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/recipetracker/internal/model"
)

// NewLogsCommand creates the logs command group.
func NewLogsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Record and review cookings of a recipe",
	}

	cmd.AddCommand(newLogsListCommand(rootOpts))
	cmd.AddCommand(newLogsShowCommand(rootOpts))
	cmd.AddCommand(newLogsAddCommand(rootOpts))
	cmd.AddCommand(newLogsEditCommand(rootOpts))
	cmd.AddCommand(newLogsDeleteCommand(rootOpts))

	return cmd
}

func newLogsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <recipe-id>",
		Short: "List the logs of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			logs, err := e.client.ListLogs(cmd.Context(), args[0])
			if err != nil {
				return fail(e.out, err)
			}
			return e.out.Success(logList(logs))
		},
	}
}

func newLogsShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <recipe-id> <log-id>",
		Short: "Show one log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			entry, err := e.client.GetLog(cmd.Context(), args[0], args[1])
			if err != nil {
				return fail(e.out, err)
			}
			return e.out.Success(logDetail(entry))
		},
	}
}

// LogAddOptions holds flags for logs add.
type LogAddOptions struct {
	*RootOptions
	Description string
	Ingredients []string
}

func newLogsAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <recipe-id>",
		Short: "Record a cooking of a recipe",
		Long: `Record a cooking of a recipe. The log starts from the recipe's
ingredient list; pass --ingredient to record what was actually used.

Example:
  recipetracker logs add tomato-soup --description "Needed more salt" \
    --ingredient tomato:5:pcs --ingredient salt:1:tsp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogsAdd(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "what happened")
	cmd.Flags().StringArrayVar(&opts.Ingredients, "ingredient", nil, "actual ingredient as name:quantity[:unit] (repeatable)")

	return cmd
}

func runLogsAdd(opts *LogAddOptions, recipeID string, cmd *cobra.Command) error {
	e, err := setup(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer e.close()
	ctx := cmd.Context()

	recipe, err := e.client.GetRecipe(ctx, recipeID)
	if err != nil {
		return fail(e.out, err)
	}

	form := e.session.NewLogForm(recipe)
	form.Description = opts.Description
	if cmd.Flags().Changed("ingredient") {
		if err := setIngredients(&form.Rows, opts.Ingredients); err != nil {
			return fail(e.out, err)
		}
	}

	saved, err := form.Submit(ctx)
	if err != nil {
		return fail(e.out, err)
	}
	return e.out.Success(fmt.Sprintf("Saved log %s in recipe %s", saved.ID, recipeID))
}

func newLogsEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <recipe-id> <log-id>",
		Short: "Change a saved log",
		Long: `Change the description or actual ingredients of a saved log. The log
keeps its id; --ingredient replaces the whole ingredient list.

Example:
  recipetracker logs edit tomato-soup 1714564800 --ingredient tomato:6:pcs`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogsEdit(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "what happened")
	cmd.Flags().StringArrayVar(&opts.Ingredients, "ingredient", nil, "actual ingredient as name:quantity[:unit] (repeatable)")

	return cmd
}

func runLogsEdit(opts *LogAddOptions, recipeID, logID string, cmd *cobra.Command) error {
	e, err := setup(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer e.close()
	ctx := cmd.Context()

	entry, err := e.client.GetLog(ctx, recipeID, logID)
	if err != nil {
		return fail(e.out, err)
	}
	if entry.RecipeID == "" {
		entry.RecipeID = recipeID
	}

	form := e.session.EditLog(entry)
	if cmd.Flags().Changed("description") {
		form.Description = opts.Description
	}
	if cmd.Flags().Changed("ingredient") {
		if err := setIngredients(&form.Rows, opts.Ingredients); err != nil {
			return fail(e.out, err)
		}
	}

	saved, err := form.Submit(ctx)
	if err != nil {
		return fail(e.out, err)
	}
	return e.out.Success(fmt.Sprintf("Changed log %s in recipe %s", saved.ID, recipeID))
}

func newLogsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <recipe-id> <log-id>",
		Short: "Delete one log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			form := e.session.EditLog(model.RecipeLog{RecipeID: args[0], ID: args[1]})
			if err := form.Delete(cmd.Context()); err != nil {
				return fail(e.out, err)
			}
			return e.out.Success(fmt.Sprintf("Deleted log %s in recipe %s", args[1], args[0]))
		},
	}
}
