package cli

import (
	"sort"

	"github.com/spf13/cobra"
)

// NewCheckedCommand creates the checked command.
func NewCheckedCommand(rootOpts *RootOptions) *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "checked <recipe-id> [ingredient]",
		Short: "Show or toggle the checked ingredients of a recipe",
		Long: `Show the ingredients ticked off while shopping or cooking a recipe.
Naming an ingredient toggles it; --clear unchecks everything. The state
is kept in the local preference database.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.close()
			ctx := cmd.Context()
			recipeID := args[0]

			switch {
			case clearAll:
				if err := e.prefs.ClearChecked(ctx, recipeID); err != nil {
					return failWith(e.out, ErrCodeState, ExitCommandError, err)
				}
			case len(args) == 2:
				if _, err := e.prefs.ToggleIngredient(ctx, recipeID, args[1]); err != nil {
					return failWith(e.out, ErrCodeState, ExitCommandError, err)
				}
			}

			checked := e.prefs.CheckedIngredients(ctx, recipeID)
			view := checkedView{RecipeID: recipeID, Checked: checked}
			for name, on := range checked {
				if on {
					view.Names = append(view.Names, name)
				}
			}
			sort.Strings(view.Names)
			return e.out.Success(view)
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "uncheck every ingredient")

	return cmd
}
