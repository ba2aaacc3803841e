package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/recipetracker/internal/model"
)

// NewDBCommand creates the db command group.
func NewDBCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Synchronize the recipe store with its upstream",
	}

	cmd.AddCommand(newSyncCommand(rootOpts, model.SyncPush, "Push store commits upstream", "Pushed store"))
	cmd.AddCommand(newSyncCommand(rootOpts, model.SyncPull, "Pull upstream commits into the store", "Pulled store"))

	return cmd
}

func newSyncCommand(rootOpts *RootOptions, dir model.SyncDirection, short, done string) *cobra.Command {
	return &cobra.Command{
		Use:   string(dir),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			panel := e.session.StorePanel()
			run := panel.Push
			if dir == model.SyncPull {
				run = panel.Pull
			}
			if err := run(cmd.Context()); err != nil {
				return fail(e.out, err)
			}
			return e.out.Success(done)
		},
	}
}
