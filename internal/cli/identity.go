package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/recipetracker/internal/client"
	"github.com/roach88/recipetracker/internal/model"
)

// NewIdentityCommand creates the identity command group.
func NewIdentityCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Show or set the name and email attached to every change",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the stored identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.close()
			return e.out.Success(identityView(e.prefs.Identity(cmd.Context())))
		},
	})
	cmd.AddCommand(newIdentitySetCommand(rootOpts))

	return cmd
}

func newIdentitySetCommand(rootOpts *RootOptions) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the identity used for commits",
		Long: `Store the identity used for commits. The name is required and, like
the optional email, must be at least 5 characters long.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			id := model.Identity{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
			if err := client.ValidateCommitInfo(model.CommitInfo{Message: "identity", Author: id}); err != nil {
				return fail(e.out, err)
			}
			if err := e.prefs.SetIdentity(cmd.Context(), id); err != nil {
				return failWith(e.out, ErrCodeState, ExitCommandError, err)
			}
			return e.out.Success(identityView(id))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "author name")
	cmd.Flags().StringVar(&email, "email", "", "author email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
