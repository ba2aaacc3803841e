package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/recipetracker/internal/slug"
)

// NewSlugCommand creates the slug command.
func NewSlugCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "slug <title...>",
		Short: "Print the recipe id derived from a title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd)
			return out.Success(slug.Slugify(strings.Join(args, " ")))
		},
	}
}
