package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/recipetracker/internal/client"
	"github.com/roach88/recipetracker/internal/prefs"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Server     string
	StatePath  string

	// HTTPClient replaces the API transport (for testing).
	HTTPClient client.Doer
	// RequestIDs overrides the request id generator (for testing).
	RequestIDs client.RequestIDGenerator
	// Clock overrides the time source used to mint log ids (for testing).
	Clock func() time.Time
	// Prefs replaces the SQLite preference database (for testing).
	Prefs prefs.Backend
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the recipetracker CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipetracker",
		Short: "Manage versioned recipes and cooking logs",
		Long: `Manage recipes and cooking logs kept in a git-backed recipe store.

Every change is recorded as a commit attributed to the identity stored
with "recipetracker identity set".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				err := fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				return failWith(newFormatter(opts, cmd), ErrCodeUsage, ExitCommandError, err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: ./recipetracker.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Server, "server", "", "recipe store URL (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.StatePath, "state", "", "preference database path (overrides config)")

	cmd.AddCommand(NewRecipesCommand(opts))
	cmd.AddCommand(NewLogsCommand(opts))
	cmd.AddCommand(NewDBCommand(opts))
	cmd.AddCommand(NewIdentityCommand(opts))
	cmd.AddCommand(NewCheckedCommand(opts))
	cmd.AddCommand(NewSlugCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
