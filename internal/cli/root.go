package cli

import (
	"github.com/spf13/cobra"
)

// BuildInfo is set by ldflags in main.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

// NewRootCommand assembles the food-migrate command tree.
func NewRootCommand(info BuildInfo, open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "food-migrate",
		Short: "Migrate food tracker data from PostgreSQL to SQLite",
		Long: `food-migrate moves one user's food diary and body weight history, together
with the food catalogue and per-user food settings, from the PostgreSQL
source database into the SQLite target database.

Dates are re-keyed into strictly increasing timestamps and catalogue
ownership is folded into each user's settings record.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCommand(open))
	root.AddCommand(newVersionCommand(info))

	return root
}
