package commands

import (
	"github.com/spf13/cobra"

	"github.com/billbook-dev/billbook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(opts ...Option) *cobra.Command {
	s := &settings{}
	for _, o := range opts {
		o(s)
	}

	rootCmd := &cobra.Command{
		Use:     "billbook",
		Short:   "Track bills and everyday expenses",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("dir", ".", "project directory")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newBillCommand(s))
	rootCmd.AddCommand(newExpenseCommand(s))
	rootCmd.AddCommand(newListCommand(s))
	rootCmd.AddCommand(newHomeCommand(s))
	rootCmd.AddCommand(newChartCommand(s))
	rootCmd.AddCommand(newExportCommand(s))
	rootCmd.AddCommand(newHistoryCommand(s))
	rootCmd.AddCommand(newCategoriesCommand())

	return rootCmd
}
