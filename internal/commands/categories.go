package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/billbook-dev/billbook/internal/categories"
)

func newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List bill and expense categories",
		Long: `List the categories accepted by --category. Either the name or the
stored label may be given, in any case.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "KIND\tNAME\tLABEL")
			for _, cat := range []*categories.Catalog{categories.Bills(), categories.Expenses()} {
				for _, c := range cat.All() {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", cat.Kind(), c.Name, c.Label)
				}
			}
			if err := tw.Flush(); err != nil {
				return fmt.Errorf("writing table: %w", err)
			}
			return nil
		},
	}
}
