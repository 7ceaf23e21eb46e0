package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/billbook-dev/billbook/internal/export"
	"github.com/billbook-dev/billbook/internal/filter"
)

func newExportCommand(s *settings) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all bills and expenses as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withApp(cmd, func(a *app) error {
				bills, err := a.store.LoadBills(cmd.Context())
				if err != nil {
					return err
				}
				expenses, err := a.store.LoadExpenses(cmd.Context())
				if err != nil {
					return err
				}
				recs := filter.Apply(bills, expenses, filter.Options{}, a.now())

				if outPath == "" || outPath == "-" {
					return export.WriteRecords(cmd.OutOrStdout(), recs)
				}

				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				if err := export.WriteRecords(f, recs); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("closing export file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(recs), outPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	return cmd
}
