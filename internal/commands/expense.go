package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/billbook-dev/billbook/internal/activity"
	"github.com/billbook-dev/billbook/internal/categories"
	"github.com/billbook-dev/billbook/internal/importer"
	"github.com/billbook-dev/billbook/internal/model"
	"github.com/billbook-dev/billbook/internal/records"
)

func newExpenseCommand(s *settings) *cobra.Command {
	expenseCmd := &cobra.Command{
		Use:   "expense",
		Short: "Record and import expenses",
	}
	expenseCmd.AddCommand(newExpenseAddCommand(s))
	expenseCmd.AddCommand(newExpenseImportCommand(s))
	return expenseCmd
}

func newExpenseAddCommand(s *settings) *cobra.Command {
	var category, amount, date string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Long:  "Record an expense. Categories: " + joinNames(categories.Expenses()) + ".",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withApp(cmd, func(a *app) error {
				var when time.Time
				if date != "" {
					d, err := parseDay(date, a.loc)
					if err != nil {
						return fmt.Errorf("invalid --date: %w", err)
					}
					when = d
				}

				e, err := a.store.AddExpense(cmd.Context(), records.ExpenseInput{
					Category: category,
					Amount:   amount,
					Date:     when,
				})
				if err != nil {
					return err
				}
				a.log.Info("expense added", "id", e.ID)
				a.note(activity.Entry{
					Action:   activity.ActionAdd,
					Kind:     model.KindExpense,
					RecordID: e.ID,
					Details:  fmt.Sprintf("%s %s on %s", e.Category, e.Amount.StringFixed(2), formatDay(e.Date)),
				})
				fmt.Fprintf(cmd.OutOrStdout(), "Added expense %s: %s %s on %s\n",
					e.ID, categories.Expenses().DisplayName(e.Category), a.format.Format(e.Amount), formatDay(e.Date))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "expense category")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 45.90")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD), default today")

	return cmd
}

func newExpenseImportCommand(s *settings) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import expenses from a CSV file or an app backup",
		Long: "Import expenses from a file. Without a file, every .csv and .json file " +
			"in <dir>/import is imported and moved to import/processed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withApp(cmd, func(a *app) error {
				reg := importer.DefaultRegistry(a.loc, a.log)

				if len(args) == 1 {
					f := format
					if f == "" {
						f = importer.FormatForFile(args[0])
					}
					n, err := importFile(cmd, a, reg, args[0], f)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %d expenses from %s\n", n, args[0])
					return nil
				}

				files, err := importer.Scan(a.dir)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import")
					return nil
				}
				total := 0
				for _, fi := range files {
					f := fi.Format
					if format != "" {
						f = format
					}
					n, err := importFile(cmd, a, reg, fi.Path, f)
					if err != nil {
						return fmt.Errorf("%s: %w", fi.Name, err)
					}
					if err := importer.MarkProcessed(a.dir, fi.Name); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %d expenses from %s\n", n, fi.Name)
					total += n
				}
				a.log.Info("import finished", "files", len(files), "expenses", total)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "file format: csv or backup (default: from extension)")

	return cmd
}

func importFile(cmd *cobra.Command, a *app, reg *importer.Registry, path, format string) (int, error) {
	p := reg.Get(format)
	if p == nil {
		return 0, fmt.Errorf("unknown import format %q", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	expenses, err := p.Parse(f)
	if err != nil {
		return 0, err
	}
	if len(expenses) == 0 {
		return 0, nil
	}

	added, err := a.store.AppendExpenses(cmd.Context(), expenses)
	if err != nil {
		if errors.Is(err, records.ErrMalformed) {
			return 0, fmt.Errorf("refusing to import into unreadable expense data: %w", err)
		}
		return 0, err
	}

	entries := make([]activity.Entry, len(added))
	for i, e := range added {
		entries[i] = activity.Entry{
			Action:   activity.ActionImport,
			Kind:     model.KindExpense,
			RecordID: e.ID,
			Details:  fmt.Sprintf("%s %s on %s from %s", e.Category, e.Amount.StringFixed(2), formatDay(e.Date), filepath.Base(path)),
		}
	}
	a.note(entries...)
	return len(added), nil
}
