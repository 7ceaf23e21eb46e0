package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/billbook-dev/billbook/internal/categories"
	"github.com/billbook-dev/billbook/internal/filter"
	"github.com/billbook-dev/billbook/internal/model"
	"github.com/billbook-dev/billbook/internal/money"
)

type listFlags struct {
	kind     string
	window   string
	from     string
	to       string
	min      string
	max      string
	category string
}

func newListCommand(s *settings) *cobra.Command {
	var f listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bills and expenses, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withApp(cmd, func(a *app) error {
				opts, err := f.options(a.loc)
				if err != nil {
					return err
				}

				bills, err := a.store.LoadBills(cmd.Context())
				if err != nil {
					return err
				}
				expenses, err := a.store.LoadExpenses(cmd.Context())
				if err != nil {
					return err
				}

				recs := filter.Apply(bills, expenses, opts, a.now())
				a.log.Debug("records filtered", "bills", len(bills), "expenses", len(expenses), "shown", len(recs))
				return printRecords(cmd, a, recs)
			})
		},
	}

	cmd.Flags().StringVar(&f.kind, "type", "all", "record type: all, bills or expenses")
	cmd.Flags().StringVar(&f.window, "window", "all", "date window: all, 7d, month or custom")
	cmd.Flags().StringVar(&f.from, "from", "", "custom window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "custom window end, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.min, "min", "", "minimum amount, inclusive")
	cmd.Flags().StringVar(&f.max, "max", "", "maximum amount, inclusive")
	cmd.Flags().StringVar(&f.category, "category", "", "category name or label")

	return cmd
}

// options turns flag values into filter options. --from or --to alone
// select the custom window, and --to covers the whole day. They are
// rejected with any other window.
func (f listFlags) options(loc *time.Location) (filter.Options, error) {
	var opts filter.Options
	var err error

	if opts.Scope, err = filter.ParseScope(f.kind); err != nil {
		return opts, err
	}
	if opts.Window.Kind, err = filter.ParseWindowKind(f.window); err != nil {
		return opts, err
	}
	if f.from != "" || f.to != "" {
		switch opts.Window.Kind {
		case filter.WindowAll:
			opts.Window.Kind = filter.WindowCustom
		case filter.WindowCustom:
		default:
			return opts, fmt.Errorf("--from and --to need --window custom, not %q", f.window)
		}
	}
	if opts.Window.Kind == filter.WindowCustom {
		if f.from == "" && f.to == "" {
			return opts, fmt.Errorf("custom window needs --from and/or --to")
		}
		if f.from != "" {
			if opts.Window.Start, err = parseDay(f.from, loc); err != nil {
				return opts, fmt.Errorf("invalid --from: %w", err)
			}
		}
		opts.Window.End = time.Date(9999, 12, 31, 23, 59, 59, 0, loc)
		if f.to != "" {
			end, err := parseDay(f.to, loc)
			if err != nil {
				return opts, fmt.Errorf("invalid --to: %w", err)
			}
			opts.Window.End = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
	}

	if opts.Min, err = amountBound("--min", f.min); err != nil {
		return opts, err
	}
	if opts.Max, err = amountBound("--max", f.max); err != nil {
		return opts, err
	}

	opts.Category = categoryLabel(f.category, opts.Scope)

	return opts, opts.Validate()
}

func amountBound(flag, s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := money.Parse(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid %s: %w", flag, err)
	}
	return decimal.NewNullDecimal(d), nil
}

// categoryLabel maps an English name to the stored label for the scope.
// Anything unknown is kept as typed, so legacy titles still match.
func categoryLabel(s string, scope filter.Scope) string {
	if s == "" {
		return ""
	}
	var catalogs []*categories.Catalog
	switch scope {
	case filter.ScopeBills:
		catalogs = []*categories.Catalog{categories.Bills()}
	case filter.ScopeExpenses:
		catalogs = []*categories.Catalog{categories.Expenses()}
	default:
		catalogs = []*categories.Catalog{categories.Bills(), categories.Expenses()}
	}
	for _, c := range catalogs {
		if cat, ok := c.Lookup(s); ok {
			return cat.Label
		}
	}
	return s
}

func printRecords(cmd *cobra.Command, a *app, recs []model.Record) error {
	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintln(out, "No records found")
		return nil
	}

	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tTYPE\tDATE\tTITLE\tCATEGORY\tAMOUNT\tSTATUS")
	total := decimal.Zero
	for _, r := range recs {
		status := ""
		if r.Kind == model.KindBill {
			status = "unpaid"
			if r.Paid {
				status = "paid"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Kind, formatDay(r.Date), displayTitle(r), displayCategory(r), a.format.Format(r.Amount), status)
		total = total.Add(r.Amount)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	fmt.Fprintf(out, "%d records, total %s\n", len(recs), a.format.Format(total))
	return nil
}
