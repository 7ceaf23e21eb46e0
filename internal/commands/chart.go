package commands

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/billbook-dev/billbook/internal/aggregate"
	"github.com/billbook-dev/billbook/internal/categories"
	"github.com/billbook-dev/billbook/internal/compare"
	"github.com/billbook-dev/billbook/internal/model"
)

func newChartCommand(s *settings) *cobra.Command {
	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Spending breakdowns, comparisons and trends",
	}
	chartCmd.AddCommand(newChartPieCommand(s))
	chartCmd.AddCommand(newChartCompareCommand(s))
	chartCmd.AddCommand(newChartTrendCommand(s))
	return chartCmd
}

// loadRecords returns every bill and expense as records.
func loadRecords(cmd *cobra.Command, a *app) ([]model.Record, error) {
	bills, err := a.store.LoadBills(cmd.Context())
	if err != nil {
		return nil, err
	}
	expenses, err := a.store.LoadExpenses(cmd.Context())
	if err != nil {
		return nil, err
	}
	return model.Records(bills, expenses), nil
}

func parseKind(s string) (model.Kind, error) {
	switch s {
	case "expenses", "expense":
		return model.KindExpense, nil
	case "bills", "bill":
		return model.KindBill, nil
	default:
		return "", fmt.Errorf("unknown record type %q (want bills or expenses)", s)
	}
}

func subject(kind model.Kind) string {
	if kind == model.KindBill {
		return "bills"
	}
	return "expenses"
}

// monthOrDefault validates key, or returns def when key is empty.
func monthOrDefault(a *app, key, def string) (string, error) {
	if key == "" {
		return def, nil
	}
	if _, err := aggregate.ParseMonthKey(key, a.loc); err != nil {
		return "", err
	}
	return key, nil
}

func newChartPieCommand(s *settings) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "pie",
		Short: "Per-category breakdown of one month's expenses and paid bills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withApp(cmd, func(a *app) error {
				key, err := monthOrDefault(a, month, aggregate.MonthKey(a.now()))
				if err != nil {
					return err
				}
				recs, err := loadRecords(cmd, a)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for i, kind := range []model.Kind{model.KindExpense, model.KindBill} {
					if i > 0 {
						fmt.Fprintln(out)
					}
					cats := categories.ForKind(kind)
					bd := aggregate.MonthBreakdown(recs, kind, key, cats.Labels())
					title := "Expenses"
					if kind == model.KindBill {
						title = "Paid bills"
					}
					if err := printBreakdown(out, a, cats, title+" in "+aggregate.MonthLabel(key), bd); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to show (YYYY-MM), default this month")

	return cmd
}

func printBreakdown(out io.Writer, a *app, cats *categories.Catalog, title string, bd aggregate.Breakdown) error {
	shown := bd.NonZero()
	if len(shown) == 0 {
		fmt.Fprintf(out, "%s: nothing recorded\n", title)
		return nil
	}

	total := bd.Total()
	peak := decimal.Zero
	for _, c := range shown {
		peak = decimal.Max(peak, c.Amount)
	}

	fmt.Fprintf(out, "%s (total %s):\n", title, a.format.Format(total))
	tw := newTable(out)
	for _, c := range shown {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
			cats.DisplayName(c.Category), a.format.Format(c.Amount), share(c.Amount, total), bar(c.Amount, peak))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}

func newChartCompareCommand(s *settings) *cobra.Command {
	var kindFlag, monthA, monthB string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two months category by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withApp(cmd, func(a *app) error {
				kind, err := parseKind(kindFlag)
				if err != nil {
					return err
				}
				keyB, err := monthOrDefault(a, monthB, aggregate.MonthKey(a.now()))
				if err != nil {
					return err
				}
				prev, err := aggregate.PreviousMonth(keyB)
				if err != nil {
					return err
				}
				keyA, err := monthOrDefault(a, monthA, prev)
				if err != nil {
					return err
				}

				recs, err := loadRecords(cmd, a)
				if err != nil {
					return err
				}

				cats := categories.ForKind(kind)
				pa := compare.Period{Label: aggregate.MonthLabel(keyA), Breakdown: aggregate.MonthBreakdown(recs, kind, keyA, cats.Labels())}
				pb := compare.Period{Label: aggregate.MonthLabel(keyB), Breakdown: aggregate.MonthBreakdown(recs, kind, keyB, cats.Labels())}

				out := cmd.OutOrStdout()
				tw := newTable(out)
				fmt.Fprintf(tw, "CATEGORY\t%s\t%s\tCHANGE\n", pa.Label, pb.Label)
				for _, cat := range compare.Categories(pa, pb) {
					va, vb := pa.Breakdown.Get(cat), pb.Breakdown.Get(cat)
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
						cats.DisplayName(cat), a.format.Format(va), a.format.Format(vb), signed(a, vb.Sub(va)))
				}
				fmt.Fprintf(tw, "TOTAL\t%s\t%s\t%s\n",
					a.format.Format(pa.Breakdown.Total()), a.format.Format(pb.Breakdown.Total()),
					signed(a, pb.Breakdown.Total().Sub(pa.Breakdown.Total())))
				if err := tw.Flush(); err != nil {
					return fmt.Errorf("writing table: %w", err)
				}

				explainer := compare.Explainer{
					Subject:      subject(kind),
					FormatAmount: a.format.Format,
					CategoryName: cats.DisplayName,
				}
				fmt.Fprintln(out)
				if sentence := explainer.Explain(pa, pb); sentence != "" {
					fmt.Fprintln(out, sentence)
				} else {
					fmt.Fprintf(out, "No %s recorded in %s or %s\n", subject(kind), pa.Label, pb.Label)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kindFlag, "type", "expenses", "record type: bills or expenses")
	cmd.Flags().StringVar(&monthA, "a", "", "first month (YYYY-MM), default the month before --b")
	cmd.Flags().StringVar(&monthB, "b", "", "second month (YYYY-MM), default this month")

	return cmd
}

func signed(a *app, d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + a.format.Format(d.Abs())
	}
	return "+" + a.format.Format(d)
}

func newChartTrendCommand(s *settings) *cobra.Command {
	var kindFlag, category string
	var months int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Monthly totals of one category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withApp(cmd, func(a *app) error {
				kind, err := parseKind(kindFlag)
				if err != nil {
					return err
				}
				if months < 1 {
					return fmt.Errorf("--months must be at least 1")
				}
				cats := categories.ForKind(kind)
				cat, ok := cats.Lookup(category)
				if !ok {
					return fmt.Errorf("unknown category %q (want one of %s)", category, joinNames(cats))
				}

				recs, err := loadRecords(cmd, a)
				if err != nil {
					return err
				}

				keys := aggregate.RecentMonths(a.now(), months)
				values := aggregate.Trend(recs, kind, cat.Label, keys)
				peak := decimal.Zero
				for _, v := range values {
					peak = decimal.Max(peak, v)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s), last %d months:\n", cat.Name, subject(kind), months)
				tw := newTable(out)
				for i, k := range keys {
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", aggregate.ShortLabel(k), a.format.Format(values[i]), bar(values[i], peak))
				}
				if err := tw.Flush(); err != nil {
					return fmt.Errorf("writing table: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kindFlag, "type", "expenses", "record type: bills or expenses")
	cmd.Flags().StringVar(&category, "category", "", "category name or label")
	cmd.Flags().IntVar(&months, "months", 6, "number of months to show")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}
