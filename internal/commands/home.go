package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/billbook-dev/billbook/internal/aggregate"
	"github.com/billbook-dev/billbook/internal/model"
	"github.com/billbook-dev/billbook/internal/money"
)

func newHomeCommand(s *settings) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "home",
		Short: "Show bills due soon and this month's spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withApp(cmd, func(a *app) error {
				if !cmd.Flags().Changed("days") {
					days = a.cfg.Reminders.UpcomingDays
				}

				bills, err := a.store.LoadBills(cmd.Context())
				if err != nil {
					return err
				}
				expenses, err := a.store.LoadExpenses(cmd.Context())
				if err != nil {
					return err
				}

				now := a.now()
				out := cmd.OutOrStdout()

				upcoming := aggregate.Upcoming(bills, now, days)
				if len(upcoming) == 0 {
					fmt.Fprintf(out, "No bills due in the next %d days\n", days)
				} else {
					fmt.Fprintf(out, "Bills due in the next %d days:\n", days)
					tw := newTable(out)
					for _, u := range upcoming {
						r := u.Bill.Record()
						fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
							r.ID, displayTitle(r), a.format.Format(r.Amount), formatDay(r.Date), dueIn(u.DaysLeft))
					}
					if err := tw.Flush(); err != nil {
						return fmt.Errorf("writing table: %w", err)
					}
				}

				sum := aggregate.Summarize(model.Records(bills, expenses), now)
				fmt.Fprintln(out)
				fmt.Fprintf(out, "This month (%s): %s\n", aggregate.MonthLabel(sum.Month), a.format.Format(sum.Total))
				fmt.Fprintf(out, "Last month (%s): %s\n", aggregate.MonthLabel(sum.PreviousMonth), a.format.Format(sum.PreviousTotal))
				fmt.Fprintf(out, "Change: %s\n", money.Percent(sum.Change))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", aggregate.DefaultUpcomingDays, "how many days ahead to look for due bills")

	return cmd
}

func dueIn(days int) string {
	switch days {
	case 0:
		return "due today"
	case 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %d days", days)
	}
}
