package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/billbook-dev/billbook/internal/activity"
	"github.com/billbook-dev/billbook/internal/categories"
	"github.com/billbook-dev/billbook/internal/model"
	"github.com/billbook-dev/billbook/internal/records"
)

func newBillCommand(s *settings) *cobra.Command {
	billCmd := &cobra.Command{
		Use:   "bill",
		Short: "Add bills and mark them paid",
	}
	billCmd.AddCommand(newBillAddCommand(s))
	billCmd.AddCommand(newBillPaidCommand(s, "pay", "Mark a bill as paid", true))
	billCmd.AddCommand(newBillPaidCommand(s, "unpay", "Mark a bill as unpaid", false))
	return billCmd
}

func newBillAddCommand(s *settings) *cobra.Command {
	var category, title, amount, due string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bill",
		Long: "Add a bill. Categories: " + joinNames(categories.Bills()) +
			". Bills in the Other category need a --title.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withApp(cmd, func(a *app) error {
				dueDate, err := parseDay(due, a.loc)
				if err != nil && due != "" {
					return fmt.Errorf("invalid --due: %w", err)
				}

				bill, err := a.store.AddBill(cmd.Context(), records.BillInput{
					Category: category,
					Title:    title,
					Amount:   amount,
					DueDate:  dueDate,
				})
				if err != nil {
					return err
				}
				a.log.Info("bill added", "id", bill.ID)
				a.note(activity.Entry{
					Action:   activity.ActionAdd,
					Kind:     model.KindBill,
					RecordID: bill.ID,
					Details:  fmt.Sprintf("%s %s due %s", bill.Title, bill.Amount.StringFixed(2), formatDay(bill.DueDate)),
				})
				fmt.Fprintf(cmd.OutOrStdout(), "Added bill %s: %s %s due %s\n",
					bill.ID, bill.Title, a.format.Format(bill.Amount), formatDay(bill.DueDate))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "bill category")
	cmd.Flags().StringVar(&title, "title", "", "bill name, required for the Other category")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 249.90")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")

	return cmd
}

func newBillPaidCommand(s *settings, use, short string, paid bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withApp(cmd, func(a *app) error {
				if err := a.store.SetBillPaid(cmd.Context(), args[0], paid); err != nil {
					return err
				}
				state, action := "unpaid", activity.ActionUnpay
				if paid {
					state, action = "paid", activity.ActionPay
				}
				a.note(activity.Entry{Action: action, Kind: model.KindBill, RecordID: args[0]})
				fmt.Fprintf(cmd.OutOrStdout(), "Marked bill %s as %s\n", args[0], state)
				return nil
			})
		},
	}
}
