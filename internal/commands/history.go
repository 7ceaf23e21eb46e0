package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/billbook-dev/billbook/internal/activity"
)

func newHistoryCommand(s *settings) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent changes to bills and expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withApp(cmd, func(a *app) error {
				entries, err := activity.Read(a.dir)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No activity yet")
					return nil
				}

				tw := newTable(out)
				fmt.Fprintln(tw, "TIME\tACTION\tKIND\tID\tDETAILS")
				for _, e := range activity.Tail(entries, limit) {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						e.Timestamp.In(a.loc).Format("2006-01-02 15:04"), e.Action, e.Kind, e.RecordID, e.Details)
				}
				if err := tw.Flush(); err != nil {
					return fmt.Errorf("writing table: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show, 0 for all")

	return cmd
}
