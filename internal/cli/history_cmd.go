package cli

import (
	"fmt"
	"time"

	"github.com/pstwh/fasttoggl/internal/cli/formatter"
	"github.com/pstwh/fasttoggl/internal/repository"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show entries saved by this tool, from the local journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := repository.JournalFilter{Limit: limit}

			if fromStr != "" {
				from, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --from %q: %w", fromStr, err)
				}
				filter.From = from
			}
			if toStr != "" {
				to, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --to %q: %w", toStr, err)
				}
				// Inclusive end date.
				filter.To = to.AddDate(0, 0, 1)
			}

			journal, closeJournal, err := app.OpenJournal()
			if err != nil {
				return err
			}
			defer closeJournal()

			records, err := journal.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(app.Stdout, formatter.Dim("no journaled submissions"))
				return nil
			}

			fmt.Fprint(app.Stdout, formatter.FormatJournal(records))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum records to show (0 = all)")
	cmd.Flags().StringVar(&fromStr, "from", "", "only submissions on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "only submissions up to this date (YYYY-MM-DD)")
	return cmd
}
