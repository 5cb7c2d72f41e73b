package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/pstwh/fasttoggl/internal/cli/formatter"
	"github.com/pstwh/fasttoggl/internal/toggl"
	"github.com/spf13/cobra"
)

// parseMonth parses "YYYY-MM", defaulting to the current month.
func parseMonth(s string) (int, time.Month, error) {
	if s == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

func newReportCmd(app *App) *cobra.Command {
	var workspace int64
	var month, output string

	cmd := &cobra.Command{
		Use:   "report-pdf",
		Short: "Download the month's detailed report as PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, _, err := app.togglClient()
			if err != nil {
				return err
			}
			if workspace == 0 {
				if workspace, err = app.workspaceID(ctx, client); err != nil {
					return err
				}
			}

			year, m, err := parseMonth(month)
			if err != nil {
				return err
			}
			startDate, endDate := toggl.MonthRange(year, m)

			if output == "" {
				output = fmt.Sprintf("report-%04d-%02d.pdf", year, m)
			}

			stop := formatter.StartSpinner("downloading report")
			err = client.DownloadDetailedReportPDF(ctx, toggl.ReportRequest{
				WorkspaceID: workspace,
				StartDate:   startDate,
				EndDate:     endDate,
			}, output)
			stop()
			if err != nil {
				return err
			}

			fmt.Fprintf(app.Stdout, "%s %s\n", formatter.StyleGreen.Render("✓"), output)
			return nil
		},
	}

	cmd.Flags().Int64Var(&workspace, "workspace", 0, "workspace id (default from config or first)")
	cmd.Flags().StringVar(&month, "month", "", "month to report (YYYY-MM, default current)")
	cmd.Flags().StringVar(&output, "output", "", "output file")
	return cmd
}

func newFastReportCmd(app *App) *cobra.Command {
	var workspace int64
	var month string

	cmd := &cobra.Command{
		Use:   "fast-report-pdf",
		Short: "Download one PDF per billing client with hours this month",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, _, err := app.togglClient()
			if err != nil {
				return err
			}
			if workspace == 0 {
				if workspace, err = app.workspaceID(ctx, client); err != nil {
					return err
				}
			}

			year, m, err := parseMonth(month)
			if err != nil {
				return err
			}
			startDate, endDate := toggl.MonthRange(year, m)

			stop := formatter.StartSpinner("finding clients with logged hours")
			clientIDs, err := client.ClientsWithUserHours(ctx, workspace, startDate, endDate)
			stop()
			if err != nil {
				return err
			}
			if len(clientIDs) == 0 {
				fmt.Fprintln(app.Stdout, formatter.Dim("no client hours in this month"))
				return nil
			}

			names, err := client.WorkspaceClients(ctx, workspace)
			if err != nil {
				return err
			}

			for _, id := range clientIDs {
				name := names[id]
				if name == "" {
					name = fmt.Sprintf("client-%d", id)
				}
				output := fmt.Sprintf("report-%04d-%02d-%s.pdf", year, m, safeFileName(name))

				stop := formatter.StartSpinner("downloading " + name)
				err := client.DownloadDetailedReportPDF(ctx, toggl.ReportRequest{
					WorkspaceID: workspace,
					ClientIDs:   []int64{id},
					StartDate:   startDate,
					EndDate:     endDate,
				}, output)
				stop()
				if err != nil {
					return fmt.Errorf("report for %s: %w", name, err)
				}
				fmt.Fprintf(app.Stdout, "%s %s\n", formatter.StyleGreen.Render("✓"), output)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&workspace, "workspace", 0, "workspace id (default from config or first)")
	cmd.Flags().StringVar(&month, "month", "", "month to report (YYYY-MM, default current)")
	return cmd
}

// safeFileName lowercases a client name and keeps only filename-safe runes.
func safeFileName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "client"
	}
	return out
}
