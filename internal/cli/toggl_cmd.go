package cli

import (
	"fmt"
	"time"

	"github.com/pstwh/fasttoggl/internal/cli/formatter"
	"github.com/pstwh/fasttoggl/internal/domain"
	"github.com/pstwh/fasttoggl/internal/toggl"
	"github.com/spf13/cobra"
)

func newTogglCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggl",
		Short: "Inspect and edit the account directly",
	}

	cmd.AddCommand(
		newTogglOrgsCmd(app),
		newTogglWorkspacesCmd(app),
		newTogglProjectsCmd(app),
		newTogglEntriesCmd(app),
		newTogglCreateProjectCmd(app),
		newTogglCreateEntryCmd(app),
	)

	return cmd
}

func newTogglOrgsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "orgs",
		Short: "List organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.togglClient()
			if err != nil {
				return err
			}
			orgs, err := client.Organizations(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.Stdout, formatter.FormatOrganizations(orgs))
			return nil
		},
	}
}

func newTogglWorkspacesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "workspaces",
		Short: "List workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.togglClient()
			if err != nil {
				return err
			}
			ws, err := client.Workspaces(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.Stdout, formatter.FormatWorkspaces(ws))
			return nil
		},
	}
}

func newTogglProjectsCmd(app *App) *cobra.Command {
	var workspace int64

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, _, err := app.togglClient()
			if err != nil {
				return err
			}

			var projects []domain.Project
			if workspace != 0 {
				projects, err = client.Projects(ctx, workspace)
			} else {
				projects, err = client.AllProjects(ctx)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(app.Stdout, formatter.FormatProjects(projects))
			return nil
		},
	}

	cmd.Flags().Int64Var(&workspace, "workspace", 0, "limit to one workspace id")
	return cmd
}

func newTogglEntriesCmd(app *App) *cobra.Command {
	var limit int
	var startDate, endDate string

	cmd := &cobra.Command{
		Use:   "time-entries",
		Short: "List recent time entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, _, err := app.togglClient()
			if err != nil {
				return err
			}

			var entries []domain.TimeEntry
			if startDate != "" || endDate != "" {
				entries, err = client.TimeEntries(ctx, toggl.TimeEntryFilter{
					StartDate: startDate,
					EndDate:   endDate,
				})
			} else {
				entries, err = client.LatestTimeEntries(ctx, limit)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(app.Stdout, formatter.FormatTimeEntries(entries))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of entries to show")
	cmd.Flags().StringVar(&startDate, "start-date", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "range end (YYYY-MM-DD)")
	return cmd
}

func newTogglCreateProjectCmd(app *App) *cobra.Command {
	var workspace int64

	cmd := &cobra.Command{
		Use:   "create-project <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
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

			project, err := client.CreateProject(ctx, workspace, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Stdout, "%s created project %q (id %d)\n",
				formatter.StyleGreen.Render("✓"), project.Name, project.ID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&workspace, "workspace", 0, "workspace id (default from config or first)")
	return cmd
}

func newTogglCreateEntryCmd(app *App) *cobra.Command {
	var (
		workspace int64
		project   int64
		dateStr   string
		startStr  string
		stopStr   string
	)

	cmd := &cobra.Command{
		Use:   "create-time-entry <description>",
		Short: "Create one time entry by hand",
		Args:  cobra.ExactArgs(1),
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

			payload, err := manualPayload(project, workspace, args[0], dateStr, startStr, stopStr)
			if err != nil {
				return err
			}

			id, err := client.CreateTimeEntry(ctx, payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Stdout, "%s entry %d saved\n", formatter.StyleGreen.Render("✓"), id)
			return nil
		},
	}

	cmd.Flags().Int64Var(&workspace, "workspace", 0, "workspace id (default from config or first)")
	cmd.Flags().Int64Var(&project, "project", 0, "project id")
	cmd.Flags().StringVar(&dateStr, "date", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&startStr, "start", "", "start clock time (HH:MM)")
	cmd.Flags().StringVar(&stopStr, "stop", "", "stop clock time (HH:MM)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("stop")
	return cmd
}

// manualPayload builds a payload from flag values, with the same zone-aware
// composition rules the review pipeline uses.
func manualPayload(projectID, workspaceID int64, description, dateStr, startStr, stopStr string) (domain.EntryPayload, error) {
	loc := time.Local
	date := time.Now().In(loc)
	if dateStr != "" {
		var err error
		if date, err = time.ParseInLocation("2006-01-02", dateStr, loc); err != nil {
			return domain.EntryPayload{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
		}
	}

	start, err := domain.ParseClock(startStr)
	if err != nil {
		return domain.EntryPayload{}, err
	}
	stop, err := domain.ParseClock(stopStr)
	if err != nil {
		return domain.EntryPayload{}, err
	}
	if !start.Before(stop) {
		return domain.EntryPayload{}, fmt.Errorf("stop %s is not after start %s", stop, start)
	}

	return domain.EntryPayload{
		ProjectID:   projectID,
		WorkspaceID: workspaceID,
		Description: description,
		Start:       start.On(date, loc),
		Stop:        stop.On(date, loc),
	}, nil
}
