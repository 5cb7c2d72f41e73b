package formatter

import (
	"strconv"
	"time"

	"github.com/pstwh/fasttoggl/internal/domain"
	"github.com/pstwh/fasttoggl/internal/repository"
)

// FormatOrganizations renders the organizations table.
func FormatOrganizations(orgs []domain.Organization) string {
	rows := make([][]string, 0, len(orgs))
	for _, o := range orgs {
		rows = append(rows, []string{strconv.FormatInt(o.ID, 10), o.Name})
	}
	return RenderTable([]string{"ID", "Name"}, rows)
}

// FormatWorkspaces renders the workspaces table.
func FormatWorkspaces(ws []domain.Workspace) string {
	rows := make([][]string, 0, len(ws))
	for _, w := range ws {
		rows = append(rows, []string{
			strconv.FormatInt(w.ID, 10),
			w.Name,
			strconv.FormatInt(w.OrganizationID, 10),
		})
	}
	return RenderTable([]string{"ID", "Name", "Org"}, rows)
}

// FormatProjects renders the projects table. Archived projects are dimmed.
func FormatProjects(projects []domain.Project) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		name := p.Name
		if !p.Active {
			name = Dim(name)
		}
		client := ""
		if p.ClientName != nil {
			client = *p.ClientName
		}
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			name,
			client,
			strconv.FormatInt(p.WorkspaceID, 10),
		})
	}
	return RenderTable([]string{"ID", "Name", "Client", "Workspace"}, rows)
}

// FormatTimeEntries renders a time entries table, local times.
func FormatTimeEntries(entries []domain.TimeEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		start, stop := "", ""
		if e.Start != nil {
			start = e.Start.Local().Format("2006-01-02 15:04")
		}
		if e.Stop != nil {
			stop = e.Stop.Local().Format("15:04")
		}
		dur := ""
		if e.Duration > 0 {
			dur = FormatMinutes(int(e.Duration / 60))
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			start,
			stop,
			dur,
			e.Description,
		})
	}
	return RenderTable([]string{"ID", "Start", "Stop", "Dur", "Description"}, rows)
}

// FormatJournal renders the local submission journal, newest first.
func FormatJournal(records []repository.SubmissionRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.SubmittedAt.Local().Format("2006-01-02 15:04"),
			r.Start.Local().Format("15:04"),
			r.Stop.Local().Format("15:04"),
			FormatMinutes(int(r.Stop.Sub(r.Start) / time.Minute)),
			r.Description,
			strconv.FormatInt(r.EntryID, 10),
		})
	}
	return RenderTable([]string{"Submitted", "Start", "Stop", "Dur", "Description", "Entry"}, rows)
}
