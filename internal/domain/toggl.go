package domain

import "time"

// Organization mirrors the remote service's organization resource.
type Organization struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Workspace mirrors the remote workspace resource.
type Workspace struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organization_id"`
	Name           string `json:"name"`
}

// Project mirrors the remote project resource. Client fields are optional
// on the wire.
type Project struct {
	ID          int64   `json:"id"`
	WorkspaceID int64   `json:"workspace_id"`
	Name        string  `json:"name"`
	Active      bool    `json:"active"`
	Color       string  `json:"color,omitempty"`
	ClientID    *int64  `json:"client_id,omitempty"`
	ClientName  *string `json:"client_name,omitempty"`
}

// TimeEntry mirrors the remote time entry resource. The legacy "pid"/"wid"
// names are what the v9 API actually returns on some endpoints.
type TimeEntry struct {
	ID          int64      `json:"id"`
	ProjectID   *int64     `json:"pid,omitempty"`
	WorkspaceID *int64     `json:"wid,omitempty"`
	Description string     `json:"description"`
	Start       *time.Time `json:"start,omitempty"`
	Stop        *time.Time `json:"stop,omitempty"`
	Duration    int64      `json:"duration"`
}
