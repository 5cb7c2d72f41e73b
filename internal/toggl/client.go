package toggl

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/pstwh/fasttoggl/internal/domain"
)

const defaultBaseURL = "https://track.toggl.com/api/v9"

var (
	// ErrAuthFailed indicates the API token was rejected.
	ErrAuthFailed = errors.New("toggl authentication failed")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("toggl resource not found")
)

// APIError carries the status and body of a non-2xx Toggl response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("toggl api returned status %d: %s", e.Status, e.Body)
}

// Client talks to the Toggl Track v9 API using basic auth with an API token.
// Safe to reuse across calls within one session; not safe for concurrent
// sessions sharing credentials state.
type Client struct {
	baseURL    string
	reportsURL string
	authHeader string
	http       *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithReportsURL overrides the Reports API base URL. Used by tests.
func WithReportsURL(u string) Option {
	return func(c *Client) { c.reportsURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient builds a Client for the given account. No network call happens
// here; use Authenticate to verify the credentials.
func NewClient(email, apiToken string, opts ...Option) *Client {
	token := base64.StdEncoding.EncodeToString([]byte(email + ":" + apiToken))
	c := &Client{
		baseURL:    defaultBaseURL,
		reportsURL: defaultReportsURL,
		authHeader: "Basic " + token,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate verifies the credentials against /me.
func (c *Client) Authenticate(ctx context.Context) error {
	return c.get(ctx, "/me", nil, nil)
}

// Organizations lists the organizations visible to the account.
func (c *Client) Organizations(ctx context.Context) ([]domain.Organization, error) {
	var orgs []domain.Organization
	if err := c.get(ctx, "/me/organizations", nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// Workspaces lists the account's workspaces.
func (c *Client) Workspaces(ctx context.Context) ([]domain.Workspace, error) {
	var ws []domain.Workspace
	if err := c.get(ctx, "/me/workspaces", nil, &ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// Projects lists the projects of one workspace.
func (c *Client) Projects(ctx context.Context, workspaceID int64) ([]domain.Project, error) {
	var projects []domain.Project
	path := fmt.Sprintf("/workspaces/%d/projects", workspaceID)
	if err := c.get(ctx, path, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// AllProjects lists projects across all the account's workspaces.
func (c *Client) AllProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.get(ctx, "/me/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject creates a private project in the workspace and returns the
// remote record.
func (c *Client) CreateProject(ctx context.Context, workspaceID int64, name string) (*domain.Project, error) {
	body := map[string]any{
		"active":     true,
		"color":      "#c9806b",
		"is_private": true,
		"name":       name,
		"wid":        workspaceID,
		"start_date": time.Now().Format("2006-01-02"),
	}

	var project domain.Project
	path := fmt.Sprintf("/workspaces/%d/projects", workspaceID)
	if err := c.post(ctx, path, body, &project); err != nil {
		return nil, fmt.Errorf("creating project %q: %w", name, err)
	}
	return &project, nil
}

// TimeEntryFilter narrows a TimeEntries listing. Zero values mean "unset".
type TimeEntryFilter struct {
	Since     int64  // unix seconds
	Before    string // RFC3339 or YYYY-MM-DD
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// TimeEntries lists the account's time entries, optionally filtered.
func (c *Client) TimeEntries(ctx context.Context, filter TimeEntryFilter) ([]domain.TimeEntry, error) {
	params := url.Values{}
	if filter.Since != 0 {
		params.Set("since", strconv.FormatInt(filter.Since, 10))
	}
	if filter.Before != "" {
		params.Set("before", filter.Before)
	}
	if filter.StartDate != "" {
		params.Set("start_date", filter.StartDate)
	}
	if filter.EndDate != "" {
		params.Set("end_date", filter.EndDate)
	}

	var entries []domain.TimeEntry
	if err := c.get(ctx, "/me/time_entries", params, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// LatestTimeEntries returns the most recent entries, newest first.
func (c *Client) LatestTimeEntries(ctx context.Context, limit int) ([]domain.TimeEntry, error) {
	entries, err := c.TimeEntries(ctx, TimeEntryFilter{})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		switch {
		case entries[i].Start == nil:
			return false
		case entries[j].Start == nil:
			return true
		default:
			return entries[i].Start.After(*entries[j].Start)
		}
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// CreateTimeEntry submits one composed payload and returns the remote id.
func (c *Client) CreateTimeEntry(ctx context.Context, p domain.EntryPayload) (int64, error) {
	const stampFormat = "2006-01-02T15:04:05.000000Z"

	body := map[string]any{
		"created_with": "fasttoggl",
		"pid":          p.ProjectID,
		"wid":          p.WorkspaceID,
		"description":  p.Description,
		"tags":         []string{},
		"billable":     false,
		"duration":     int64(p.Duration().Seconds()),
		"start":        p.Start.UTC().Format(stampFormat),
		"stop":         p.Stop.UTC().Format(stampFormat),
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := c.post(ctx, "/time_entries", body, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// WorkspaceClients returns an id→name map of the workspace's billing clients.
func (c *Client) WorkspaceClients(ctx context.Context, workspaceID int64) (map[int64]string, error) {
	var clients []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	path := fmt.Sprintf("/workspaces/%d/clients", workspaceID)
	if err := c.get(ctx, path, nil, &clients); err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(clients))
	for _, cl := range clients {
		name := cl.Name
		if name == "" {
			name = strconv.FormatInt(cl.ID, 10)
		}
		names[cl.ID] = name
	}
	return names, nil
}

// ClientsWithUserHours returns the ids of billing clients whose projects have
// logged entries in the date range, sorted ascending.
func (c *Client) ClientsWithUserHours(ctx context.Context, workspaceID int64, startDate, endDate string) ([]int64, error) {
	entries, err := c.TimeEntries(ctx, TimeEntryFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, err
	}
	projects, err := c.Projects(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	projectClient := make(map[int64]int64, len(projects))
	for _, p := range projects {
		if p.ClientID != nil {
			projectClient[p.ID] = *p.ClientID
		}
	}

	seen := make(map[int64]bool)
	for _, e := range entries {
		if e.WorkspaceID != nil && *e.WorkspaceID != workspaceID {
			continue
		}
		if e.ProjectID == nil {
			continue
		}
		if cid, ok := projectClient[*e.ProjectID]; ok {
			seen[cid] = true
		}
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, req.URL.Path)
	default:
		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
