package toggl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// MonthRange returns the first and last day of a month as YYYY-MM-DD.
func MonthRange(year int, month time.Month) (startDate, endDate string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

const defaultReportsURL = "https://track.toggl.com/reports/api/v3"

// ReportRequest selects the entries included in a detailed PDF report.
type ReportRequest struct {
	WorkspaceID int64
	ClientIDs   []int64
	StartDate   string // YYYY-MM-DD
	EndDate     string // YYYY-MM-DD
}

// DownloadDetailedReportPDF fetches a detailed time-entry report from the
// Reports API v3 and writes it to outputFile.
func (c *Client) DownloadDetailedReportPDF(ctx context.Context, req ReportRequest, outputFile string) error {
	payload := map[string]any{
		"workspace_id":    req.WorkspaceID,
		"client_ids":      req.ClientIDs,
		"start_date":      req.StartDate,
		"end_date":        req.EndDate,
		"date_format":     "YYYY-MM-DD",
		"time_format":     "HH:mm",
		"duration_format": "improved",
		"order_by":        "date",
		"order_dir":       "desc",
		"grouped":         false,
		"collapse":        false,
		"hide_amounts":    true,
		"display_mode":    "date_and_time",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling report request: %w", err)
	}

	url := fmt.Sprintf("%s/workspace/%d/search/time_entries.pdf", c.reportsURL, req.WorkspaceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", c.authHeader)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/pdf")
	httpReq.Header.Set("x-toggl-client", "fasttoggl")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputFile, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("writing %s: %w", outputFile, err)
	}
	return nil
}
