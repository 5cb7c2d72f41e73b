package pipeline

import (
	"fmt"
	"time"

	"github.com/pstwh/fasttoggl/internal/domain"
)

// Compose anchors each resolved activity's local time-of-day range to the
// target date in loc, producing zone-aware payloads. The zone conversion
// happens inside time.Date, never as naive arithmetic with an offset bolted
// on afterwards, so DST transitions resolve correctly.
//
// Activities still pending creation, and activities whose end is not after
// their start (a spoken range implying a midnight crossing), are excluded
// with a reported reason. Multi-day spans are never inferred from voice
// input. Pure function, no side effects.
func Compose(resolved []*domain.ResolvedActivity, workspaceID int64, date time.Time, loc *time.Location) ([]domain.EntryPayload, []domain.Exclusion) {
	var payloads []domain.EntryPayload
	var excluded []domain.Exclusion

	for _, a := range resolved {
		switch {
		case a.PendingCreation:
			excluded = append(excluded, domain.Exclusion{
				Activity: *a,
				Reason:   fmt.Sprintf("project %q was not created", a.ProjectMention),
			})
			continue
		case !a.Resolved():
			excluded = append(excluded, domain.Exclusion{
				Activity: *a,
				Reason:   "no project id",
			})
			continue
		case !a.Start.Before(a.End):
			excluded = append(excluded, domain.Exclusion{
				Activity: *a,
				Reason:   fmt.Sprintf("end %s is not after start %s", a.End, a.Start),
			})
			continue
		}

		payloads = append(payloads, domain.EntryPayload{
			ProjectID:   a.ProjectID,
			WorkspaceID: workspaceID,
			Description: a.Description,
			Start:       a.Start.On(date, loc),
			Stop:        a.End.On(date, loc),
		})
	}

	return payloads, excluded
}
