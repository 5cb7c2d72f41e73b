package formatter

import (
	"errors"
	"testing"

	"github.com/pstwh/fasttoggl/internal/domain"
	"github.com/pstwh/fasttoggl/internal/extract"
	"github.com/pstwh/fasttoggl/internal/pipeline"
	"github.com/stretchr/testify/assert"
)

func activity(desc, mention string, startH, endH int, pending bool) *domain.ResolvedActivity {
	return &domain.ResolvedActivity{
		CandidateActivity: domain.CandidateActivity{
			Description:    desc,
			Start:          domain.ClockTime{Hour: startH},
			End:            domain.ClockTime{Hour: endH},
			ProjectMention: mention,
		},
		ProjectID:       10,
		PendingCreation: pending,
	}
}

func TestFormatBatch_ListsActivitiesWithTotal(t *testing.T) {
	batch := &pipeline.Batch{Activities: []*domain.ResolvedActivity{
		activity("worked on API", "API", 9, 11, false),
		activity("code review", "API", 11, 12, false),
	}}

	out := FormatBatch(batch)

	assert.Contains(t, out, "worked on API")
	assert.Contains(t, out, "09:00")
	assert.Contains(t, out, "code review")
	assert.Contains(t, out, "3:00")
}

func TestFormatBatch_MarksPendingProjects(t *testing.T) {
	batch := &pipeline.Batch{Activities: []*domain.ResolvedActivity{
		activity("setup", "Brand New", 9, 10, true),
	}}

	out := FormatBatch(batch)

	assert.Contains(t, out, "new project: Brand New")
}

func TestFormatBatch_MarksInvalidRange(t *testing.T) {
	batch := &pipeline.Batch{Activities: []*domain.ResolvedActivity{
		activity("overnight shift", "API", 22, 2, false),
	}}

	out := FormatBatch(batch)

	assert.Contains(t, out, "end not after start")
	// Invalid ranges never count into the total.
	assert.Contains(t, out, "0:00")
}

func TestFormatBatch_ShowsNotes(t *testing.T) {
	batch := &pipeline.Batch{Notes: []string{"record 2 dropped: missing description"}}

	out := FormatBatch(batch)

	assert.Contains(t, out, "missing description")
	assert.Contains(t, out, "(none)")
}

func TestFormatOutcome_TalliesResults(t *testing.T) {
	outcome := &pipeline.Outcome{
		State: pipeline.StateSaved,
		Results: []domain.SubmissionResult{
			{Payload: domain.EntryPayload{Description: "worked on API"}, EntryID: 77},
			{Payload: domain.EntryPayload{Description: "flaky one"}, Err: errors.New("status 500")},
		},
		Excluded: []domain.Exclusion{
			{Activity: *activity("declined", "New", 9, 10, true), Reason: "project \"New\" was not created"},
		},
	}

	out := FormatOutcome(outcome)

	assert.Contains(t, out, "entry 77")
	assert.Contains(t, out, "status 500")
	assert.Contains(t, out, "1 saved, 1 failed, 1 excluded")
}

func TestFormatDropped(t *testing.T) {
	notes := FormatDropped([]extract.Dropped{{Index: 1, Reason: "missing description"}})
	assert.Equal(t, []string{"record 2 dropped: missing description"}, notes)
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0:00", FormatMinutes(0))
	assert.Equal(t, "1:05", FormatMinutes(65))
	assert.Equal(t, "10:30", FormatMinutes(630))
}
