package pipeline

import (
	"context"

	"github.com/pstwh/fasttoggl/internal/domain"
)

// Submit sends each payload independently and returns one result per
// payload, in order. A failed submission never prevents the remaining
// attempts: the remote service offers no transaction, so the writer does
// not fake one.
func Submit(ctx context.Context, submitter EntrySubmitter, payloads []domain.EntryPayload) []domain.SubmissionResult {
	results := make([]domain.SubmissionResult, 0, len(payloads))
	for _, p := range payloads {
		id, err := submitter.CreateTimeEntry(ctx, p)
		results = append(results, domain.SubmissionResult{Payload: p, EntryID: id, Err: err})
	}
	return results
}

// Tally returns the aggregate success/failure counts of a submission.
func Tally(results []domain.SubmissionResult) (succeeded, failed int) {
	for _, r := range results {
		if r.OK() {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
