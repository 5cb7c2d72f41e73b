package domain

import "time"

// CandidateActivity is one activity as the extractor understood it: a
// description, a local time range, and the project name as spoken. Nothing
// here has touched the remote service yet.
type CandidateActivity struct {
	Description    string
	Start          ClockTime
	End            ClockTime
	ProjectMention string
}

// ResolvedActivity is a candidate after project matching. Exactly one of
// ProjectID and PendingCreation is meaningful: a matched activity carries
// the id, an unmatched one is flagged pending until the operator decides.
type ResolvedActivity struct {
	CandidateActivity
	ProjectID       int64
	PendingCreation bool
}

// Resolved reports whether the activity carries a usable project id.
func (a *ResolvedActivity) Resolved() bool {
	return !a.PendingCreation && a.ProjectID != 0
}

// EntryPayload is a fully composed time entry, ready for submission: the
// clock times have been anchored to a date and zone.
type EntryPayload struct {
	ProjectID   int64
	WorkspaceID int64
	Description string
	Start       time.Time
	Stop        time.Time
}

// Duration returns the entry's length.
func (p EntryPayload) Duration() time.Duration {
	return p.Stop.Sub(p.Start)
}

// Exclusion is an activity dropped before submission, with the reason shown
// to the operator.
type Exclusion struct {
	Activity ResolvedActivity
	Reason   string
}

// SubmissionResult is the outcome of submitting one payload.
type SubmissionResult struct {
	Payload EntryPayload
	EntryID int64
	Err     error
}

// OK reports whether the submission succeeded.
func (r SubmissionResult) OK() bool {
	return r.Err == nil
}
