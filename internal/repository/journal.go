// Package repository persists the local submission journal: one row per
// time entry accepted by the remote service, so past runs remain auditable
// offline.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pstwh/fasttoggl/internal/domain"
)

// SubmissionRecord is one journaled submission.
type SubmissionRecord struct {
	ID          string
	EntryID     int64
	ProjectID   int64
	WorkspaceID int64
	Description string
	Start       time.Time
	Stop        time.Time
	SubmittedAt time.Time
}

// JournalFilter narrows a List call. Zero values mean "unset".
type JournalFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

// JournalRepo stores and lists submission records.
type JournalRepo interface {
	Record(ctx context.Context, results []domain.SubmissionResult) error
	List(ctx context.Context, filter JournalFilter) ([]SubmissionRecord, error)
}

type sqliteJournalRepo struct {
	db *sql.DB
}

// NewSQLiteJournalRepo creates a JournalRepo backed by the given database.
func NewSQLiteJournalRepo(db *sql.DB) JournalRepo {
	return &sqliteJournalRepo{db: db}
}

// Record journals the successful submissions of a batch. Failed results are
// skipped; they never reached the remote service as entries.
func (r *sqliteJournalRepo) Record(ctx context.Context, results []domain.SubmissionResult) error {
	now := time.Now().UTC().Format(time.RFC3339)

	builder := sq.Insert("submissions").
		Columns("id", "entry_id", "project_id", "workspace_id", "description", "start", "stop", "submitted_at")

	rows := 0
	for _, res := range results {
		if !res.OK() {
			continue
		}
		builder = builder.Values(
			uuid.New().String(),
			res.EntryID,
			res.Payload.ProjectID,
			res.Payload.WorkspaceID,
			res.Payload.Description,
			res.Payload.Start.UTC().Format(time.RFC3339),
			res.Payload.Stop.UTC().Format(time.RFC3339),
			now,
		)
		rows++
	}
	if rows == 0 {
		return nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("journaling submissions: %w", err)
	}
	return nil
}

// List returns journaled submissions newest first, filtered by submission
// time range and limited when requested.
func (r *sqliteJournalRepo) List(ctx context.Context, filter JournalFilter) ([]SubmissionRecord, error) {
	builder := sq.Select("id", "entry_id", "project_id", "workspace_id", "description", "start", "stop", "submitted_at").
		From("submissions").
		OrderBy("submitted_at DESC")

	if !filter.From.IsZero() {
		builder = builder.Where(sq.GtOrEq{"submitted_at": filter.From.UTC().Format(time.RFC3339)})
	}
	if !filter.To.IsZero() {
		builder = builder.Where(sq.LtOrEq{"submitted_at": filter.To.UTC().Format(time.RFC3339)})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var records []SubmissionRecord
	for rows.Next() {
		var rec SubmissionRecord
		var start, stop, submittedAt string
		if err := rows.Scan(&rec.ID, &rec.EntryID, &rec.ProjectID, &rec.WorkspaceID,
			&rec.Description, &start, &stop, &submittedAt); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		rec.Start = parseStamp(start)
		rec.Stop = parseStamp(stop)
		rec.SubmittedAt = parseStamp(submittedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func parseStamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
