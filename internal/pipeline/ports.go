package pipeline

import (
	"context"

	"github.com/pstwh/fasttoggl/internal/domain"
)

// ProjectCreator is the remote capability used when a pending creation is
// confirmed. *toggl.Client satisfies it.
type ProjectCreator interface {
	CreateProject(ctx context.Context, workspaceID int64, name string) (*domain.Project, error)
}

// EntrySubmitter accepts one composed payload and returns the created remote
// entry id. *toggl.Client satisfies it.
type EntrySubmitter interface {
	CreateTimeEntry(ctx context.Context, p domain.EntryPayload) (int64, error)
}

// Operator is the human-in-the-loop surface of the review loop. The CLI
// provides a terminal implementation; tests script it.
type Operator interface {
	// ShowBatch displays the current batch, including pending and invalid
	// activities with reasons, before a command is accepted.
	ShowBatch(batch *Batch)

	// Command blocks until the operator picks retry, save or quit.
	Command() (Command, error)

	// ConfirmCreate asks whether the named project should be created.
	ConfirmCreate(name string) (bool, error)

	// Notify reports a non-fatal condition (exclusion, failed attempt).
	Notify(message string)
}

// Recorder produces a fresh batch for the RETRY transition, re-running
// capture and extraction from scratch. The previous batch is discarded.
type Recorder func(ctx context.Context) (*Batch, error)
