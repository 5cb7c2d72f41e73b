package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pstwh/fasttoggl/internal/domain"
)

// State is the review loop's position. The batch is only ever submitted from
// StateSaved; StateAborted guarantees zero remote side effects.
type State int

const (
	StateDraft State = iota
	StateSaved
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateDraft:
		return "DRAFT"
	case StateSaved:
		return "SAVED"
	case StateAborted:
		return "ABORTED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Command is a single-key operator decision.
type Command int

const (
	CommandRetry Command = iota // re-record, fresh batch
	CommandSave
	CommandQuit
)

// Transition is the pure state transition function. Terminal states absorb
// every command; only DRAFT moves.
func Transition(s State, c Command) State {
	if s != StateDraft {
		return s
	}
	switch c {
	case CommandSave:
		return StateSaved
	case CommandQuit:
		return StateAborted
	default: // CommandRetry re-enters DRAFT with a fresh batch
		return StateDraft
	}
}

// Outcome is the final result of one review session.
type Outcome struct {
	State    State
	Results  []domain.SubmissionResult
	Excluded []domain.Exclusion
}

// Loop drives the interactive review session over one batch. It owns the
// batch exclusively for its lifetime and performs no remote call until the
// SAVE transition fires with zero unresolved pending creations.
type Loop struct {
	operator    Operator
	recorder    Recorder
	provisioner *Provisioner
	submitter   EntrySubmitter
	workspaceID int64
	date        time.Time
	loc         *time.Location
}

// NewLoop wires a review loop for one session.
func NewLoop(operator Operator, recorder Recorder, provisioner *Provisioner, submitter EntrySubmitter, workspaceID int64, date time.Time, loc *time.Location) *Loop {
	return &Loop{
		operator:    operator,
		recorder:    recorder,
		provisioner: provisioner,
		submitter:   submitter,
		workspaceID: workspaceID,
		date:        date,
		loc:         loc,
	}
}

// Run enters DRAFT with the given batch and loops until a terminal state.
// A failed retry attempt keeps the previous batch and stays in DRAFT. A
// remote provisioning failure aborts the save with the error surfaced.
func (l *Loop) Run(ctx context.Context, batch *Batch) (*Outcome, error) {
	state := StateDraft

	for state == StateDraft {
		l.operator.ShowBatch(batch)

		cmd, err := l.operator.Command()
		if err != nil {
			return nil, fmt.Errorf("reading command: %w", err)
		}

		switch next := Transition(state, cmd); next {
		case StateDraft:
			fresh, err := l.recorder(ctx)
			if err != nil {
				// Fatal to the attempt only: keep the current batch.
				l.operator.Notify(fmt.Sprintf("attempt failed: %v", err))
				continue
			}
			batch = fresh

		case StateAborted:
			return &Outcome{State: StateAborted}, nil

		case StateSaved:
			outcome, err := l.save(ctx, batch)
			if err != nil {
				return nil, err
			}
			return outcome, nil
		}
	}

	return nil, fmt.Errorf("review loop left DRAFT without a terminal state")
}

// save drives the provisioning sub-flow per distinct pending mention, then
// composes and submits. Declined mentions become exclusions; their
// activities are excluded from submission, never dropped from display.
func (l *Loop) save(ctx context.Context, batch *Batch) (*Outcome, error) {
	for _, mention := range batch.PendingMentions() {
		confirmed, err := l.operator.ConfirmCreate(mention)
		if err != nil {
			return nil, fmt.Errorf("reading confirmation: %w", err)
		}

		project, err := l.provisioner.Provision(ctx, mention, l.workspaceID, confirmed)
		switch {
		case errors.Is(err, ErrProvisionDeclined):
			l.operator.Notify(fmt.Sprintf("skipping activities for %q (creation declined)", mention))
			continue
		case err != nil:
			return nil, fmt.Errorf("creating project %q: %w", mention, err)
		}

		batch.ApplyProject(mention, project.ID)
	}

	payloads, excluded := Compose(batch.Activities, l.workspaceID, l.date, l.loc)
	results := Submit(ctx, l.submitter, payloads)

	return &Outcome{State: StateSaved, Results: results, Excluded: excluded}, nil
}
