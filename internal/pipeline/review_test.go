package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pstwh/fasttoggl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedOperator replays a fixed sequence of commands and confirmation
// answers, recording everything shown to it.
type scriptedOperator struct {
	commands      []Command
	confirms      map[string]bool
	shownBatches  int
	confirmsAsked []string
	notices       []string
}

func (o *scriptedOperator) ShowBatch(*Batch) { o.shownBatches++ }

func (o *scriptedOperator) Command() (Command, error) {
	if len(o.commands) == 0 {
		return CommandQuit, errors.New("no scripted commands left")
	}
	cmd := o.commands[0]
	o.commands = o.commands[1:]
	return cmd, nil
}

func (o *scriptedOperator) ConfirmCreate(name string) (bool, error) {
	o.confirmsAsked = append(o.confirmsAsked, name)
	return o.confirms[name], nil
}

func (o *scriptedOperator) Notify(msg string) { o.notices = append(o.notices, msg) }

// fakeRemote counts remote calls and plays back scripted failures.
type fakeRemote struct {
	nextProjectID int64
	nextEntryID   int64
	failEntryAt   map[int]error // 1-based submission index -> error
	failCreate    error

	createCalls []string
	entryCalls  int
}

func (f *fakeRemote) CreateProject(_ context.Context, workspaceID int64, name string) (*domain.Project, error) {
	f.createCalls = append(f.createCalls, name)
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	f.nextProjectID++
	return &domain.Project{ID: f.nextProjectID, WorkspaceID: workspaceID, Name: name}, nil
}

func (f *fakeRemote) CreateTimeEntry(context.Context, domain.EntryPayload) (int64, error) {
	f.entryCalls++
	if err, ok := f.failEntryAt[f.entryCalls]; ok {
		return 0, err
	}
	f.nextEntryID++
	return f.nextEntryID, nil
}

func (f *fakeRemote) totalCalls() int { return len(f.createCalls) + f.entryCalls }

func newTestLoop(op Operator, rec Recorder, remote *fakeRemote) *Loop {
	return NewLoop(op, rec, NewProvisioner(remote), remote, 42,
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.UTC)
}

func noRetry(context.Context) (*Batch, error) {
	return nil, errors.New("recorder should not be called")
}

func TestTransition(t *testing.T) {
	assert.Equal(t, StateDraft, Transition(StateDraft, CommandRetry))
	assert.Equal(t, StateSaved, Transition(StateDraft, CommandSave))
	assert.Equal(t, StateAborted, Transition(StateDraft, CommandQuit))

	// Terminal states absorb every command.
	for _, cmd := range []Command{CommandRetry, CommandSave, CommandQuit} {
		assert.Equal(t, StateSaved, Transition(StateSaved, cmd))
		assert.Equal(t, StateAborted, Transition(StateAborted, cmd))
	}
}

func TestLoop_AbortWithPendingCreations_ZeroRemoteCalls(t *testing.T) {
	remote := &fakeRemote{}
	op := &scriptedOperator{commands: []Command{CommandQuit}}

	batch := &Batch{Activities: Resolve([]domain.CandidateActivity{
		candidate("a", "Frontend", 9, 10),
		candidate("b", "Infra", 10, 11),
	}, nil)}

	outcome, err := newTestLoop(op, noRetry, remote).Run(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, StateAborted, outcome.State)
	assert.Zero(t, remote.totalCalls(), "abort must cause no remote side effects")
	assert.Equal(t, 1, op.shownBatches, "batch is displayed before the command is read")
}

func TestLoop_SaveResolvedBatch(t *testing.T) {
	remote := &fakeRemote{}
	op := &scriptedOperator{commands: []Command{CommandSave}}

	batch := &Batch{Activities: Resolve([]domain.CandidateActivity{
		candidate("worked on the API", "API", 9, 11),
	}, []domain.Project{{ID: 10, Name: "API"}})}

	outcome, err := newTestLoop(op, noRetry, remote).Run(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, StateSaved, outcome.State)
	require.Len(t, outcome.Results, 1)
	assert.True(t, outcome.Results[0].OK())
	assert.Empty(t, op.confirmsAsked, "no pending creations, no confirmations")
}

func TestLoop_Save_DedupedConfirmation_SharedProjectID(t *testing.T) {
	remote := &fakeRemote{}
	op := &scriptedOperator{
		commands: []Command{CommandSave},
		confirms: map[string]bool{"Frontend": true},
	}

	batch := &Batch{Activities: Resolve([]domain.CandidateActivity{
		candidate("a", "Frontend", 9, 10),
		candidate("b", "frontend", 10, 11),
	}, nil)}

	outcome, err := newTestLoop(op, noRetry, remote).Run(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, []string{"Frontend"}, op.confirmsAsked, "exactly one confirmation per distinct mention")
	assert.Equal(t, []string{"Frontend"}, remote.createCalls, "exactly one create call")

	require.Len(t, outcome.Results, 2)
	assert.Equal(t, outcome.Results[0].Payload.ProjectID, outcome.Results[1].Payload.ProjectID,
		"both activities share the created project id")
}

func TestLoop_Save_DeclinedCreationExcludesButSubmitsRest(t *testing.T) {
	remote := &fakeRemote{}
	op := &scriptedOperator{
		commands: []Command{CommandSave},
		confirms: map[string]bool{"Frontend": false},
	}

	batch := &Batch{Activities: Resolve([]domain.CandidateActivity{
		candidate("worked on the API", "API", 9, 11),
		candidate("reviewed frontend", "Frontend", 11, 12),
	}, []domain.Project{{ID: 10, Name: "API"}})}

	outcome, err := newTestLoop(op, noRetry, remote).Run(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, StateSaved, outcome.State)
	require.Len(t, outcome.Results, 1, "only the resolved activity is submitted")
	require.Len(t, outcome.Excluded, 1)
	assert.Equal(t, "reviewed frontend", outcome.Excluded[0].Activity.Description)
	assert.Empty(t, remote.createCalls, "declined mention never reaches the remote")
	assert.NotEmpty(t, op.notices, "the decline is reported, not silent")
}

func TestLoop_Save_ProvisionErrorAbortsSave(t *testing.T) {
	remote := &fakeRemote{failCreate: errors.New("workspace quota exceeded")}
	op := &scriptedOperator{
		commands: []Command{CommandSave},
		confirms: map[string]bool{"Frontend": true},
	}

	batch := &Batch{Activities: Resolve([]domain.CandidateActivity{
		candidate("reviewed frontend", "Frontend", 11, 12),
	}, nil)}

	_, err := newTestLoop(op, noRetry, remote).Run(context.Background(), batch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
	assert.Zero(t, remote.entryCalls, "no entries submitted after a failed creation")
}

func TestLoop_Save_PartialSubmissionFailure(t *testing.T) {
	submitErr := errors.New("status 500")
	remote := &fakeRemote{failEntryAt: map[int]error{2: submitErr}}
	op := &scriptedOperator{commands: []Command{CommandSave}}

	batch := &Batch{Activities: Resolve([]domain.CandidateActivity{
		candidate("one", "API", 9, 10),
		candidate("two", "API", 10, 11),
		candidate("three", "API", 13, 14),
	}, []domain.Project{{ID: 10, Name: "API"}})}

	outcome, err := newTestLoop(op, noRetry, remote).Run(context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, outcome.Results, 3)
	assert.True(t, outcome.Results[0].OK())
	assert.ErrorIs(t, outcome.Results[1].Err, submitErr)
	assert.True(t, outcome.Results[2].OK(), "failure of entry 2 must not stop entry 3")

	ok, failed := Tally(outcome.Results)
	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, failed)
}

func TestLoop_RetryDiscardsPreviousBatch(t *testing.T) {
	remote := &fakeRemote{}
	op := &scriptedOperator{commands: []Command{CommandRetry, CommandSave}}

	fresh := &Batch{Activities: Resolve([]domain.CandidateActivity{
		candidate("second attempt", "API", 9, 10),
	}, []domain.Project{{ID: 10, Name: "API"}})}

	recorder := func(context.Context) (*Batch, error) { return fresh, nil }

	stale := &Batch{Activities: Resolve([]domain.CandidateActivity{
		candidate("first attempt", "API", 9, 10),
		candidate("noise", "API", 10, 11),
	}, []domain.Project{{ID: 10, Name: "API"}})}

	outcome, err := newTestLoop(op, recorder, remote).Run(context.Background(), stale)
	require.NoError(t, err)

	require.Len(t, outcome.Results, 1, "fresh batch replaces the old one, not merged")
	assert.Equal(t, "second attempt", outcome.Results[0].Payload.Description)
	assert.Equal(t, 2, op.shownBatches)
}

func TestLoop_FailedRetryKeepsCurrentBatch(t *testing.T) {
	remote := &fakeRemote{}
	op := &scriptedOperator{commands: []Command{CommandRetry, CommandSave}}

	recorder := func(context.Context) (*Batch, error) {
		return nil, fmt.Errorf("model call failed: %w", errors.New("unreachable"))
	}

	batch := &Batch{Activities: Resolve([]domain.CandidateActivity{
		candidate("keep me", "API", 9, 10),
	}, []domain.Project{{ID: 10, Name: "API"}})}

	outcome, err := newTestLoop(op, recorder, remote).Run(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, StateSaved, outcome.State)
	require.Len(t, outcome.Results, 1)
	assert.Equal(t, "keep me", outcome.Results[0].Payload.Description)
	require.NotEmpty(t, op.notices)
	assert.Contains(t, op.notices[0], "attempt failed")
}

// Full session: two candidates, one known project, one pending; confirmed
// creation; composition on 2024-01-15 in Sao Paulo.
func TestLoop_EndToEndScenario(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	remote := &fakeRemote{nextProjectID: 899} // created project gets id 900
	op := &scriptedOperator{
		commands: []Command{CommandSave},
		confirms: map[string]bool{"Frontend": true},
	}

	candidates := []domain.CandidateActivity{
		{
			Description:    "worked on API",
			Start:          domain.ClockTime{Hour: 9},
			End:            domain.ClockTime{Hour: 11},
			ProjectMention: "API",
		},
		{
			Description:    "reviewed frontend",
			Start:          domain.ClockTime{Hour: 11},
			End:            domain.ClockTime{Hour: 12},
			ProjectMention: "Frontend",
		},
	}
	known := []domain.Project{{ID: 10, WorkspaceID: 42, Name: "API"}}

	resolved := Resolve(candidates, known)
	assert.False(t, resolved[0].PendingCreation)
	assert.True(t, resolved[1].PendingCreation)

	loop := NewLoop(op, noRetry, NewProvisioner(remote), remote, 42,
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), loc)

	outcome, err := loop.Run(context.Background(), &Batch{Activities: resolved})
	require.NoError(t, err)
	require.Len(t, outcome.Results, 2)

	first := outcome.Results[0].Payload
	assert.Equal(t, int64(10), first.ProjectID)
	assert.Equal(t, "2024-01-15T09:00:00-03:00", first.Start.Format(time.RFC3339))
	assert.Equal(t, "2024-01-15T11:00:00-03:00", first.Stop.Format(time.RFC3339))

	second := outcome.Results[1].Payload
	assert.Equal(t, int64(900), second.ProjectID)
	assert.Equal(t, "2024-01-15T11:00:00-03:00", second.Start.Format(time.RFC3339))
	assert.Equal(t, "2024-01-15T12:00:00-03:00", second.Stop.Format(time.RFC3339))
}
