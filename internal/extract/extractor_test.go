package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/pstwh/fasttoggl/internal/domain"
	"github.com/pstwh/fasttoggl/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient returns a canned reply and records the last request.
type stubClient struct {
	reply string
	err   error
	last  llm.GenerateRequest
}

func (s *stubClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.GenerateResponse{Text: s.reply}, nil
}

func TestExtract_ParsesValidReply(t *testing.T) {
	client := &stubClient{reply: `{"activities":[
		{"start_time":"09:00","end_time":"11:00","description":"worked on the API","project":"API"},
		{"start_time":"11:00","end_time":"12:00","description":"reviewed frontend PRs","project":"Frontend"}
	]}`}

	svc := New(client, "")
	candidates, dropped, err := svc.Extract(context.Background(), Request{
		Transcript: "From 9 to 11 I worked on API. From 11 to 12 I reviewed frontend.",
		Language:   "en-US",
	})

	require.NoError(t, err)
	assert.Empty(t, dropped)
	require.Len(t, candidates, 2)
	assert.Equal(t, domain.ClockTime{Hour: 9}, candidates[0].Start)
	assert.Equal(t, domain.ClockTime{Hour: 11}, candidates[0].End)
	assert.Equal(t, "API", candidates[0].ProjectMention)
	assert.Equal(t, "Frontend", candidates[1].ProjectMention)
}

func TestExtract_DropsMalformedRecordsKeepsRest(t *testing.T) {
	client := &stubClient{reply: `{"activities":[
		{"start_time":"09:00","end_time":"10:00","description":"ok","project":"API"},
		{"start_time":"25:00","end_time":"10:00","description":"bad clock","project":"API"},
		{"start_time":"11:00","end_time":"10:00","description":"inverted","project":"API"},
		{"start_time":"10:00","end_time":"11:00","description":"","project":"API"},
		{"start_time":"10:00","end_time":"11:00","description":"no project","project":""}
	]}`}

	svc := New(client, "")
	candidates, dropped, err := svc.Extract(context.Background(), Request{Transcript: "day"})

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "ok", candidates[0].Description)

	require.Len(t, dropped, 4)
	assert.Contains(t, dropped[1].Reason, "not before")
}

// Any record violating start < end never reaches the caller.
func TestExtract_StartBeforeEndInvariant(t *testing.T) {
	client := &stubClient{reply: `{"activities":[
		{"start_time":"14:00","end_time":"09:00","description":"overnight-ish","project":"API"},
		{"start_time":"09:00","end_time":"09:00","description":"zero length","project":"API"},
		{"start_time":"09:00","end_time":"09:01","description":"one minute","project":"API"}
	]}`}

	svc := New(client, "")
	candidates, _, err := svc.Extract(context.Background(), Request{Transcript: "day"})
	require.NoError(t, err)

	for _, c := range candidates {
		assert.True(t, c.Start.Before(c.End))
	}
	require.Len(t, candidates, 1)
}

func TestExtract_ZeroValidActivitiesFails(t *testing.T) {
	client := &stubClient{reply: `{"activities":[
		{"start_time":"nope","end_time":"10:00","description":"x","project":"API"}
	]}`}

	svc := New(client, "")
	_, dropped, err := svc.Extract(context.Background(), Request{Transcript: "day"})

	assert.ErrorIs(t, err, ErrNoActivities)
	assert.Len(t, dropped, 1)
}

func TestExtract_ModelFailurePropagates(t *testing.T) {
	client := &stubClient{err: llm.ErrUnavailable}

	svc := New(client, "")
	_, _, err := svc.Extract(context.Background(), Request{Transcript: "day"})

	assert.ErrorIs(t, err, llm.ErrUnavailable)
}

func TestExtract_EmptyInputRejected(t *testing.T) {
	svc := New(&stubClient{reply: "{}"}, "")
	_, _, err := svc.Extract(context.Background(), Request{Transcript: "   "})
	assert.Error(t, err)
}

func TestExtract_PromptCarriesProjectsHistoryAndLanguage(t *testing.T) {
	client := &stubClient{reply: `{"activities":[
		{"start_time":"09:00","end_time":"10:00","description":"ok","project":"API"}
	]}`}

	svc := New(client, "")
	_, _, err := svc.Extract(context.Background(), Request{
		Transcript: "day",
		Language:   "pt-BR",
		Projects:   []domain.Project{{ID: 1, Name: "API"}, {ID: 2, Name: "Docs"}},
		History:    []string{"attempt one summary"},
	})
	require.NoError(t, err)

	assert.Contains(t, client.last.SystemPrompt, "pt-BR")
	assert.NotContains(t, client.last.SystemPrompt, "{target_language}")
	assert.Contains(t, client.last.UserPrompt, "Projects: API, Docs")
	assert.Contains(t, client.last.UserPrompt, "Attempt 1: attempt one summary")
}

func TestExtract_AudioOnlyRequest(t *testing.T) {
	client := &stubClient{reply: `{"activities":[
		{"start_time":"09:00","end_time":"10:00","description":"ok","project":"API"}
	]}`}

	svc := New(client, "")
	_, _, err := svc.Extract(context.Background(), Request{
		Audio:     []byte("RIFFwav"),
		AudioMIME: "audio/wav",
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("RIFFwav"), client.last.Audio)
	assert.True(t, strings.Contains(client.last.UserPrompt, "attached audio"))
}

func TestExtract_CustomSystemPromptOverridesDefault(t *testing.T) {
	client := &stubClient{reply: `{"activities":[
		{"start_time":"09:00","end_time":"10:00","description":"ok","project":"API"}
	]}`}

	svc := New(client, "custom instructions for {target_language}")
	_, _, err := svc.Extract(context.Background(), Request{Transcript: "day", Language: "en-US"})
	require.NoError(t, err)

	assert.Equal(t, "custom instructions for en-US", client.last.SystemPrompt)
}
