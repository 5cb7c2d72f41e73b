package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pstwh/fasttoggl/internal/domain"
	"github.com/pstwh/fasttoggl/internal/llm"
)

// ErrNoActivities indicates the model reply contained zero records that
// survived validation. The attempt failed; the operator may re-record.
var ErrNoActivities = errors.New("no valid activities in model reply")

// Request carries one extraction attempt. Exactly one of Transcript or Audio
// should be set; when Audio is present the model transcribes it itself.
type Request struct {
	Transcript string
	Audio      []byte
	AudioMIME  string
	Language   string           // locale tag for natural-language fields
	Projects   []domain.Project // workspace snapshot, for model context
	History    []string         // prior attempt summaries, for refinement
}

// Dropped records a reply record excluded during validation, with the
// reason reported to the operator.
type Dropped struct {
	Index  int
	Reason string
}

// Extractor turns a workday description into candidate activities.
type Extractor interface {
	Extract(ctx context.Context, req Request) ([]domain.CandidateActivity, []Dropped, error)
}

type extractor struct {
	client       llm.Client
	systemPrompt string
}

// New creates an Extractor backed by the given model client. systemPrompt
// may be empty, in which case the built-in default is used.
func New(client llm.Client, systemPrompt string) Extractor {
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &extractor{client: client, systemPrompt: systemPrompt}
}

// activityRecord mirrors one element of the reply's "activities" array.
type activityRecord struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
	Project     string `json:"project"`
}

type extractReply struct {
	Activities []activityRecord `json:"activities"`
}

func (e *extractor) Extract(ctx context.Context, req Request) ([]domain.CandidateActivity, []Dropped, error) {
	if len(req.Audio) == 0 && strings.TrimSpace(req.Transcript) == "" {
		return nil, nil, fmt.Errorf("extraction requires a transcript or audio input")
	}

	lang := req.Language
	if lang == "" {
		lang = "en-US"
	}
	system := strings.ReplaceAll(e.systemPrompt, "{target_language}", lang)

	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: system,
		UserPrompt:   buildUserPrompt(req),
		Audio:        req.Audio,
		AudioMIME:    req.AudioMIME,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("model call failed: %w", err)
	}

	reply, err := llm.DecodeReply[extractReply](resp.Text, nil)
	if err != nil {
		return nil, nil, err
	}

	candidates, dropped := validateRecords(reply.Activities)
	if len(candidates) == 0 {
		return nil, dropped, ErrNoActivities
	}
	return candidates, dropped, nil
}

// validateRecords applies the shape checks record by record. A malformed
// record is dropped with a reason rather than failing the whole batch.
func validateRecords(records []activityRecord) ([]domain.CandidateActivity, []Dropped) {
	var candidates []domain.CandidateActivity
	var dropped []Dropped

	drop := func(i int, reason string) {
		dropped = append(dropped, Dropped{Index: i, Reason: reason})
	}

	for i, rec := range records {
		if strings.TrimSpace(rec.Description) == "" {
			drop(i, "missing description")
			continue
		}
		if strings.TrimSpace(rec.Project) == "" {
			drop(i, "missing project")
			continue
		}

		start, err := domain.ParseClock(rec.StartTime)
		if err != nil {
			drop(i, fmt.Sprintf("bad start_time: %v", err))
			continue
		}
		end, err := domain.ParseClock(rec.EndTime)
		if err != nil {
			drop(i, fmt.Sprintf("bad end_time: %v", err))
			continue
		}
		if !start.Before(end) {
			drop(i, fmt.Sprintf("start %s is not before end %s", start, end))
			continue
		}

		candidates = append(candidates, domain.CandidateActivity{
			Description:    strings.TrimSpace(rec.Description),
			Start:          start,
			End:            end,
			ProjectMention: strings.TrimSpace(rec.Project),
		})
	}

	return candidates, dropped
}

func buildUserPrompt(req Request) string {
	var ctxParts []string

	if len(req.Projects) > 0 {
		names := make([]string, len(req.Projects))
		for i, p := range req.Projects {
			names[i] = p.Name
		}
		ctxParts = append(ctxParts, "Projects: "+strings.Join(names, ", "))
	}

	if len(req.History) > 0 {
		var b strings.Builder
		b.WriteString("Previous attempts history:\n")
		for i, attempt := range req.History {
			fmt.Fprintf(&b, "Attempt %d: %s\n", i+1, attempt)
		}
		ctxParts = append(ctxParts, b.String())
	}

	body := req.Transcript
	if body == "" {
		body = "(the workday description is in the attached audio)"
	}

	return fmt.Sprintf(userPromptTemplate, strings.Join(ctxParts, "\n\n"), body)
}
