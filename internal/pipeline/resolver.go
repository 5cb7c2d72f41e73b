package pipeline

import (
	"strings"

	"github.com/pstwh/fasttoggl/internal/domain"
)

// Batch is the unit of work flowing through one review session: the resolved
// activities plus any records already dropped during extraction. Owned
// exclusively by the review loop for its lifetime.
type Batch struct {
	Activities []*domain.ResolvedActivity
	Notes      []string // extraction drop reasons, shown with the batch
}

// Resolve matches each candidate's project mention against the workspace
// snapshot. Matching is exact and case-insensitive; no fuzzy matching, so
// ambiguity surfaces to the operator instead of being guessed away. Pure
// function over the provided snapshot: deterministic, no network.
func Resolve(candidates []domain.CandidateActivity, known []domain.Project) []*domain.ResolvedActivity {
	byName := make(map[string]int64, len(known))
	for _, p := range known {
		byName[strings.ToLower(p.Name)] = p.ID
	}

	resolved := make([]*domain.ResolvedActivity, 0, len(candidates))
	for _, c := range candidates {
		ra := &domain.ResolvedActivity{CandidateActivity: c}
		if id, ok := byName[strings.ToLower(c.ProjectMention)]; ok {
			ra.ProjectID = id
		} else {
			ra.PendingCreation = true
		}
		resolved = append(resolved, ra)
	}
	return resolved
}

// PendingMentions returns the distinct unmatched project mentions in the
// batch, first-seen spelling preserved, deduplicated case-insensitively.
// Activities sharing a mention share one provisioning decision.
func (b *Batch) PendingMentions() []string {
	seen := make(map[string]bool)
	var mentions []string
	for _, a := range b.Activities {
		if !a.PendingCreation {
			continue
		}
		key := strings.ToLower(a.ProjectMention)
		if seen[key] {
			continue
		}
		seen[key] = true
		mentions = append(mentions, a.ProjectMention)
	}
	return mentions
}

// ApplyProject fills the project id on every pending activity whose mention
// matches name, clearing the pending marker.
func (b *Batch) ApplyProject(name string, id int64) {
	for _, a := range b.Activities {
		if a.PendingCreation && strings.EqualFold(a.ProjectMention, name) {
			a.ProjectID = id
			a.PendingCreation = false
		}
	}
}
