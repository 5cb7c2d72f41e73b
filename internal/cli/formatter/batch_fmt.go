package formatter

import (
	"fmt"
	"strings"

	"github.com/pstwh/fasttoggl/internal/extract"
	"github.com/pstwh/fasttoggl/internal/pipeline"
)

// FormatBatch renders one review batch: every activity with its time range,
// project status, and the running total. Pending and already-dropped records
// stay visible so the operator decides with full information.
func FormatBatch(batch *pipeline.Batch) string {
	var b strings.Builder

	b.WriteString(Header("activities"))
	b.WriteString("\n")

	if len(batch.Activities) == 0 {
		b.WriteString(Dim("  (none)"))
		b.WriteString("\n")
	}

	total := 0
	for i, a := range batch.Activities {
		mark := StyleGreen.Render("●")
		note := ""
		switch {
		case a.PendingCreation:
			mark = StyleYellow.Render("●")
			note = StyleYellow.Render(fmt.Sprintf(" [new project: %s]", a.ProjectMention))
		case !a.Start.Before(a.End):
			mark = StyleRed.Render("●")
			note = StyleRed.Render(" [end not after start]")
		default:
			note = Dim(fmt.Sprintf(" (%s)", a.ProjectMention))
		}

		if a.Start.Before(a.End) {
			total += a.End.Minutes() - a.Start.Minutes()
		}

		b.WriteString(fmt.Sprintf("  %s %d. %s–%s  %s%s\n",
			mark, i+1,
			StyleBlue.Render(a.Start.String()), StyleBlue.Render(a.End.String()),
			a.Description, note))
	}

	b.WriteString(fmt.Sprintf("\n  %s %s\n", Dim("total"), Bold(FormatMinutes(total))))

	for _, note := range batch.Notes {
		b.WriteString(fmt.Sprintf("  %s %s\n", StyleYellow.Render("!"), Dim(note)))
	}

	return b.String()
}

// FormatOutcome renders the terminal result of a review session: one line
// per submission and per exclusion, plus the tally.
func FormatOutcome(outcome *pipeline.Outcome) string {
	var b strings.Builder

	for _, r := range outcome.Results {
		if r.OK() {
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				StyleGreen.Render("✓"), r.Payload.Description,
				Dim(fmt.Sprintf("(entry %d)", r.EntryID))))
		} else {
			b.WriteString(fmt.Sprintf("  %s %s: %v\n",
				StyleRed.Render("✗"), r.Payload.Description, r.Err))
		}
	}
	for _, e := range outcome.Excluded {
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			StyleYellow.Render("–"), e.Activity.Description, Dim("("+e.Reason+")")))
	}

	succeeded, failed := pipeline.Tally(outcome.Results)
	b.WriteString(fmt.Sprintf("\n  %s\n", Dim(fmt.Sprintf(
		"%d saved, %d failed, %d excluded", succeeded, failed, len(outcome.Excluded)))))

	return b.String()
}

// FormatMinutes renders a minute count as H:MM.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// FormatDropped renders extraction drop notes for batch display.
func FormatDropped(dropped []extract.Dropped) []string {
	notes := make([]string, 0, len(dropped))
	for _, d := range dropped {
		notes = append(notes, fmt.Sprintf("record %d dropped: %s", d.Index+1, d.Reason))
	}
	return notes
}
