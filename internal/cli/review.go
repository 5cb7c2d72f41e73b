package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/pstwh/fasttoggl/internal/cli/formatter"
	"github.com/pstwh/fasttoggl/internal/pipeline"
)

// terminalOperator is the terminal implementation of pipeline.Operator:
// batch display via the formatter, single-letter commands, y/N project
// confirmation.
type terminalOperator struct {
	in  io.Reader
	out io.Writer
}

func newTerminalOperator(in io.Reader, out io.Writer) *terminalOperator {
	return &terminalOperator{in: in, out: out}
}

func (o *terminalOperator) ShowBatch(batch *pipeline.Batch) {
	fmt.Fprintln(o.out)
	fmt.Fprint(o.out, formatter.FormatBatch(batch))
}

// Command prompts until one of the three commands is typed. Unknown input
// re-prompts instead of defaulting, so a stray keypress never saves a batch.
func (o *terminalOperator) Command() (pipeline.Command, error) {
	for {
		fmt.Fprintf(o.out, "\n%s ", formatter.Bold("[a]gain, [s]ave, [q]uit?"))

		line, err := readPromptLine(o.in)
		if err != nil {
			return 0, err
		}

		switch strings.TrimSpace(strings.ToLower(line)) {
		case "a", "again":
			return pipeline.CommandRetry, nil
		case "s", "save":
			return pipeline.CommandSave, nil
		case "q", "quit":
			return pipeline.CommandQuit, nil
		default:
			fmt.Fprintln(o.out, formatter.Dim("  a = record again, s = save entries, q = quit without saving"))
		}
	}
}

func (o *terminalOperator) ConfirmCreate(name string) (bool, error) {
	prompt := fmt.Sprintf("%s [y/N] ", formatter.StyleYellow.Render(
		fmt.Sprintf("Project %q does not exist. Create it?", name)))
	return promptYesNoIO(o.in, o.out, prompt), nil
}

func (o *terminalOperator) Notify(message string) {
	fmt.Fprintf(o.out, "  %s %s\n", formatter.StyleYellow.Render("!"), message)
}
