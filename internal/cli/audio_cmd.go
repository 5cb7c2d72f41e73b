package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pstwh/fasttoggl/internal/audio"
	"github.com/pstwh/fasttoggl/internal/cli/formatter"
	"github.com/pstwh/fasttoggl/internal/config"
	"github.com/pstwh/fasttoggl/internal/domain"
	"github.com/pstwh/fasttoggl/internal/extract"
	"github.com/pstwh/fasttoggl/internal/pipeline"
	"github.com/spf13/cobra"
)

func newAudioCmd(app *App) *cobra.Command {
	var (
		input    string
		text     string
		dateStr  string
		zoneName string
		language string
		keepWAV  bool
		noLLM    bool
	)

	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Record a workday summary and log it as time entries",
		Long: `Records audio (or takes a written summary), extracts the activities with
their time ranges, and walks through an interactive review before anything
is written to the account. Unmatched project names are only created after
explicit confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// Record-only mode: capture audio and stop, nothing leaves the
			// machine.
			if noLLM {
				recorder := audio.NewRecorder(app.Config.Recorder)
				wavPath := audio.TempWAVPath()
				fmt.Fprintln(app.Stdout, formatter.Dim("recording... stop the recorder when done"))
				if err := recorder.Capture(ctx, wavPath); err != nil {
					return err
				}
				fmt.Fprintf(app.Stdout, "%s %s\n", formatter.StyleGreen.Render("✓"), wavPath)
				return nil
			}

			loc := time.Local
			if zoneName != "" {
				var err error
				if loc, err = time.LoadLocation(zoneName); err != nil {
					return fmt.Errorf("unknown timezone %q: %w", zoneName, err)
				}
			}

			date := time.Now().In(loc)
			if dateStr != "" {
				var err error
				if date, err = time.ParseInLocation("2006-01-02", dateStr, loc); err != nil {
					return fmt.Errorf("invalid date %q: %w", dateStr, err)
				}
			}

			client, creds, err := app.togglClient()
			if err != nil {
				return err
			}

			model, err := app.llmClient(creds)
			if err != nil {
				return err
			}

			prompt, err := loadSystemPrompt()
			if err != nil {
				return err
			}
			extractor := extract.New(model, prompt)

			workspaceID, err := app.workspaceID(ctx, client)
			if err != nil {
				return err
			}

			stop := formatter.StartSpinner("loading projects")
			projects, err := client.Projects(ctx, workspaceID)
			stop()
			if err != nil {
				return fmt.Errorf("loading projects: %w", err)
			}

			recorder := audio.NewRecorder(app.Config.Recorder)
			lang := language
			if lang == "" {
				lang = app.language(creds)
			}

			var history []string
			firstInput := input

			attempt := func(ctx context.Context) (*pipeline.Batch, error) {
				req := extract.Request{
					Language: lang,
					Projects: projects,
					History:  history,
				}

				switch {
				case text != "":
					req.Transcript = text
				default:
					wavPath := firstInput
					firstInput = "" // retries always re-record
					if wavPath == "" {
						wavPath = audio.TempWAVPath()
						if !keepWAV {
							defer os.Remove(wavPath)
						}
						fmt.Fprintln(app.Stdout, formatter.Dim("recording... stop the recorder when done"))
						if err := recorder.Capture(ctx, wavPath); err != nil {
							return nil, err
						}
					}
					data, err := os.ReadFile(wavPath)
					if err != nil {
						return nil, fmt.Errorf("reading audio: %w", err)
					}
					req.Audio = data
					req.AudioMIME = "audio/wav"
				}

				stop := formatter.StartSpinner("extracting activities")
				candidates, dropped, err := extractor.Extract(ctx, req)
				stop()
				if err != nil {
					return nil, err
				}

				history = append(history, summarize(candidates))

				return &pipeline.Batch{
					Activities: pipeline.Resolve(candidates, projects),
					Notes:      formatter.FormatDropped(dropped),
				}, nil
			}

			batch, err := attempt(ctx)
			if err != nil {
				return err
			}

			operator := newTerminalOperator(app.Stdin, app.Stdout)
			loop := pipeline.NewLoop(operator, attempt,
				pipeline.NewProvisioner(client), client, workspaceID, date, loc)

			outcome, err := loop.Run(ctx, batch)
			if err != nil {
				return err
			}

			if outcome.State == pipeline.StateAborted {
				fmt.Fprintln(app.Stdout, formatter.Dim("aborted, nothing saved"))
				return nil
			}

			fmt.Fprint(app.Stdout, formatter.FormatOutcome(outcome))
			return app.journalOutcome(ctx, outcome)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "use an existing audio file instead of recording")
	cmd.Flags().StringVarP(&text, "text", "t", "", "written workday summary instead of audio")
	cmd.Flags().StringVar(&dateStr, "date", "", "date to log entries on (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&zoneName, "timezone", "", "IANA timezone for the entries (default local)")
	cmd.Flags().StringVar(&language, "language", "", "language tag for descriptions")
	cmd.Flags().BoolVar(&keepWAV, "keep-audio", false, "keep the recorded WAV file")
	cmd.Flags().BoolVar(&noLLM, "no-llm", false, "record audio only, skip extraction and review")

	return cmd
}

// summarize renders one extraction attempt for the refinement history sent
// with the next attempt.
func summarize(candidates []domain.CandidateActivity) string {
	parts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		parts = append(parts, fmt.Sprintf("%s-%s %s (%s)",
			c.Start, c.End, c.Description, c.ProjectMention))
	}
	return strings.Join(parts, "; ")
}

// loadSystemPrompt returns the operator-edited prompt, empty meaning the
// built-in default.
func loadSystemPrompt() (string, error) {
	return config.LoadSystemPrompt()
}
