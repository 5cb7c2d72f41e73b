// Package cli wires the fasttoggl commands. Commands talk to the rest of
// the tool through the App struct so tests can substitute every edge.
package cli

import (
	"io"

	"github.com/pstwh/fasttoggl/internal/config"
	"github.com/pstwh/fasttoggl/internal/llm"
	"github.com/pstwh/fasttoggl/internal/repository"
	"github.com/pstwh/fasttoggl/internal/toggl"
	"github.com/spf13/cobra"
)

// App holds everything the commands depend on. The constructor fields exist
// so tests can point commands at httptest servers and scripted terminals.
type App struct {
	Credentials *config.CredentialStore
	Config      config.AppConfig

	Stdin  io.Reader
	Stdout io.Writer

	// NewToggl builds the API client from unlocked credentials.
	NewToggl func(email, apiToken string) *toggl.Client
	// NewLLM builds the model client from resolved settings.
	NewLLM func(cfg llm.Config) llm.Client
	// OpenJournal opens the local submission journal. The returned closer
	// must be called when the command finishes.
	OpenJournal func() (repository.JournalRepo, func() error, error)
	// ReadPassword reads the master password without echo.
	ReadPassword func(prompt string) (string, error)
	// Interactive reports whether stdin/stdout are a terminal.
	Interactive func() bool

	// unlocked credentials, cached for the life of one command
	creds *config.Credentials
}

// NewRootCmd creates the top-level "fasttoggl" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "fasttoggl",
		Short:         "Log Toggl time entries from a spoken or written workday summary",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAuthCmd(app),
		newAudioCmd(app),
		newPromptCmd(app),
		newTogglCmd(app),
		newReportCmd(app),
		newFastReportCmd(app),
		newHistoryCmd(app),
	)

	return root
}
