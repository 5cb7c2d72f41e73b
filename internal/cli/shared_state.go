package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pstwh/fasttoggl/internal/config"
	"github.com/pstwh/fasttoggl/internal/llm"
	"github.com/pstwh/fasttoggl/internal/pipeline"
	"github.com/pstwh/fasttoggl/internal/toggl"
)

// unlock loads and decrypts the stored credentials, asking for the master
// password at most once per command. FASTTOGGL_MASTER_PASSWORD bypasses the
// prompt for scripted use.
func (app *App) unlock() (*config.Credentials, error) {
	if app.creds != nil {
		return app.creds, nil
	}

	if !app.Credentials.Exists() {
		return nil, fmt.Errorf("%w: run 'fasttoggl auth setup' first", config.ErrNoCredentials)
	}

	password := os.Getenv("FASTTOGGL_MASTER_PASSWORD")
	if password == "" {
		var err error
		password, err = app.ReadPassword("Master password: ")
		if err != nil {
			return nil, fmt.Errorf("reading master password: %w", err)
		}
	}

	creds, err := app.Credentials.Load(password)
	if err != nil {
		return nil, err
	}
	app.creds = creds
	return creds, nil
}

// togglClient returns an authenticated API client.
func (app *App) togglClient() (*toggl.Client, *config.Credentials, error) {
	creds, err := app.unlock()
	if err != nil {
		return nil, nil, err
	}
	return app.NewToggl(creds.Email, creds.APIToken), creds, nil
}

// llmClient resolves the model settings (credential store first, then
// config.yaml, then environment/defaults) and builds a client.
func (app *App) llmClient(creds *config.Credentials) (llm.Client, error) {
	cfg := llm.LoadConfig()
	if app.Config.Model != "" {
		cfg.Model = app.Config.Model
	}
	if app.Config.Endpoint != "" {
		cfg.Endpoint = app.Config.Endpoint
	}
	if creds.LLM != nil {
		if creds.LLM.Model != "" {
			cfg.Model = creds.LLM.Model
		}
		cfg.APIKey = creds.LLM.APIKey
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no model API key configured: run 'fasttoggl auth setup'")
	}
	return app.NewLLM(cfg), nil
}

// workspaceID returns the configured default workspace, falling back to the
// account's first workspace.
func (app *App) workspaceID(ctx context.Context, client *toggl.Client) (int64, error) {
	if app.Config.Workspace != 0 {
		return app.Config.Workspace, nil
	}
	ws, err := client.Workspaces(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing workspaces: %w", err)
	}
	if len(ws) == 0 {
		return 0, fmt.Errorf("account has no workspaces")
	}
	return ws[0].ID, nil
}

// journalOutcome records a saved batch in the local journal. The entries
// already exist remotely at this point, so a journal failure is reported
// but never fails the command.
func (app *App) journalOutcome(ctx context.Context, outcome *pipeline.Outcome) error {
	journal, closeJournal, err := app.OpenJournal()
	if err != nil {
		fmt.Fprintf(app.Stdout, "warning: journal unavailable: %v\n", err)
		return nil
	}
	defer closeJournal()

	if err := journal.Record(ctx, outcome.Results); err != nil {
		fmt.Fprintf(app.Stdout, "warning: journaling failed: %v\n", err)
	}
	return nil
}

// language resolves the prompt language: config.yaml wins, then the stored
// credential default.
func (app *App) language(creds *config.Credentials) string {
	if app.Config.Language != "" {
		return app.Config.Language
	}
	if creds != nil && creds.Language != "" {
		return creds.Language
	}
	return app.Credentials.Language()
}
