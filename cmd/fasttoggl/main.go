package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pstwh/fasttoggl/internal/cli"
	"github.com/pstwh/fasttoggl/internal/config"
	"github.com/pstwh/fasttoggl/internal/db"
	"github.com/pstwh/fasttoggl/internal/llm"
	"github.com/pstwh/fasttoggl/internal/repository"
	"github.com/pstwh/fasttoggl/internal/toggl"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	store, err := config.NewCredentialStore()
	if err != nil {
		return err
	}

	cfg, err := config.LoadAppConfig()
	if err != nil {
		return err
	}

	app := &cli.App{
		Credentials: store,
		Config:      cfg,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		NewToggl: func(email, apiToken string) *toggl.Client {
			return toggl.NewClient(email, apiToken)
		},
		NewLLM:      newLLMClient,
		OpenJournal: openJournal,
		ReadPassword: func(prompt string) (string, error) {
			fmt.Fprint(os.Stderr, prompt)
			defer fmt.Fprintln(os.Stderr)
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
		Interactive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}

func newLLMClient(cfg llm.Config) llm.Client {
	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LogCalls {
		observer = llm.NewLogObserver(os.Stderr)
	}
	return llm.NewGeminiClient(cfg, observer)
}

func openJournal() (repository.JournalRepo, func() error, error) {
	path, err := config.JournalPath()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.OpenDB(path)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewSQLiteJournalRepo(database), database.Close, nil
}
