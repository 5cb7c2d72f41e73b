package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pstwh/fasttoggl/internal/cli/formatter"
	"github.com/pstwh/fasttoggl/internal/config"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored credentials",
	}

	cmd.AddCommand(
		newAuthSetupCmd(app),
		newAuthStatusCmd(app),
	)

	return cmd
}

func newAuthSetupCmd(app *App) *cobra.Command {
	var email, apiToken, llmKey, model, language string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Store account credentials, encrypted under a master password",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags cover scripted setup; otherwise collect interactively.
			if email == "" || apiToken == "" {
				if !app.Interactive() {
					return fmt.Errorf("--email and --token are required outside a terminal")
				}
				if err := setupForm(&email, &apiToken, &llmKey, &model, &language); err != nil {
					return err
				}
			}
			if language == "" {
				language = "pt-BR"
			}

			client := app.NewToggl(email, apiToken)
			stop := formatter.StartSpinner("verifying credentials")
			err := client.Authenticate(cmd.Context())
			stop()
			if err != nil {
				return fmt.Errorf("credential check failed: %w", err)
			}

			password, err := app.ReadPassword("Master password: ")
			if err != nil {
				return err
			}
			confirm, err := app.ReadPassword("Repeat master password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return fmt.Errorf("master passwords do not match")
			}

			creds := config.Credentials{
				Email:    email,
				APIToken: apiToken,
				Language: language,
			}
			if llmKey != "" {
				creds.LLM = &config.LLMCredentials{
					Provider: "gemini",
					Model:    model,
					APIKey:   llmKey,
				}
			}

			if err := app.Credentials.Save(creds, password); err != nil {
				return err
			}

			fmt.Fprintln(app.Stdout, formatter.StyleGreen.Render("✓ credentials saved"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&apiToken, "token", "", "API token")
	cmd.Flags().StringVar(&llmKey, "llm-key", "", "model API key (optional)")
	cmd.Flags().StringVar(&model, "model", "", "model name (optional)")
	cmd.Flags().StringVar(&language, "language", "", "default language tag, e.g. pt-BR")

	return cmd
}

func setupForm(email, apiToken, llmKey, model, language *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Toggl email").
				Value(email).
				Validate(requireValue("email")),
			huh.NewInput().
				Title("Toggl API token").
				EchoMode(huh.EchoModePassword).
				Value(apiToken).
				Validate(requireValue("API token")),
			huh.NewInput().
				Title("Gemini API key (blank to skip extraction setup)").
				EchoMode(huh.EchoModePassword).
				Value(llmKey),
			huh.NewInput().
				Title("Model").
				Placeholder("gemini-2.5-flash").
				Value(model),
			huh.NewInput().
				Title("Language").
				Placeholder("pt-BR").
				Value(language),
		),
	).WithShowHelp(false)

	return form.Run()
}

func requireValue(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether credentials are configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Credentials.Exists() {
				fmt.Fprintln(app.Stdout, formatter.Dim("no credentials saved; run 'fasttoggl auth setup'"))
				return nil
			}
			fmt.Fprintf(app.Stdout, "%s %s\n",
				formatter.StyleGreen.Render("✓"),
				fmt.Sprintf("credentials saved (language %s)", app.Credentials.Language()))
			return nil
		},
	}
}
