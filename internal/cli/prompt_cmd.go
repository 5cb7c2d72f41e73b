package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/pstwh/fasttoggl/internal/cli/formatter"
	"github.com/pstwh/fasttoggl/internal/config"
	"github.com/pstwh/fasttoggl/internal/extract"
	"github.com/spf13/cobra"
)

func newPromptCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Manage the extraction prompt",
	}

	cmd.AddCommand(
		newPromptEditCmd(app),
		newPromptShowCmd(app),
		newPromptResetCmd(app),
	)

	return cmd
}

func newPromptEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the extraction prompt in $VISUAL or $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.SystemPromptPath()
			if err != nil {
				return err
			}

			// Seed the file so the operator edits the real default, not a
			// blank page.
			if _, err := os.Stat(path); os.IsNotExist(err) {
				if err := os.WriteFile(path, []byte(extract.DefaultSystemPrompt), 0o600); err != nil {
					return fmt.Errorf("seeding prompt file: %w", err)
				}
			}

			editor := os.Getenv("VISUAL")
			if editor == "" {
				editor = os.Getenv("EDITOR")
			}
			if editor == "" {
				editor = "vi"
			}

			edit := exec.CommandContext(cmd.Context(), editor, path)
			edit.Stdin = os.Stdin
			edit.Stdout = os.Stdout
			edit.Stderr = os.Stderr
			if err := edit.Run(); err != nil {
				return fmt.Errorf("editor %q failed: %w", editor, err)
			}

			fmt.Fprintln(app.Stdout, formatter.Dim(path))
			return nil
		},
	}
}

func newPromptShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active extraction prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := config.LoadSystemPrompt()
			if err != nil {
				return err
			}
			if prompt == "" {
				prompt = extract.DefaultSystemPrompt
				fmt.Fprintln(app.Stdout, formatter.Dim("(built-in default)"))
			}
			fmt.Fprintln(app.Stdout, prompt)
			return nil
		},
	}
}

func newPromptResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard prompt edits and return to the built-in default",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.SystemPromptPath()
			if err != nil {
				return err
			}
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("removing prompt file: %w", err)
			}
			fmt.Fprintln(app.Stdout, formatter.StyleGreen.Render("✓ prompt reset"))
			return nil
		},
	}
}
