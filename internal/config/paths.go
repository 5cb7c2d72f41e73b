package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns the fasttoggl configuration directory, creating it if needed.
// FASTTOGGL_CONFIG_DIR overrides the default for tests and sandboxes.
func Dir() (string, error) {
	if v := os.Getenv("FASTTOGGL_CONFIG_DIR"); v != "" {
		if err := os.MkdirAll(v, 0o700); err != nil {
			return "", fmt.Errorf("creating config dir: %w", err)
		}
		return v, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config directory: %w", err)
	}
	dir := filepath.Join(base, "fasttoggl")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	return dir, nil
}

// SystemPromptPath returns the path of the editable extraction prompt.
func SystemPromptPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "system_prompt.txt"), nil
}

// JournalPath returns the path of the local submission journal database.
func JournalPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journal.db"), nil
}
