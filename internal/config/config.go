package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppConfig holds non-secret tool settings, kept in config.yaml next to the
// credentials. Every field is optional; zero values mean "use defaults".
type AppConfig struct {
	Language  string `yaml:"language"`
	Model     string `yaml:"model"`
	Endpoint  string `yaml:"endpoint"`
	Workspace int64  `yaml:"workspace"` // default workspace id, 0 = first

	// Recorder is the external command used for audio capture, with
	// {output} substituted by the target WAV path.
	Recorder string `yaml:"recorder"`
}

const configFile = "config.yaml"

// LoadAppConfig reads config.yaml from the config directory. A missing file
// yields a zero config, not an error.
func LoadAppConfig() (AppConfig, error) {
	dir, err := Dir()
	if err != nil {
		return AppConfig{}, err
	}

	raw, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return AppConfig{}, nil
		}
		return AppConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parsing config.yaml: %w", err)
	}
	return cfg, nil
}

// SaveAppConfig writes config.yaml to the config directory.
func SaveAppConfig(cfg AppConfig) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// LoadSystemPrompt returns the operator-edited extraction prompt, or the
// empty string when none has been saved (callers fall back to the default).
func LoadSystemPrompt() (string, error) {
	path, err := SystemPromptPath()
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading system prompt: %w", err)
	}
	return string(raw), nil
}
