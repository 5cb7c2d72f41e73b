package llm

import (
	"os"
	"strconv"
)

// Config holds all configuration for the LLM subsystem. The API key comes
// from the credential store; everything else has defaults overridable via
// FASTTOGGL_LLM_* environment variables.
type Config struct {
	Endpoint    string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	TimeoutMs   int
	LogCalls    bool
}

// DefaultConfig returns a Config with sensible defaults for the Gemini API.
func DefaultConfig() Config {
	return Config{
		Endpoint:    "https://generativelanguage.googleapis.com",
		Model:       "gemini-2.5-flash",
		Temperature: 0,
		MaxTokens:   4096,
		TimeoutMs:   60000,
		LogCalls:    false,
	}
}

// LoadConfig reads LLM configuration from environment variables, falling
// back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("FASTTOGGL_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("FASTTOGGL_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("FASTTOGGL_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("FASTTOGGL_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("FASTTOGGL_LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	if v := os.Getenv("FASTTOGGL_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}

	return cfg
}
