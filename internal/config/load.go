package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SEGMENTFLOW_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if c.LLM.APIKey != "" {
		return
	}
	keys := []string{"SEGMENTFLOW_LLM_API_KEY"}
	switch c.LLM.Provider {
	case "openai":
		keys = append(keys, "OPENAI_API_KEY")
	case "", "gemini":
		keys = append(keys, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	}
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			c.LLM.APIKey = v
			return
		}
	}
}

// ReadPrompt returns the content of path, or fallback when path is empty.
func ReadPrompt(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
