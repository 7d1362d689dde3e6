// Package config holds the YAML configuration surface of draftcommit.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// GeneratorMode selects the generation path.
type GeneratorMode string

const (
	// ModeTemplate generates deterministically from templates, fully offline.
	ModeTemplate GeneratorMode = "template"
	// ModeAI asks an LLM provider, with a guaranteed template fallback.
	ModeAI GeneratorMode = "ai"
)

// ProviderName selects the AI backend.
type ProviderName string

const (
	// OpenAI targets the hosted OpenAI API or any compatible gateway.
	OpenAI ProviderName = "openai"
	// Ollama targets a local Ollama server.
	Ollama ProviderName = "ollama"
)

// Commit style values.
const (
	StyleDetailed = "detailed"
	StyleOneLine  = "one-line"
)

// Config is the application configuration, loaded from ~/.draftcommitrc.
type Config struct {
	Generator struct {
		Mode GeneratorMode `yaml:"mode"`
	} `yaml:"generator"`

	AI struct {
		Provider       ProviderName `yaml:"provider"`
		Model          string       `yaml:"model"`
		BaseURL        string       `yaml:"base_url,omitempty"`
		APIKey         string       `yaml:"api_key,omitempty"`
		TimeoutSeconds int          `yaml:"timeout_seconds,omitempty"`
		SystemPrompt   string       `yaml:"system_prompt,omitempty"`
	} `yaml:"ai"`

	Commit struct {
		Convention     string `yaml:"convention"`
		Style          string `yaml:"style"`
		Language       string `yaml:"language,omitempty"`
		MaxTitleLength int    `yaml:"max_title_length"`
		TitleTemplate  string `yaml:"title_template,omitempty"`
		BodyTemplate   string `yaml:"body_template,omitempty"`
	} `yaml:"commit"`

	Context struct {
		MaxFiles      int `yaml:"max_files"`
		MaxDiffTokens int `yaml:"max_diff_tokens"`
		MaxTotalChars int `yaml:"max_total_chars"`
	} `yaml:"context"`

	History struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path,omitempty"`
		Limit   int    `yaml:"limit"`
	} `yaml:"history"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Generator.Mode = ModeTemplate

	cfg.AI.Provider = OpenAI
	cfg.AI.Model = "gpt-4o-mini"
	cfg.AI.TimeoutSeconds = 0 // provider default: 30s cloud, 60s local

	cfg.Commit.Convention = "conventional"
	cfg.Commit.Style = StyleDetailed
	cfg.Commit.MaxTitleLength = 72

	cfg.Context.MaxFiles = 30
	cfg.Context.MaxDiffTokens = 4000
	cfg.Context.MaxTotalChars = 32000

	cfg.History.Enabled = true
	cfg.History.Limit = 100

	return cfg
}

// OneLine reports whether the one-line commit style is configured.
func (c *Config) OneLine() bool {
	return c.Commit.Style == StyleOneLine
}

// Timeout returns the configured AI call timeout, zero when unset so the
// provider default applies.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

// HistoryPath returns the configured history file path, defaulting next to
// the config file in the home directory.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".draftcommit_history")
}

// ParseConfig parses YAML over the defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads the configuration from ~/.draftcommitrc.
func LoadConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFromPath(filepath.Join(homeDir, ".draftcommitrc"))
}

// LoadConfigFromPath loads configuration from a path, returning defaults when
// the file does not exist.
func LoadConfigFromPath(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, err
	}
	return ParseConfig(data)
}

// SaveExampleConfig writes a commented starter configuration.
func SaveExampleConfig(path string) error {
	cfg := DefaultConfig()
	cfg.Generator.Mode = ModeAI
	cfg.AI.APIKey = "your-api-key-here"

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	commented := `# draftcommit configuration file
#
# generator.mode: "template" works fully offline; "ai" asks the configured
# provider and falls back to the template path on any failure.
# commit.convention: "conventional", "gitmoji", or "none".
# commit.style: "detailed" or "one-line".

` + string(data)

	return os.WriteFile(path, []byte(commented), 0o644)
}
