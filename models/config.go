// Package models defines data structures for configuration and extraction results.
package models

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backends accepted by Config.Backend.
const (
	BackendCLI  = "cli"
	BackendHTTP = "http"
)

// Configuration validation errors.
var (
	ErrMissingDocsDir     = errors.New("docs_dir is required")
	ErrMissingExtension   = errors.New("extension is required")
	ErrMissingOutput      = errors.New("output is required")
	ErrInvalidWorkers     = errors.New("workers must be at least 1")
	ErrInvalidKeywords    = errors.New("keywords must be between 1 and 3")
	ErrInvalidIdleTimeout = errors.New("idle_timeout must be positive")
	ErrInvalidBackend     = errors.New("backend must be 'cli' or 'http'")
	ErrMissingCommand     = errors.New("command is required for the cli backend")
	ErrMissingAPIURL      = errors.New("api_url is required for the http backend")
	ErrInvalidLanguage    = errors.New("language must be one of: auto, zh, en")
)

// Config holds runtime configuration for an extraction run.
// Values come from an optional YAML file and are overridden by CLI flags.
type Config struct {
	DocsDir     string        `yaml:"docs_dir"`
	Extension   string        `yaml:"extension"`
	Output      string        `yaml:"output"`
	Summary     string        `yaml:"summary"`
	WorkerCount int           `yaml:"workers"`
	Keywords    int           `yaml:"keywords"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	Language    string        `yaml:"language"` // auto, zh, en

	Backend     string   `yaml:"backend"`
	Command     string   `yaml:"command"`
	CommandArgs []string `yaml:"command_args"`
	APIURL      string   `yaml:"api_url"`
	APIKey      string   `yaml:"api_key"`
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"max_tokens"`

	DBPath  string `yaml:"db_path"`
	History bool   `yaml:"history"`
}

// DefaultConfig returns the configuration used when no file or flag overrides a value.
func DefaultConfig() *Config {
	return &Config{
		DocsDir:     "blogs",
		Extension:   ".md",
		Output:      "result.csv",
		WorkerCount: 2,
		Keywords:    3,
		IdleTimeout: time.Second,
		Language:    "auto",
		Backend:     BackendCLI,
		Command:     "claude",
		CommandArgs: []string{"-p"},
		APIURL:      "https://api.anthropic.com/v1",
		APIKey:      os.Getenv("ANTHROPIC_API_KEY"),
		Model:       "claude-sonnet-4-5",
		MaxTokens:   256,
		DBPath:      "keyword-extractor.db",
		History:     true,
	}
}

// LoadConfig reads a YAML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DocsDir) == "" {
		return ErrMissingDocsDir
	}
	if c.Extension == "" {
		return ErrMissingExtension
	}
	if c.Output == "" {
		return ErrMissingOutput
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.WorkerCount)
	}
	if c.Keywords < 1 || c.Keywords > OutputColumns-1 {
		return fmt.Errorf("%w: got %d", ErrInvalidKeywords, c.Keywords)
	}
	if c.IdleTimeout <= 0 {
		return ErrInvalidIdleTimeout
	}

	switch c.Language {
	case "", "auto", "zh", "en":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLanguage, c.Language)
	}

	switch c.Backend {
	case BackendCLI:
		if c.Command == "" {
			return ErrMissingCommand
		}
	case BackendHTTP:
		if c.APIURL == "" {
			return ErrMissingAPIURL
		}
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidBackend, c.Backend)
	}

	return nil
}
