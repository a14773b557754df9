// Package common holds helpers shared by the CLI actions.
package common

import (
	"fmt"

	"github.com/dtnitsch/keyword-extractor/models"
	"github.com/dtnitsch/keyword-extractor/pkg/extractor"
	"github.com/urfave/cli/v2"
)

// LoadConfig reads --config when given, applies every flag the user set on
// top of it and validates the result.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg := models.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyFlags(c, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyFlags(c *cli.Context, cfg *models.Config) {
	if c.IsSet("docs-dir") {
		cfg.DocsDir = c.String("docs-dir")
	}
	if c.IsSet("ext") {
		cfg.Extension = c.String("ext")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("summary") {
		cfg.Summary = c.String("summary")
	}
	if c.IsSet("workers") {
		cfg.WorkerCount = c.Int("workers")
	}
	if c.IsSet("keywords") {
		cfg.Keywords = c.Int("keywords")
	}
	if c.IsSet("idle-timeout") {
		cfg.IdleTimeout = c.Duration("idle-timeout")
	}
	if c.IsSet("language") {
		cfg.Language = c.String("language")
	}
	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if c.IsSet("command") {
		cfg.Command = c.String("command")
	}
	if c.IsSet("command-arg") {
		cfg.CommandArgs = c.StringSlice("command-arg")
	}
	if c.IsSet("api-url") {
		cfg.APIURL = c.String("api-url")
	}
	if c.IsSet("api-key") {
		cfg.APIKey = c.String("api-key")
	}
	if c.IsSet("model") {
		cfg.Model = c.String("model")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("no-history") {
		cfg.History = !c.Bool("no-history")
	}
}

// NewService builds the extraction backend selected by cfg.
func NewService(cfg *models.Config) extractor.Service {
	if cfg.Backend == models.BackendHTTP {
		return extractor.NewHTTPService(cfg.APIURL, cfg.APIKey, cfg.Model, cfg.MaxTokens)
	}
	return extractor.NewCLIService(cfg.Command, cfg.CommandArgs...)
}
