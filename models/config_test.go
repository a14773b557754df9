package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644), "failed to create temp config file")

	return configPath
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := createTempConfigFile(t, `
docs_dir: posts
workers: 4
idle_timeout: 250ms
backend: http
api_url: http://localhost:9999/v1
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "posts", cfg.DocsDir)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 250*time.Millisecond, cfg.IdleTimeout)
	assert.Equal(t, BackendHTTP, cfg.Backend)
	// Untouched values keep their defaults.
	assert.Equal(t, ".md", cfg.Extension)
	assert.Equal(t, 3, cfg.Keywords)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "missing file")

	_, err = LoadConfig(createTempConfigFile(t, "workers: [not, a, number]"))
	assert.Error(t, err, "invalid YAML")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "zero workers", mutate: func(c *Config) { c.WorkerCount = 0 }, wantErr: ErrInvalidWorkers},
		{name: "too many keywords", mutate: func(c *Config) { c.Keywords = 4 }, wantErr: ErrInvalidKeywords},
		{name: "no keywords", mutate: func(c *Config) { c.Keywords = 0 }, wantErr: ErrInvalidKeywords},
		{name: "empty docs dir", mutate: func(c *Config) { c.DocsDir = " " }, wantErr: ErrMissingDocsDir},
		{name: "empty extension", mutate: func(c *Config) { c.Extension = "" }, wantErr: ErrMissingExtension},
		{name: "empty output", mutate: func(c *Config) { c.Output = "" }, wantErr: ErrMissingOutput},
		{name: "zero idle timeout", mutate: func(c *Config) { c.IdleTimeout = 0 }, wantErr: ErrInvalidIdleTimeout},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "grpc" }, wantErr: ErrInvalidBackend},
		{name: "cli without command", mutate: func(c *Config) { c.Command = "" }, wantErr: ErrMissingCommand},
		{name: "http without url", mutate: func(c *Config) {
			c.Backend = BackendHTTP
			c.APIURL = ""
		}, wantErr: ErrMissingAPIURL},
		{name: "unknown language", mutate: func(c *Config) { c.Language = "fr" }, wantErr: ErrInvalidLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOutputRecord(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		want     []string
	}{
		{name: "three keywords", keywords: []string{"x", "y", "z"}, want: []string{"a.md", "x", "y", "z"}},
		{name: "one keyword", keywords: []string{"x"}, want: []string{"a.md", "x", "", ""}},
		{name: "none", keywords: nil, want: []string{"a.md", "", "", ""}},
		{name: "extra truncated", keywords: []string{"1", "2", "3", "4"}, want: []string{"a.md", "1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractionResult{Document: "a.md", Keywords: tt.keywords}.OutputRecord()
			assert.Len(t, got, OutputColumns)
			assert.Equal(t, tt.want, got)
		})
	}
}
