package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - LoadConfig() uses defaults when no config file exists
// - LoadConfig() loads from .atlas/config.yml and .atlas/config.yaml
// - LoadConfig() merges a partial config file with defaults, domain labels included
// - Environment variables override config file values and defaults
// - LoadConfig() returns error for malformed YAML
// - LoadConfig() returns error for invalid configuration values
// - Validate() rejects empty roots, bad patterns, bad snippet limits, unknown strategies
// - Validate() returns multiple errors for multiple invalid fields
// - DomainLabel() falls back for unknown keys
// - ToExtractConfig() and path helpers carry every setting

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	tempDir := t.TempDir()
	atlasDir := filepath.Join(tempDir, DirName)
	require.NoError(t, os.MkdirAll(atlasDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(atlasDir, name), []byte(content), 0644))
	return tempDir
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	t.Parallel()

	cfg := Default()

	require.NotNil(t, cfg)
	assert.Equal(t, "api/src", cfg.Sources.BackendRoot)
	assert.Equal(t, "Web/src", cfg.Sources.FrontendRoot)
	assert.Equal(t, []string{"**/*controller.ts"}, cfg.Patterns.Controllers)
	assert.Equal(t, []string{"**/*service.ts"}, cfg.Patterns.Services)
	assert.Contains(t, cfg.Patterns.ServiceExclude, "**/*backup*")
	assert.Equal(t, []string{"**/*.dto.ts"}, cfg.Patterns.Dtos)
	assert.Equal(t, []string{"**/*.tsx"}, cfg.Patterns.Frontend)
	assert.Contains(t, cfg.Patterns.Ignore, "node_modules/**")
	assert.Equal(t, SnippetsConfig{ControllerLines: 18, ServiceLines: 22, FrontendLines: 18}, cfg.Snippets)
	assert.Equal(t, "braces", cfg.Structure.Strategy)
	assert.Equal(t, ".atlas/metadata.json", cfg.Output.Path)
	assert.Equal(t, ".atlas/metadata.db", cfg.Output.Database)
	assert.Len(t, cfg.Domains, 14)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader(t.TempDir()).Load()

	require.NoError(t, err)
	expected := Default()
	assert.Equal(t, expected.Sources, cfg.Sources)
	assert.Equal(t, expected.Patterns, cfg.Patterns)
	assert.Equal(t, expected.Snippets, cfg.Snippets)
	assert.Equal(t, expected.Domains, cfg.Domains)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, "config.yml", `
sources:
  backend_root: server/src
  frontend_root: client/src

patterns:
  controllers:
    - "**/*.controller.ts"
  dtos:
    - "**/dto/*.ts"

snippets:
  controller_lines: 10
  service_lines: 30
  frontend_lines: 5

structure:
  strategy: treesitter
`)

	cfg, err := NewLoader(dir).Load()

	require.NoError(t, err)
	assert.Equal(t, "server/src", cfg.Sources.BackendRoot)
	assert.Equal(t, "client/src", cfg.Sources.FrontendRoot)
	assert.Equal(t, []string{"**/*.controller.ts"}, cfg.Patterns.Controllers)
	assert.Equal(t, []string{"**/dto/*.ts"}, cfg.Patterns.Dtos)
	assert.Equal(t, []string{"**/*service.ts"}, cfg.Patterns.Services)
	assert.Equal(t, SnippetsConfig{ControllerLines: 10, ServiceLines: 30, FrontendLines: 5}, cfg.Snippets)
	assert.Equal(t, "treesitter", cfg.Structure.Strategy)
}

func TestLoadConfig_LoadsFromConfigYaml(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, "config.yaml", `
output:
  path: out/meta.json
`)

	cfg, err := NewLoader(dir).Load()

	require.NoError(t, err)
	assert.Equal(t, "out/meta.json", cfg.Output.Path)
	assert.Equal(t, ".atlas/metadata.db", cfg.Output.Database)
}

func TestLoadConfig_MergesDomainLabels(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, "config.yml", `
domains:
  payments:
    en: Billing
  work_orders:
    en: Work Orders
    ar: أوامر العمل
`)

	cfg, err := NewLoader(dir).Load()

	require.NoError(t, err)
	assert.Equal(t, "Billing", cfg.DomainLabel("payments", LangEnglish))
	assert.Equal(t, "المدفوعات", cfg.DomainLabel("payments", LangArabic))
	assert.Equal(t, "أوامر العمل", cfg.DomainLabel("work_orders", LangArabic))
	assert.Equal(t, "Customers", cfg.DomainLabel("customers", LangEnglish))
}

func TestLoadConfig_EnvironmentVariablesOverrideConfigFile(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()

	dir := writeConfig(t, "config.yml", `
sources:
  backend_root: file/src
structure:
  strategy: braces
`)

	t.Setenv("ATLAS_SOURCES_BACKEND_ROOT", "env/src")
	t.Setenv("ATLAS_STRUCTURE_STRATEGY", "treesitter")
	t.Setenv("ATLAS_SNIPPETS_SERVICE_LINES", "40")

	cfg, err := NewLoader(dir).Load()

	require.NoError(t, err)
	assert.Equal(t, "env/src", cfg.Sources.BackendRoot)
	assert.Equal(t, "treesitter", cfg.Structure.Strategy)
	assert.Equal(t, 40, cfg.Snippets.ServiceLines)
	assert.Equal(t, "Web/src", cfg.Sources.FrontendRoot)
}

func TestLoadConfig_ReturnsErrorForMalformedYAML(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, "config.yml", "sources:\n  backend_root: [unclosed\n")

	_, err := NewLoader(dir).Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_ReturnsErrorForInvalidValues(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, "config.yml", `
structure:
  strategy: regex
`)

	_, err := NewLoader(dir).Load()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidStrategy))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty backend root", func(c *Config) { c.Sources.BackendRoot = " " }, ErrEmptyRoot},
		{"empty frontend root", func(c *Config) { c.Sources.FrontendRoot = "" }, ErrEmptyRoot},
		{"bad pattern", func(c *Config) { c.Patterns.Dtos = []string{"[abc"} }, ErrInvalidPattern},
		{"zero snippet", func(c *Config) { c.Snippets.ServiceLines = 0 }, ErrInvalidSnippetLimit},
		{"negative snippet", func(c *Config) { c.Snippets.FrontendLines = -1 }, ErrInvalidSnippetLimit},
		{"unknown strategy", func(c *Config) { c.Structure.Strategy = "ast" }, ErrInvalidStrategy},
		{"empty output", func(c *Config) { c.Output.Path = "" }, ErrEmptyOutput},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -5 }, ErrInvalidDebounce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Sources.BackendRoot = ""
	cfg.Snippets.ControllerLines = 0
	cfg.Structure.Strategy = "x"

	err := Validate(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed:")
	assert.Contains(t, err.Error(), "backend_root is required")
	assert.Contains(t, err.Error(), "controller_lines must be positive")
	assert.Contains(t, err.Error(), "invalid structure strategy")
}

func TestDomainLabel_Fallback(t *testing.T) {
	t.Parallel()

	cfg := Default()

	assert.Equal(t, "Authentication", cfg.DomainLabel("auth", LangEnglish))
	assert.Equal(t, "المصادقة", cfg.DomainLabel("auth", LangArabic))
	assert.Equal(t, "Work Orders", cfg.DomainLabel("work_orders", LangEnglish))
	assert.Equal(t, "work_orders", cfg.DomainLabel("work_orders", LangArabic))
	assert.Equal(t, "Root", cfg.DomainLabel("root", LangEnglish))

	labels := cfg.Labels([]string{"auth", "root"})
	assert.Equal(t, DomainLabel{En: "Root", Ar: "root"}, labels["root"])
	assert.Contains(t, cfg.Domains, "analytics")
}

func TestToExtractConfig(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Structure.Strategy = "treesitter"

	ec := cfg.ToExtractConfig("/repo")

	assert.Equal(t, "/repo", ec.RootDir)
	assert.Equal(t, "api/src", ec.BackendRoot)
	assert.Equal(t, "Web/src", ec.FrontendRoot)
	assert.Equal(t, cfg.Patterns.Controllers, ec.ControllerPatterns)
	assert.Equal(t, cfg.Patterns.ServiceExclude, ec.ServiceExclude)
	assert.Equal(t, cfg.Patterns.Ignore, ec.IgnorePatterns)
	assert.Equal(t, 22, ec.ServiceSnippetLines)
	assert.Equal(t, "treesitter", ec.Structure)

	assert.Equal(t, "api/src", cfg.Roots().Backend)
	assert.Equal(t, filepath.Join("/repo", ".atlas", "metadata.json"), cfg.OutputPath("/repo"))
	assert.Equal(t, "/abs/out.db", resolvePath("/repo", "/abs/out.db"))
}
