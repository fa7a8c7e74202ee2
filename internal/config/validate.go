package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/mvp-joe/project-atlas/internal/source"
)

var (
	// ErrEmptyRoot indicates a missing source root
	ErrEmptyRoot = errors.New("empty source root")

	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid file pattern")

	// ErrInvalidSnippetLimit indicates a non-positive snippet cap
	ErrInvalidSnippetLimit = errors.New("invalid snippet limit")

	// ErrInvalidStrategy indicates an unknown structure strategy
	ErrInvalidStrategy = errors.New("invalid structure strategy")

	// ErrEmptyOutput indicates a missing output path
	ErrEmptyOutput = errors.New("empty output path")

	// ErrInvalidDebounce indicates a negative watch debounce
	ErrInvalidDebounce = errors.New("invalid watch debounce")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateSources(&cfg.Sources); err != nil {
		errs = append(errs, err)
	}

	if err := validatePatterns(&cfg.Patterns); err != nil {
		errs = append(errs, err)
	}

	if err := validateSnippets(&cfg.Snippets); err != nil {
		errs = append(errs, err)
	}

	switch cfg.Structure.Strategy {
	case source.StrategyBraces, source.StrategyTreeSitter:
	default:
		errs = append(errs, fmt.Errorf("%w: must be '%s' or '%s', got '%s'",
			ErrInvalidStrategy, source.StrategyBraces, source.StrategyTreeSitter, cfg.Structure.Strategy))
	}

	if strings.TrimSpace(cfg.Output.Path) == "" {
		errs = append(errs, fmt.Errorf("%w: output.path is required", ErrEmptyOutput))
	}
	if strings.TrimSpace(cfg.Output.Database) == "" {
		errs = append(errs, fmt.Errorf("%w: output.database is required", ErrEmptyOutput))
	}

	if cfg.Watch.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidDebounce, cfg.Watch.DebounceMs))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateSources(cfg *SourcesConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.BackendRoot) == "" {
		errs = append(errs, fmt.Errorf("%w: backend_root is required", ErrEmptyRoot))
	}
	if strings.TrimSpace(cfg.FrontendRoot) == "" {
		errs = append(errs, fmt.Errorf("%w: frontend_root is required", ErrEmptyRoot))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePatterns(cfg *PatternsConfig) error {
	var errs []error

	groups := []struct {
		name     string
		patterns []string
	}{
		{"controllers", cfg.Controllers},
		{"services", cfg.Services},
		{"service_exclude", cfg.ServiceExclude},
		{"dtos", cfg.Dtos},
		{"frontend", cfg.Frontend},
		{"ignore", cfg.Ignore},
	}
	for _, g := range groups {
		for _, p := range g.patterns {
			if _, err := glob.Compile(p, '/'); err != nil {
				errs = append(errs, fmt.Errorf("%w: %s pattern %q: %v", ErrInvalidPattern, g.name, p, err))
			}
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateSnippets(cfg *SnippetsConfig) error {
	var errs []error

	limits := []struct {
		name  string
		value int
	}{
		{"controller_lines", cfg.ControllerLines},
		{"service_lines", cfg.ServiceLines},
		{"frontend_lines", cfg.FrontendLines},
	}
	for _, l := range limits {
		if l.value <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidSnippetLimit, l.name, l.value))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
