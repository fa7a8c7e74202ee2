package config

import (
	"path/filepath"

	"github.com/mvp-joe/project-atlas/internal/extract"
	"github.com/mvp-joe/project-atlas/internal/modules"
)

// ToExtractConfig converts a Config to an extract.Config.
// The rootDir parameter specifies the project root the source roots are
// relative to.
func (c *Config) ToExtractConfig(rootDir string) extract.Config {
	return extract.Config{
		RootDir:                rootDir,
		BackendRoot:            filepath.ToSlash(c.Sources.BackendRoot),
		FrontendRoot:           filepath.ToSlash(c.Sources.FrontendRoot),
		ControllerPatterns:     c.Patterns.Controllers,
		ServicePatterns:        c.Patterns.Services,
		ServiceExclude:         c.Patterns.ServiceExclude,
		DtoPatterns:            c.Patterns.Dtos,
		FrontendPatterns:       c.Patterns.Frontend,
		IgnorePatterns:         c.Patterns.Ignore,
		ControllerSnippetLines: c.Snippets.ControllerLines,
		ServiceSnippetLines:    c.Snippets.ServiceLines,
		FrontendSnippetLines:   c.Snippets.FrontendLines,
		Structure:              c.Structure.Strategy,
	}
}

// Roots returns the source roots used for domain keys.
func (c *Config) Roots() modules.Roots {
	return modules.Roots{
		Backend:  filepath.ToSlash(c.Sources.BackendRoot),
		Frontend: filepath.ToSlash(c.Sources.FrontendRoot),
	}
}

// OutputPath resolves the JSON output path against rootDir.
func (c *Config) OutputPath(rootDir string) string {
	return resolvePath(rootDir, c.Output.Path)
}

// DatabasePath resolves the SQLite export path against rootDir.
func (c *Config) DatabasePath(rootDir string) string {
	return resolvePath(rootDir, c.Output.Database)
}

func resolvePath(rootDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rootDir, p)
}
