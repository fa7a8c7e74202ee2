package extract

import (
	"context"
	"fmt"

	"github.com/mvp-joe/project-atlas/internal/source"
)

// Default snippet caps per entity kind.
const (
	DefaultControllerSnippetLines = 18
	DefaultServiceSnippetLines    = 22
	DefaultFrontendSnippetLines   = 18
)

// Config is everything one extraction pass needs.
type Config struct {
	RootDir      string
	BackendRoot  string // relative to RootDir
	FrontendRoot string // relative to RootDir

	ControllerPatterns []string
	ServicePatterns    []string
	ServiceExclude     []string
	DtoPatterns        []string
	FrontendPatterns   []string
	IgnorePatterns     []string

	ControllerSnippetLines int
	ServiceSnippetLines    int
	FrontendSnippetLines   int

	Structure string // source.StrategyBraces or source.StrategyTreeSitter
}

// ProgressReporter receives extraction progress.
type ProgressReporter interface {
	OnDiscoveryComplete(total int)
	OnFileProcessed(path string)
}

// NoOpProgressReporter ignores every event.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnDiscoveryComplete(int) {}
func (NoOpProgressReporter) OnFileProcessed(string)  {}

// Cache remembers per-file extraction results keyed by kind, path and
// content.
type Cache interface {
	Lookup(kind, path, text string) (any, bool)
	Store(kind, path, text string, value any)
}

// Extractor runs the four extractors over the discovered files.
type Extractor struct {
	cfg       Config
	discovery *Discovery
	open      source.Opener
	progress  ProgressReporter
	cache     Cache
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithProgress sets the progress reporter.
func WithProgress(p ProgressReporter) Option {
	return func(e *Extractor) {
		if p != nil {
			e.progress = p
		}
	}
}

// WithCache sets a per-file result cache.
func WithCache(c Cache) Option {
	return func(e *Extractor) { e.cache = c }
}

// New creates an Extractor.
func New(cfg Config, opts ...Option) (*Extractor, error) {
	discovery, err := NewDiscovery(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to compile file patterns: %w", err)
	}
	open, err := source.OpenerFor(cfg.Structure)
	if err != nil {
		return nil, err
	}
	if cfg.ControllerSnippetLines <= 0 {
		cfg.ControllerSnippetLines = DefaultControllerSnippetLines
	}
	if cfg.ServiceSnippetLines <= 0 {
		cfg.ServiceSnippetLines = DefaultServiceSnippetLines
	}
	if cfg.FrontendSnippetLines <= 0 {
		cfg.FrontendSnippetLines = DefaultFrontendSnippetLines
	}

	e := &Extractor{
		cfg:       cfg,
		discovery: discovery,
		open:      open,
		progress:  NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run discovers and extracts every file. Any unreadable or mis-encoded file
// aborts the whole pass.
func (e *Extractor) Run(ctx context.Context) (*Result, error) {
	candidates, err := e.discovery.Discover()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	total := 0
	for _, kind := range Kinds {
		total += len(candidates[kind])
	}
	e.progress.OnDiscoveryComplete(total)

	result := &Result{
		Controllers:   []ControllerMeta{},
		Services:      []ServiceMeta{},
		DtoFiles:      []DtoFileMeta{},
		FrontendFiles: []FrontendFileMeta{},
	}

	for _, kind := range Kinds {
		for _, c := range candidates[kind] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			f, err := source.Read(c.AbsPath, c.RelPath)
			if err != nil {
				return nil, err
			}
			e.collect(result, kind, f)
			e.progress.OnFileProcessed(c.RelPath)
		}
	}
	return result, nil
}

// collect extracts one file and appends its record to the matching list.
// Files contributing nothing are dropped for DTO and frontend kinds.
func (e *Extractor) collect(result *Result, kind Kind, f *source.File) {
	v := e.extract(kind, f)
	switch rec := v.(type) {
	case ControllerMeta:
		result.Controllers = append(result.Controllers, rec)
	case ServiceMeta:
		result.Services = append(result.Services, rec)
	case DtoFileMeta:
		if len(rec.Classes) > 0 {
			result.DtoFiles = append(result.DtoFiles, rec)
		}
	case FrontendFileMeta:
		if len(rec.Exports) > 0 {
			result.FrontendFiles = append(result.FrontendFiles, rec)
		}
	}
}

func (e *Extractor) extract(kind Kind, f *source.File) any {
	if e.cache != nil {
		if v, ok := e.cache.Lookup(string(kind), f.Path, f.Text); ok {
			return v
		}
	}

	var v any
	switch kind {
	case KindController:
		v = ParseController(f, e.open(f), e.cfg.ControllerSnippetLines)
	case KindService:
		v = ParseService(f, e.open(f), e.cfg.ServiceSnippetLines)
	case KindDto:
		v = ParseDto(f)
	case KindFrontend:
		v = ParseFrontend(f, e.open(f), e.cfg.FrontendSnippetLines)
	}

	if e.cache != nil {
		e.cache.Store(string(kind), f.Path, f.Text, v)
	}
	return v
}
