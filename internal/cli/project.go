package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mvp-joe/project-atlas/internal/analyzer"
	"github.com/mvp-joe/project-atlas/internal/config"
	"github.com/mvp-joe/project-atlas/internal/extract"
)

// project is a loaded project directory.
type project struct {
	rootDir string
	cfg     *config.Config
}

// loadProject resolves dir (the working directory when empty) and loads
// its configuration.
func loadProject(dir string) (*project, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	rootDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &project{rootDir: rootDir, cfg: cfg}, nil
}

// analyze runs one full pass over the project.
func (p *project) analyze(ctx context.Context, opts ...extract.Option) (*analyzer.Snapshot, error) {
	return analyzer.New(p.cfg.ToExtractConfig(p.rootDir), opts...).Analyze(ctx)
}

// sourceDirs returns the absolute backend and frontend roots.
func (p *project) sourceDirs() []string {
	return []string{
		filepath.Join(p.rootDir, filepath.FromSlash(p.cfg.Sources.BackendRoot)),
		filepath.Join(p.rootDir, filepath.FromSlash(p.cfg.Sources.FrontendRoot)),
	}
}

// Document is the JSON output of a scan.
type Document struct {
	RunID       string                        `json:"run_id"`
	GeneratedAt time.Time                     `json:"generated_at"`
	Snapshot    *analyzer.Snapshot            `json:"snapshot"`
	Labels      map[string]config.DomainLabel `json:"labels"`
}

// newDocument wraps snap with a fresh run id and the labels of its modules.
func (p *project) newDocument(snap *analyzer.Snapshot) *Document {
	return &Document{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Snapshot:    snap,
		Labels:      p.cfg.Labels(snap.Modules.Keys()),
	}
}

// writeDocument writes doc to path through a temp file in the same
// directory, so readers never see a partial document.
func writeDocument(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// signalContext returns a context cancelled on interrupt or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
