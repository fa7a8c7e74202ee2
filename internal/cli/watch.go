package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mvp-joe/project-atlas/internal/analyzer"
	"github.com/mvp-joe/project-atlas/internal/cache"
	"github.com/mvp-joe/project-atlas/internal/extract"
	"github.com/mvp-joe/project-atlas/internal/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rescan whenever backend or frontend sources change",
	Long: `Watch performs an initial scan, then watches both source roots for
.ts and .tsx changes. After a quiet period (watch.debounce_ms) it re-analyzes
the project, reusing cached results for unchanged files, and rewrites the
JSON document. A failed pass is logged and the previous document is kept.

Press Ctrl+C to stop.
`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	p, err := loadProject(projectDir)
	if err != nil {
		return err
	}
	live, err := newLiveAnalysis(p)
	if err != nil {
		return err
	}
	defer live.close()

	out := cmd.OutOrStdout()
	output := p.cfg.OutputPath(p.rootDir)
	publish := func(snap *analyzer.Snapshot) error {
		if err := writeDocument(output, p.newDocument(snap)); err != nil {
			return err
		}
		if !quietFlag {
			printSummary(out, snap, output)
		}
		return nil
	}

	snap, err := live.analyze(ctx)
	if err != nil {
		return fmt.Errorf("initial analysis failed: %w", err)
	}
	if err := publish(snap); err != nil {
		return err
	}

	if !quietFlag {
		log.Println("Watching for changes (Ctrl+C to stop)...")
	}
	err = live.watch(ctx, publish)
	if !quietFlag {
		log.Println("Watch mode stopped")
	}
	return err
}

// liveAnalysis re-analyzes a project on change, reusing cached per-file
// results.
type liveAnalysis struct {
	p     *project
	cache *cache.ParseCache
}

func newLiveAnalysis(p *project) (*liveAnalysis, error) {
	pc, err := cache.New(cache.DefaultCapacity)
	if err != nil {
		return nil, err
	}
	return &liveAnalysis{p: p, cache: pc}, nil
}

func (l *liveAnalysis) analyze(ctx context.Context) (*analyzer.Snapshot, error) {
	return l.p.analyze(ctx, extract.WithCache(l.cache))
}

// forgetRemoved drops cached results of changed paths that no longer exist.
func (l *liveAnalysis) forgetRemoved(files []string) {
	kinds := make([]string, len(extract.Kinds))
	for i, k := range extract.Kinds {
		kinds[i] = string(k)
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			continue
		}
		rel, err := filepath.Rel(l.p.rootDir, f)
		if err != nil {
			continue
		}
		l.cache.Forget(filepath.ToSlash(rel), kinds...)
	}
}

// refresh handles one batch of changed files. A failed pass is logged and
// publish is not called.
func (l *liveAnalysis) refresh(ctx context.Context, files []string, publish func(*analyzer.Snapshot) error) {
	start := time.Now()
	l.forgetRemoved(files)

	snap, err := l.analyze(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("Analysis failed, keeping previous result: %v", err)
		}
		return
	}
	if err := publish(snap); err != nil {
		log.Printf("Failed to publish analysis: %v", err)
		return
	}
	hits, misses := l.cache.Stats()
	log.Printf("Re-analyzed after %d changed files in %s (cache hits %d, misses %d)",
		len(files), time.Since(start).Round(time.Millisecond), hits, misses)
}

// watch blocks until ctx is done, refreshing on every debounced batch.
func (l *liveAnalysis) watch(ctx context.Context, publish func(*analyzer.Snapshot) error) error {
	opts := watcher.DefaultOptions()
	opts.Debounce = time.Duration(l.p.cfg.Watch.DebounceMs) * time.Millisecond

	fw, err := watcher.NewFileWatcher(l.p.sourceDirs(), opts)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer fw.Stop()

	if err := fw.Start(ctx, func(files []string) {
		l.refresh(ctx, files, publish)
	}); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	<-ctx.Done()
	return nil
}

func (l *liveAnalysis) close() {
	l.cache.Close()
}
