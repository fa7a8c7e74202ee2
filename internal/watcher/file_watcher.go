package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNoRoots is returned when none of the requested directories exist.
var ErrNoRoots = errors.New("no watchable directories")

type fileWatcher struct {
	watcher    *fsnotify.Watcher
	extensions map[string]bool
	skipDirs   map[string]bool
	debounce   time.Duration
	callback   func(files []string)
	cancel     context.CancelFunc

	pendingMu sync.Mutex
	pending   map[string]bool

	timerMu sync.Mutex
	timer   *time.Timer

	stopOnce sync.Once
	doneCh   chan struct{}
}

// NewFileWatcher watches dirs recursively. Directories that do not exist
// are skipped; at least one must exist.
func NewFileWatcher(dirs []string, opts Options) (FileWatcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultOptions().Debounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	fw := &fileWatcher{
		watcher:    w,
		extensions: toSet(opts.Extensions),
		skipDirs:   toSet(opts.SkipDirs),
		debounce:   opts.Debounce,
		pending:    make(map[string]bool),
		doneCh:     make(chan struct{}),
	}

	watched := 0
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			log.Printf("Warning: not watching %s: directory not found", dir)
			continue
		}
		if err := fw.addTree(dir); err != nil {
			w.Close()
			return nil, err
		}
		watched++
	}
	if watched == 0 {
		w.Close()
		return nil, fmt.Errorf("%w: %v", ErrNoRoots, dirs)
	}
	return fw, nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func (fw *fileWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return errors.New("callback is required")
	}
	fw.callback = callback

	var watchCtx context.Context
	watchCtx, fw.cancel = context.WithCancel(ctx)
	go fw.watch(watchCtx)
	return nil
}

func (fw *fileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		if fw.cancel != nil {
			fw.cancel()
			<-fw.doneCh
		}
		err = fw.watcher.Close()
	})
	return err
}

func (fw *fileWatcher) watch(ctx context.Context) {
	defer close(fw.doneCh)

	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			fw.stopTimer()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !fw.skipDirs[info.Name()] {
						if err := fw.addTree(event.Name); err != nil {
							log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
						}
					}
					continue
				}
			}
			if !fw.relevant(event) {
				continue
			}
			fw.pendingMu.Lock()
			fw.pending[event.Name] = true
			fw.pendingMu.Unlock()
			fw.resetTimer(fire)

		case <-fire:
			if files := fw.drain(); len(files) > 0 {
				fw.callback(files)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// drain returns and clears the pending paths, sorted.
func (fw *fileWatcher) drain() []string {
	fw.pendingMu.Lock()
	defer fw.pendingMu.Unlock()

	files := make([]string, 0, len(fw.pending))
	for f := range fw.pending {
		files = append(files, f)
	}
	fw.pending = make(map[string]bool)
	sort.Strings(files)
	return files
}

func (fw *fileWatcher) resetTimer(fire chan<- struct{}) {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (fw *fileWatcher) stopTimer() {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.timer != nil {
		fw.timer.Stop()
		fw.timer = nil
	}
}

// relevant reports whether event touches a monitored source file.
func (fw *fileWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return fw.extensions[filepath.Ext(event.Name)]
}

// addTree watches root and every directory below it, except skipped ones.
func (fw *fileWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && fw.skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
