// Package watcher reports debounced batches of changed TypeScript sources.
package watcher

import (
	"context"
	"time"
)

// FileWatcher monitors source trees and reports changed files in batches.
type FileWatcher interface {
	// Start begins watching, calling callback with each debounced batch of
	// changed paths, sorted. Callbacks run on the watch goroutine, so
	// events arriving during a callback form the next batch.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops watching and waits for the watch goroutine to exit.
	Stop() error
}

// Options configures a FileWatcher.
type Options struct {
	// Extensions lists the monitored file extensions.
	Extensions []string
	// Debounce is the quiet period before a batch fires.
	Debounce time.Duration
	// SkipDirs names directories never descended into.
	SkipDirs []string
}

// DefaultOptions watches .ts and .tsx sources.
func DefaultOptions() Options {
	return Options{
		Extensions: []string{".ts", ".tsx"},
		Debounce:   500 * time.Millisecond,
		SkipDirs:   []string{"node_modules", ".git", "dist", ".next", "coverage"},
	}
}
