// Package cache keeps per-file extraction results between analysis passes
// so that watch mode only re-parses files whose content changed.
package cache

import (
	"fmt"

	"github.com/maypok86/otter"
	"github.com/zeebo/xxh3"
)

// DefaultCapacity bounds the number of cached files.
const DefaultCapacity = 10_000

type entry struct {
	hash  uint64
	value any
}

// ParseCache is an in-memory, size-bounded cache of extraction results
// keyed by kind and path and validated by a content hash.
type ParseCache struct {
	cache otter.Cache[string, entry]
}

// New creates a ParseCache holding at most capacity files.
func New(capacity int) (*ParseCache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c, err := otter.MustBuilder[string, entry](capacity).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build parse cache: %w", err)
	}
	return &ParseCache{cache: c}, nil
}

func key(kind, path string) string {
	return kind + "\x00" + path
}

// Lookup returns the cached result for a file when its content is
// unchanged since it was stored.
func (p *ParseCache) Lookup(kind, path, text string) (any, bool) {
	e, ok := p.cache.Get(key(kind, path))
	if !ok || e.hash != xxh3.HashString(text) {
		return nil, false
	}
	return e.value, true
}

// Store records the result for a file's current content.
func (p *ParseCache) Store(kind, path, text string, value any) {
	p.cache.Set(key(kind, path), entry{hash: xxh3.HashString(text), value: value})
}

// Forget drops the cached results of the given kinds for path.
func (p *ParseCache) Forget(path string, kinds ...string) {
	for _, kind := range kinds {
		p.cache.Delete(key(kind, path))
	}
}

// Len returns the number of cached files.
func (p *ParseCache) Len() int {
	return p.cache.Size()
}

// Stats returns hit and miss counts since creation.
func (p *ParseCache) Stats() (hits, misses int64) {
	s := p.cache.Stats()
	return s.Hits(), s.Misses()
}

// Close releases the cache.
func (p *ParseCache) Close() {
	p.cache.Close()
}
