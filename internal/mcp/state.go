package mcp

import (
	"context"
	"sync"

	"github.com/mvp-joe/project-atlas/internal/analyzer"
	"github.com/mvp-joe/project-atlas/internal/search"
)

// Labeler supplies domain display labels.
type Labeler interface {
	DomainLabel(key, lang string) string
}

// state holds the snapshot the tools answer from. Update swaps it
// atomically with respect to tool calls.
type state struct {
	mu     sync.RWMutex
	snap   *analyzer.Snapshot
	index  *search.Index
	labels Labeler
}

func newState(ctx context.Context, snap *analyzer.Snapshot, labels Labeler) (*state, error) {
	index, err := search.NewIndex(ctx, snap)
	if err != nil {
		return nil, err
	}
	return &state{snap: snap, index: index, labels: labels}, nil
}

func (s *state) snapshot() *analyzer.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *state) update(ctx context.Context, snap *analyzer.Snapshot) error {
	if err := s.index.Rebuild(ctx, snap); err != nil {
		return err
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return nil
}

func (s *state) label(key, lang string) string {
	if s.labels == nil {
		return key
	}
	return s.labels.DomainLabel(key, lang)
}

func (s *state) close() error {
	return s.index.Close()
}
