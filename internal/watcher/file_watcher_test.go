package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileWatcher:
// - Missing directories are skipped; all missing is ErrNoRoots
// - A single .ts change fires one batch after the debounce
// - Rapid changes across roots coalesce into one sorted, deduplicated batch
// - Other extensions never fire
// - New directories are watched; skipped directories are not
// - Removing a file is reported
// - Stop is idempotent and works without Start

const testDebounce = 100 * time.Millisecond

func testOptions() Options {
	opts := DefaultOptions()
	opts.Debounce = testDebounce
	return opts
}

func startWatcher(t *testing.T, dirs ...string) <-chan []string {
	t.Helper()
	fw, err := NewFileWatcher(dirs, testOptions())
	require.NoError(t, err)
	t.Cleanup(func() { fw.Stop() })

	batches := make(chan []string, 10)
	require.NoError(t, fw.Start(context.Background(), func(files []string) {
		batches <- files
	}))
	time.Sleep(50 * time.Millisecond)
	return batches
}

func nextBatch(t *testing.T, batches <-chan []string) []string {
	t.Helper()
	select {
	case files := <-batches:
		return files
	case <-time.After(3 * time.Second):
		t.Fatal("no batch before timeout")
		return nil
	}
}

func assertNoBatch(t *testing.T, batches <-chan []string) {
	t.Helper()
	select {
	case files := <-batches:
		t.Fatalf("unexpected batch: %v", files)
	case <-time.After(4 * testDebounce):
	}
}

func write(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("export class A {}\n"), 0644))
}

func TestNewFileWatcher_Roots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	fw, err := NewFileWatcher([]string{missing, dir}, testOptions())
	require.NoError(t, err)
	require.NoError(t, fw.Stop())

	fw, err = NewFileWatcher([]string{missing}, testOptions())
	assert.ErrorIs(t, err, ErrNoRoots)
	assert.Nil(t, fw)
}

func TestFileWatcher_SingleChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batches := startWatcher(t, dir)

	file := filepath.Join(dir, "customers.service.ts")
	write(t, file)

	assert.Equal(t, []string{file}, nextBatch(t, batches))
}

func TestFileWatcher_Coalesces(t *testing.T) {
	t.Parallel()

	backend := t.TempDir()
	frontend := t.TempDir()
	batches := startWatcher(t, backend, frontend)

	b := filepath.Join(backend, "b.controller.ts")
	a := filepath.Join(frontend, "A.tsx")
	write(t, b)
	write(t, a)
	write(t, b)

	files := nextBatch(t, batches)
	assert.ElementsMatch(t, []string{a, b}, files)
	assert.IsIncreasing(t, files)
	assertNoBatch(t, batches)
}

func TestFileWatcher_ExtensionFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batches := startWatcher(t, dir)

	write(t, filepath.Join(dir, "notes.md"))
	write(t, filepath.Join(dir, "main.go"))

	assertNoBatch(t, batches)
}

func TestFileWatcher_NewDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batches := startWatcher(t, dir)

	nested := filepath.Join(dir, "payments")
	skipped := filepath.Join(dir, "node_modules")
	require.NoError(t, os.Mkdir(nested, 0755))
	require.NoError(t, os.Mkdir(skipped, 0755))
	time.Sleep(50 * time.Millisecond)

	write(t, filepath.Join(skipped, "index.ts"))
	assertNoBatch(t, batches)

	file := filepath.Join(nested, "payments.service.ts")
	write(t, file)
	assert.Equal(t, []string{file}, nextBatch(t, batches))
}

func TestFileWatcher_Remove(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "old.dto.ts")
	write(t, file)
	batches := startWatcher(t, dir)

	require.NoError(t, os.Remove(file))
	assert.Contains(t, nextBatch(t, batches), file)
}

func TestFileWatcher_Stop(t *testing.T) {
	t.Parallel()

	fw, err := NewFileWatcher([]string{t.TempDir()}, testOptions())
	require.NoError(t, err)
	require.NoError(t, fw.Stop())
	require.NoError(t, fw.Stop())

	fw, err = NewFileWatcher([]string{t.TempDir()}, testOptions())
	require.NoError(t, err)
	require.NoError(t, fw.Start(context.Background(), func([]string) {}))
	require.NoError(t, fw.Stop())
	require.NoError(t, fw.Stop())
}
