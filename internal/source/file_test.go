package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for File:
// - SplitLines handles \n, \r\n and a trailing newline
// - Read loads valid UTF-8 files with a slash-separated identity
// - Read rejects invalid UTF-8 with ErrInvalidEncoding
// - Read surfaces missing files as errors
// - LineOf maps byte offsets to 1-based lines

func TestSplitLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{}, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb"))
}

func TestRead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("class A {\n}\n"), 0644))

	f, err := Read(path, "src/a.ts")
	require.NoError(t, err)
	assert.Equal(t, "src/a.ts", f.Path)
	assert.Equal(t, 2, f.LineCount())
}

func TestRead_InvalidEncoding(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.ts")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 'a'}, 0644))

	_, err := Read(path, "bad.ts")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidEncoding))
}

func TestRead_Missing(t *testing.T) {
	t.Parallel()

	_, err := Read(filepath.Join(t.TempDir(), "nope.ts"), "nope.ts")
	assert.Error(t, err)
}

func TestFile_LineOf(t *testing.T) {
	t.Parallel()

	f := NewFile("x.ts", "a\nbb\nccc")

	assert.Equal(t, 1, f.LineOf(0))
	assert.Equal(t, 2, f.LineOf(2))
	assert.Equal(t, 3, f.LineOf(5))
	assert.Equal(t, 3, f.LineOf(100))
}
