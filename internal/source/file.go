// Package source holds the line-oriented view of a source file that every
// extractor works from, plus the two structural helpers shared by all of
// them: the brace-span scanner and the decorator accumulator.
//
// Nothing here builds a syntax tree. Block boundaries are approximated by
// counting braces, which is good enough for the decorator-heavy TypeScript
// the extractors target and degrades predictably on anything else.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrInvalidEncoding is returned when a file is not valid UTF-8.
var ErrInvalidEncoding = errors.New("invalid utf-8 encoding")

// File is a source file read fully into memory.
type File struct {
	Path  string   // project-relative path with forward slashes
	Text  string   // full content
	Lines []string // content split on line breaks, without terminators
}

// Read loads a file from disk. absPath is opened; relPath is recorded as
// the file's identity. Unreadable or mis-encoded content is an error.
func Read(absPath, relPath string) (*File, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", relPath, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("failed to decode %s: %w", relPath, ErrInvalidEncoding)
	}
	return NewFile(relPath, string(data)), nil
}

// NewFile builds a File from in-memory text.
func NewFile(relPath, text string) *File {
	return &File{
		Path:  filepath.ToSlash(relPath),
		Text:  text,
		Lines: SplitLines(text),
	}
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.Lines)
}

// LineOf returns the 1-based line number containing byte offset off.
func (f *File) LineOf(off int) int {
	if off > len(f.Text) {
		off = len(f.Text)
	}
	return 1 + strings.Count(f.Text[:off], "\n")
}

// SplitLines splits text on \n, \r\n and \r. A trailing line break does not
// produce an empty final line.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
