package source

import "strings"

// Span is a block of lines found by a structural source.
//
// StartLine and EndLine are 1-based and inclusive. EndLine is also the
// exclusive 0-based cursor where the scan stopped, so EndLine >= StartLine
// always holds.
type Span struct {
	StartLine int
	EndLine   int
	Lines     []string
}

// Text joins every scanned line.
func (s Span) Text() string {
	return strings.Join(s.Lines, "\n")
}

// Snippet joins at most max lines of the span. The cap only affects the
// returned text, never EndLine.
func (s Span) Snippet(max int) string {
	if max <= 0 || len(s.Lines) <= max {
		return s.Text()
	}
	return strings.Join(s.Lines[:max], "\n")
}

// NetBraceDelta returns count('{') - count('}') for a line.
func NetBraceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}

// ScanBraceSpan scans the block whose header is lines[start].
func ScanBraceSpan(lines []string, start int) Span {
	return ScanBraceSpanN(lines, start, 1)
}

// ScanBraceSpanN scans a block whose header occupies header lines beginning
// at lines[start]. The net brace delta of the header is accumulated, then
// following lines are consumed until the delta returns to zero. Running off
// the end of the file ends the scan; the caller gets whatever was scanned.
func ScanBraceSpanN(lines []string, start, header int) Span {
	if start < 0 || start >= len(lines) {
		return Span{StartLine: start + 1, EndLine: start + 1}
	}
	if header < 1 {
		header = 1
	}
	cursor := start + header
	if cursor > len(lines) {
		cursor = len(lines)
	}

	depth := 0
	for _, line := range lines[start:cursor] {
		depth += NetBraceDelta(line)
	}
	for depth > 0 && cursor < len(lines) {
		depth += NetBraceDelta(lines[cursor])
		cursor++
	}

	return Span{
		StartLine: start + 1,
		EndLine:   cursor,
		Lines:     lines[start:cursor],
	}
}
