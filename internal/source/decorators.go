package source

import "strings"

// DecoratorMarker starts every annotation line.
const DecoratorMarker = "@"

// IsDecoratorLine reports whether a trimmed line is an annotation line.
func IsDecoratorLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, DecoratorMarker)
}

// DecoratorAccumulator collects consecutive annotation lines that precede a
// declaration.
//
// Callers feed it every trimmed line in order:
//   - annotation lines are collected (Collect)
//   - a declaration takes the pending list (Take)
//   - any other non-blank line clears it (Observe)
//
// Blank lines leave the pending list alone. Anything else between an
// annotation block and its declaration, comments included, drops the
// association. That is a known approximation of the line-based approach.
type DecoratorAccumulator struct {
	pending []string
}

// Collect appends trimmed to the pending list if it is an annotation line
// and reports whether it did.
func (a *DecoratorAccumulator) Collect(trimmed string) bool {
	if !IsDecoratorLine(trimmed) {
		return false
	}
	a.pending = append(a.pending, trimmed)
	return true
}

// Observe handles a line that is neither an annotation nor a declaration.
// Non-blank lines reset the pending list.
func (a *DecoratorAccumulator) Observe(trimmed string) {
	if trimmed != "" {
		a.pending = nil
	}
}

// Pending reports how many annotations are waiting for a declaration.
func (a *DecoratorAccumulator) Pending() int {
	return len(a.pending)
}

// Take returns the pending annotations and clears the list. The result is
// never nil.
func (a *DecoratorAccumulator) Take() []string {
	out := make([]string, len(a.pending))
	copy(out, a.pending)
	a.pending = nil
	return out
}

// Reset clears the pending list.
func (a *DecoratorAccumulator) Reset() {
	a.pending = nil
}
