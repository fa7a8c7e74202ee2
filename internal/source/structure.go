package source

import "fmt"

// StructuralSource locates block boundaries inside one file. The default
// implementation counts braces; a syntax-aware implementation can replace
// it without the extractors noticing.
type StructuralSource interface {
	// Span returns the block whose header occupies header lines starting at
	// the 0-based line index start.
	Span(start, header int) Span
}

// Opener builds a StructuralSource for a file.
type Opener func(f *File) StructuralSource

// Structure strategies accepted by OpenerFor.
const (
	StrategyBraces     = "braces"
	StrategyTreeSitter = "treesitter"
)

// OpenerFor returns the opener for a configured strategy name.
func OpenerFor(strategy string) (Opener, error) {
	switch strategy {
	case "", StrategyBraces:
		return BraceCounting, nil
	case StrategyTreeSitter:
		return TreeSitter, nil
	default:
		return nil, fmt.Errorf("unknown structure strategy: %s", strategy)
	}
}

type braceSource struct {
	lines []string
}

// BraceCounting opens the brace-counting structural source.
func BraceCounting(f *File) StructuralSource {
	return braceSource{lines: f.Lines}
}

func (b braceSource) Span(start, header int) Span {
	return ScanBraceSpanN(b.lines, start, header)
}
