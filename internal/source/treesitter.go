package source

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// treeSitterSource answers span queries from the TypeScript syntax tree.
// For every row it records the furthest end row of a block whose opening
// brace sits on that row.
type treeSitterSource struct {
	lines     []string
	blockEnds map[int]int
}

// TreeSitter opens a syntax-tree backed structural source. Headers with no
// block opening on them fall back to brace counting.
func TreeSitter(f *File) StructuralSource {
	lang := typescript.LanguageTypescript()
	if strings.HasSuffix(f.Path, ".tsx") {
		lang = typescript.LanguageTSX()
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(sitter.NewLanguage(lang))

	tree := parser.Parse([]byte(f.Text), nil)
	if tree == nil {
		return BraceCounting(f)
	}
	defer tree.Close()

	ts := &treeSitterSource{
		lines:     f.Lines,
		blockEnds: make(map[int]int),
	}
	walkTree(tree.RootNode(), func(n *sitter.Node) {
		if n.Kind() != "{" {
			return
		}
		parent := n.Parent()
		if parent == nil {
			return
		}
		row := int(n.StartPosition().Row)
		end := int(parent.EndPosition().Row)
		if cur, ok := ts.blockEnds[row]; !ok || end > cur {
			ts.blockEnds[row] = end
		}
	})
	return ts
}

func (ts *treeSitterSource) Span(start, header int) Span {
	if header < 1 {
		header = 1
	}
	end := -1
	for row := start; row < start+header; row++ {
		if e, ok := ts.blockEnds[row]; ok && e > end {
			end = e
		}
	}
	if end < 0 {
		return ScanBraceSpanN(ts.lines, start, header)
	}

	cursor := end + 1
	if floor := start + header; cursor < floor {
		cursor = floor
	}
	if cursor > len(ts.lines) {
		cursor = len(ts.lines)
	}
	if start >= cursor {
		return ScanBraceSpanN(ts.lines, start, header)
	}
	return Span{
		StartLine: start + 1,
		EndLine:   cursor,
		Lines:     ts.lines[start:cursor],
	}
}

func walkTree(node *sitter.Node, visit func(*sitter.Node)) {
	if node == nil {
		return
	}
	visit(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visit)
	}
}
