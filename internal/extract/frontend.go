package extract

import (
	"regexp"
	"strings"

	"github.com/mvp-joe/project-atlas/internal/source"
)

// export [default] function|const|class Name ... {
var reFrontendExport = regexp.MustCompile(`(export\s+(default\s+)?(?:function|const|class)\s+(\w+)[^{;]*\{)`)

// ParseFrontend extracts exported declarations whose signature opens a
// block.
func ParseFrontend(f *source.File, ss source.StructuralSource, snippetLines int) FrontendFileMeta {
	meta := FrontendFileMeta{File: f.Path, Exports: []FrontendExport{}}

	for _, m := range reFrontendExport.FindAllStringSubmatchIndex(f.Text, -1) {
		signature := f.Text[m[2]:m[3]]
		name := f.Text[m[6]:m[7]]
		kind := ExportNamed
		if m[4] >= 0 {
			kind = ExportDefault
		}

		startLine := f.LineOf(m[2])
		headerEnd := f.LineOf(m[3] - 1)
		span := ss.Span(startLine-1, headerEnd-startLine+1)

		meta.Exports = append(meta.Exports, FrontendExport{
			Name:      name,
			Kind:      kind,
			Signature: strings.TrimSpace(signature),
			StartLine: span.StartLine,
			EndLine:   span.EndLine,
			Snippet:   span.Snippet(snippetLines),
		})
	}
	return meta
}
