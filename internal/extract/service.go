package extract

import (
	"strings"

	"github.com/mvp-joe/project-atlas/internal/source"
)

// reservedCallShapes are control-flow keywords that look like calls.
var reservedCallShapes = map[string]bool{
	"if":     true,
	"for":    true,
	"while":  true,
	"switch": true,
	"catch":  true,
	"else":   true,
}

// ParseService extracts service metadata from one file. Every method-shaped
// line counts, decorated or not, except the constructor and control-flow
// keywords.
func ParseService(f *source.File, ss source.StructuralSource, snippetLines int) ServiceMeta {
	meta := ServiceMeta{
		File:     f.Path,
		Name:     classNameOf(f.Path, f.Text),
		Injected: parseInjections(f.Text),
		Methods:  []ServiceMethodMeta{},
	}

	for idx, line := range f.Lines {
		name, params, ok := matchMethod(strings.TrimSpace(line))
		if !ok || name == "constructor" || reservedCallShapes[name] {
			continue
		}
		span := ss.Span(idx, 1)
		meta.Methods = append(meta.Methods, ServiceMethodMeta{
			Name:      name,
			Params:    params,
			StartLine: span.StartLine,
			EndLine:   span.EndLine,
			Snippet:   span.Snippet(snippetLines),
		})
	}
	return meta
}
