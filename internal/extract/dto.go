package extract

import (
	"regexp"
	"strings"

	"github.com/mvp-joe/project-atlas/internal/source"
)

var (
	// export class Name
	reDtoClass = regexp.MustCompile(`^export\s+class\s+(\w+)`)

	// [readonly] name[?|!]: Type;
	reDtoProperty = regexp.MustCompile(`^(?:readonly\s+)?(\w+)[?!]?:\s*([^;]+);`)
)

// ParseDto extracts the DTO classes declared in one file. A new
// `export class` closes the previous class; lines before the first class
// are ignored.
func ParseDto(f *source.File) DtoFileMeta {
	meta := DtoFileMeta{File: f.Path, Classes: []DtoClassMeta{}}

	var (
		current *DtoClassMeta
		acc     source.DecoratorAccumulator
	)
	for _, raw := range f.Lines {
		line := strings.TrimSpace(raw)

		if m := reDtoClass.FindStringSubmatch(line); m != nil {
			meta.Classes = append(meta.Classes, DtoClassMeta{
				Name:       m[1],
				Properties: []DtoPropertyMeta{},
			})
			current = &meta.Classes[len(meta.Classes)-1]
			acc.Reset()
			continue
		}
		if current == nil {
			continue
		}
		if acc.Collect(line) {
			continue
		}
		if m := reDtoProperty.FindStringSubmatch(line); m != nil {
			current.Properties = append(current.Properties, DtoPropertyMeta{
				Name:           m[1],
				TypeAnnotation: strings.TrimSpace(m[2]),
				Decorators:     acc.Take(),
			})
			continue
		}
		acc.Observe(line)
	}
	return meta
}
