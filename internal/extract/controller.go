package extract

import (
	"regexp"
	"strings"

	"github.com/mvp-joe/project-atlas/internal/source"
)

var (
	// @Controller('prefix')
	reControllerPrefix = regexp.MustCompile(`@Controller\(([^)]*)\)`)

	// @Get(':id'), @Post(), ...
	reVerbDecorator = regexp.MustCompile(`^@(Get|Post|Patch|Put|Delete|Options|Head)\(([^)]*)\)`)

	// @Roles('manager', 'staff')
	reRolesDecorator = regexp.MustCompile(`^@Roles\(([^)]*)\)`)
)

// ParseController extracts controller metadata from one file. Only
// method-shaped lines directly preceded by at least one decorator become
// handlers.
func ParseController(f *source.File, ss source.StructuralSource, snippetLines int) ControllerMeta {
	meta := ControllerMeta{
		File:     f.Path,
		Name:     classNameOf(f.Path, f.Text),
		Methods:  []MethodMeta{},
		Injected: parseInjections(f.Text),
	}
	if m := reControllerPrefix.FindStringSubmatch(f.Text); m != nil {
		meta.BaseRoute = StripQuotes(m[1])
	}

	var acc source.DecoratorAccumulator
	for idx, line := range f.Lines {
		trimmed := strings.TrimSpace(line)
		if acc.Collect(trimmed) {
			continue
		}

		name, params, ok := matchMethod(trimmed)
		if !ok || acc.Pending() == 0 {
			acc.Observe(trimmed)
			continue
		}

		decorators := acc.Take()
		span := ss.Span(idx, 1)
		method := MethodMeta{
			Name:       name,
			Params:     params,
			Decorators: decorators,
			Roles:      []string{},
			Signature:  trimmed,
			StartLine:  span.StartLine,
			EndLine:    span.EndLine,
			Snippet:    span.Snippet(snippetLines),
		}
		applyEndpointDecorators(&method, decorators)
		meta.Methods = append(meta.Methods, method)
	}
	return meta
}

// applyEndpointDecorators fills verb, route and roles from the first
// matching decorator of each shape.
func applyEndpointDecorators(m *MethodMeta, decorators []string) {
	verbSet, rolesSet := false, false
	for _, deco := range decorators {
		if !verbSet {
			if vm := reVerbDecorator.FindStringSubmatch(deco); vm != nil {
				m.HTTPMethod = strings.ToUpper(vm[1])
				m.Route = StripQuotes(vm[2])
				verbSet = true
				continue
			}
		}
		if !rolesSet {
			if rm := reRolesDecorator.FindStringSubmatch(deco); rm != nil {
				m.Roles = splitRoles(rm[1])
				rolesSet = true
			}
		}
	}
}

func splitRoles(args string) []string {
	roles := []string{}
	for _, tok := range strings.Split(args, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		roles = append(roles, StripQuotes(tok))
	}
	return roles
}
