package extract

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

var (
	// [export] [default] [abstract] class Name, at the start of a line
	reClass = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`)

	// [visibility] [async] name(params) [: ReturnType] {
	reMethod = regexp.MustCompile(`^(?:(?:public|private|protected)\s+)?(?:static\s+)?(?:async\s+)?(\w+)\s*\((.*)\)\s*(?::\s*[^{;]+)?\{`)

	// constructor(
	reConstructor = regexp.MustCompile(`\bconstructor\s*\(`)

	// [visibility] [readonly] name: TypeName
	reInjection = regexp.MustCompile(`^(?:(?:private|public|protected)\s+)?(?:readonly\s+)?(\w+)\s*:\s*(\w+)`)

	// @Decorator(...) prefixes on a constructor parameter
	reParamDecorator = regexp.MustCompile(`^@\w+(?:\([^)]*\))?\s*`)
)

// classNameOf returns the first declared class name or a title-cased form
// of the file's base name.
func classNameOf(f string, text string) string {
	if m := reClass.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	base := path.Base(f)
	return titleCase(strings.TrimSuffix(base, path.Ext(base)))
}

// titleCase upper-cases the first letter of every letter run and
// lower-cases the rest: "customers.controller" -> "Customers.Controller".
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// StripQuotes removes one pair of matching ', " or ` quotes.
func StripQuotes(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		q := v[0]
		if (q == '\'' || q == '"' || q == '`') && v[len(v)-1] == q {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// constructorParams returns the text between the parentheses of the first
// constructor declaration, honoring nested parentheses.
func constructorParams(text string) (string, bool) {
	loc := reConstructor.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	open := loc[1] // just past '('
	depth := 1
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return text[open:i], true
			}
		}
	}
	return text[open:], true
}

// splitTopLevel splits s on commas that are not nested in (), [], {} or <>.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}

// parseInjections reads (property, type) pairs from the constructor. Segments
// that do not have the injection shape are skipped.
func parseInjections(text string) []Injection {
	injected := []Injection{}
	params, ok := constructorParams(text)
	if !ok {
		return injected
	}
	for _, segment := range splitTopLevel(params) {
		segment = strings.TrimSpace(segment)
		for reParamDecorator.MatchString(segment) {
			segment = reParamDecorator.ReplaceAllString(segment, "")
		}
		if segment == "" {
			continue
		}
		if m := reInjection.FindStringSubmatch(segment); m != nil {
			injected = append(injected, Injection{Property: m[1], Type: m[2]})
		}
	}
	return injected
}

// matchMethod matches a trimmed line against the method signature shape.
func matchMethod(trimmed string) (name, params string, ok bool) {
	m := reMethod.FindStringSubmatch(trimmed)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
