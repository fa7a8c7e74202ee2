package resolve

import (
	"regexp"

	"github.com/mvp-joe/project-atlas/internal/extract"
)

// this.<property>.<call>(
var reMemberCall = regexp.MustCompile(`this\.(\w+)\.(\w+)\(`)

// CallTarget is one `this.<property>.<call>(` occurrence. A resolved target
// names the property's injected type; an unresolved one keeps the raw
// property name.
type CallTarget struct {
	Resolved bool   `json:"resolved"`
	Property string `json:"property"`
	Target   string `json:"target"` // injected type, or Property when unresolved
	Method   string `json:"method"`
}

// Pair returns the (target, method) pair.
func (c CallTarget) Pair() (string, string) {
	return c.Target, c.Method
}

// ResolveCalls extracts every member call in body, in order of occurrence
// and keeping duplicates, and resolves each property against injected.
func ResolveCalls(body string, injected []extract.Injection) []CallTarget {
	types := make(map[string]string, len(injected))
	for _, inj := range injected {
		types[inj.Property] = inj.Type
	}

	out := []CallTarget{}
	for _, m := range reMemberCall.FindAllStringSubmatch(body, -1) {
		out = append(out, resolveOne(m[1], m[2], types))
	}
	return out
}

func resolveOne(property, method string, types map[string]string) CallTarget {
	if typ, ok := types[property]; ok {
		return CallTarget{Resolved: true, Property: property, Target: typ, Method: method}
	}
	return CallTarget{Property: property, Target: property, Method: method}
}
