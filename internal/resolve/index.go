// Package resolve links extracted entities to each other: name indices for
// DTOs and services, DTO usage sites on endpoints, call targets inside
// method bodies and the constructor-injection dependency graph.
//
// Every function here is a pure pass over extract records. Nothing is
// mutated and nothing fails; unresolvable references degrade to their raw
// names.
package resolve

import (
	"sort"

	"github.com/mvp-joe/project-atlas/internal/extract"
)

// DtoEntry is a DTO class together with the file declaring it.
type DtoEntry struct {
	Class extract.DtoClassMeta `json:"class"`
	File  string               `json:"file"`
}

// DtoIndex maps DTO class names to their definitions.
type DtoIndex map[string]DtoEntry

// BuildDtoIndex indexes every class of every DTO file. When two files
// declare the same class name the later file wins.
func BuildDtoIndex(files []extract.DtoFileMeta) DtoIndex {
	idx := make(DtoIndex)
	for _, f := range files {
		for _, class := range f.Classes {
			idx[class.Name] = DtoEntry{Class: class, File: f.File}
		}
	}
	return idx
}

// Names returns the indexed class names in lexical order.
func (idx DtoIndex) Names() []string {
	return sortedKeys(idx)
}

// ServiceIndex maps service class names to their metadata.
type ServiceIndex map[string]extract.ServiceMeta

// BuildServiceIndex indexes services by class name, later entries winning.
func BuildServiceIndex(services []extract.ServiceMeta) ServiceIndex {
	idx := make(ServiceIndex)
	for _, svc := range services {
		idx[svc.Name] = svc
	}
	return idx
}

// Names returns the indexed service names in lexical order.
func (idx ServiceIndex) Names() []string {
	return sortedKeys(idx)
}

// HasMethod reports whether service declares a method called name.
func (idx ServiceIndex) HasMethod(service, name string) bool {
	svc, ok := idx[service]
	if !ok {
		return false
	}
	for _, m := range svc.Methods {
		if m.Name == name {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
