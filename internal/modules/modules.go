// Package modules groups extracted entities into domain modules keyed by
// the first directory below their source root.
package modules

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/mvp-joe/project-atlas/internal/extract"
)

// ErrOutsideRoots is returned for a path under neither source root.
var ErrOutsideRoots = errors.New("path is outside the source roots")

// Fallback keys for files sitting directly at a source root.
const (
	RootKey     = "root"
	FrontendKey = "frontend"
)

// Roots are the project-relative backend and frontend source roots.
type Roots struct {
	Backend  string
	Frontend string
}

// DomainKey derives the domain of a project-relative path. Under the
// backend root the key is the first segment, or RootKey for a file at the
// root itself. Under the frontend root it is the first segment when the
// path is nested, else FrontendKey. When both roots contain the path the
// longer root wins.
func (r Roots) DomainKey(p string) (string, error) {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))

	backendRel, inBackend := relativeTo(r.Backend, p)
	frontendRel, inFrontend := relativeTo(r.Frontend, p)
	if inBackend && inFrontend {
		if len(path.Clean(r.Frontend)) > len(path.Clean(r.Backend)) {
			inBackend = false
		} else {
			inFrontend = false
		}
	}

	switch {
	case inBackend:
		parts := strings.Split(backendRel, "/")
		if len(parts) >= 2 {
			return parts[0], nil
		}
		return RootKey, nil
	case inFrontend:
		parts := strings.Split(frontendRel, "/")
		if len(parts) > 1 {
			return parts[0], nil
		}
		return FrontendKey, nil
	default:
		return "", fmt.Errorf("%s: %w", p, ErrOutsideRoots)
	}
}

// relativeTo returns p relative to root when p lies strictly below it.
func relativeTo(root, p string) (string, bool) {
	if root == "" {
		return "", false
	}
	root = path.Clean(root)
	if root == "." {
		return p, p != "." && !strings.HasPrefix(p, "../")
	}
	if !strings.HasPrefix(p, root+"/") {
		return "", false
	}
	return strings.TrimPrefix(p, root+"/"), true
}

// ModuleMeta is every entity belonging to one domain.
type ModuleMeta struct {
	Key         string
	Controllers []*extract.ControllerMeta
	Services    []*extract.ServiceMeta
	Dtos        []*extract.DtoFileMeta
	Frontend    []*extract.FrontendFileMeta
}

func newModule(key string) *ModuleMeta {
	return &ModuleMeta{
		Key:         key,
		Controllers: []*extract.ControllerMeta{},
		Services:    []*extract.ServiceMeta{},
		Dtos:        []*extract.DtoFileMeta{},
		Frontend:    []*extract.FrontendFileMeta{},
	}
}

// MarshalJSON lists member files by path; the records themselves live in
// the flat entity lists.
func (m *ModuleMeta) MarshalJSON() ([]byte, error) {
	out := struct {
		Key         string   `json:"key"`
		Controllers []string `json:"controllers"`
		Services    []string `json:"services"`
		Dtos        []string `json:"dtos"`
		Frontend    []string `json:"frontend"`
	}{Key: m.Key, Controllers: []string{}, Services: []string{}, Dtos: []string{}, Frontend: []string{}}

	for _, c := range m.Controllers {
		out.Controllers = append(out.Controllers, c.File)
	}
	for _, s := range m.Services {
		out.Services = append(out.Services, s.File)
	}
	for _, d := range m.Dtos {
		out.Dtos = append(out.Dtos, d.File)
	}
	for _, f := range m.Frontend {
		out.Frontend = append(out.Frontend, f.File)
	}
	return json.Marshal(out)
}

// Size returns the number of entities in the module.
func (m *ModuleMeta) Size() int {
	return len(m.Controllers) + len(m.Services) + len(m.Dtos) + len(m.Frontend)
}

// Modules maps domain keys to modules.
type Modules map[string]*ModuleMeta

// Keys returns the domain keys in lexical order.
func (m Modules) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Aggregate groups every entity of result by domain key in one pass,
// keeping list order within each module. Entities outside both roots are
// left out of every module.
func Aggregate(roots Roots, result *extract.Result) Modules {
	mods := make(Modules)
	module := func(file string) *ModuleMeta {
		key, err := roots.DomainKey(file)
		if err != nil {
			return nil
		}
		m, ok := mods[key]
		if !ok {
			m = newModule(key)
			mods[key] = m
		}
		return m
	}

	for i := range result.Controllers {
		if m := module(result.Controllers[i].File); m != nil {
			m.Controllers = append(m.Controllers, &result.Controllers[i])
		}
	}
	for i := range result.Services {
		if m := module(result.Services[i].File); m != nil {
			m.Services = append(m.Services, &result.Services[i])
		}
	}
	for i := range result.DtoFiles {
		if m := module(result.DtoFiles[i].File); m != nil {
			m.Dtos = append(m.Dtos, &result.DtoFiles[i])
		}
	}
	for i := range result.FrontendFiles {
		if m := module(result.FrontendFiles[i].File); m != nil {
			m.Frontend = append(m.Frontend, &result.FrontendFiles[i])
		}
	}
	return mods
}
