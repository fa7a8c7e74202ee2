package analyzer

import (
	"strings"

	"github.com/mvp-joe/project-atlas/internal/extract"
	"github.com/mvp-joe/project-atlas/internal/modules"
	"github.com/mvp-joe/project-atlas/internal/resolve"
)

// Snapshot is the complete, read-only metadata of one analysis pass.
// Module and usage entries point into the flat lists.
type Snapshot struct {
	Controllers   []extract.ControllerMeta   `json:"controllers"`
	Services      []extract.ServiceMeta      `json:"services"`
	DtoFiles      []extract.DtoFileMeta      `json:"dto_files"`
	FrontendFiles []extract.FrontendFileMeta `json:"frontend_files"`

	DtoIndex     resolve.DtoIndex               `json:"dto_index"`
	ServiceIndex resolve.ServiceIndex           `json:"service_index"`
	Modules      modules.Modules                `json:"modules"`
	DtoUsage     map[string][]resolve.UsageSite `json:"dto_usage"`
	Calls        []MethodCalls                  `json:"calls"`
	Dependencies []resolve.Edge                 `json:"dependencies"`
	Cycles       [][]string                     `json:"cycles"`
	Graph        *resolve.DependencyGraph       `json:"-"`

	moduleOf map[string]string
}

// ModuleOf returns the domain module containing file.
func (s *Snapshot) ModuleOf(file string) (string, bool) {
	key, ok := s.moduleOf[file]
	return key, ok
}

func indexModules(mods modules.Modules) map[string]string {
	idx := make(map[string]string)
	for key, m := range mods {
		for _, c := range m.Controllers {
			idx[c.File] = key
		}
		for _, svc := range m.Services {
			idx[svc.File] = key
		}
		for _, d := range m.Dtos {
			idx[d.File] = key
		}
		for _, f := range m.Frontend {
			idx[f.File] = key
		}
	}
	return idx
}

// MethodCalls are the member calls found in one controller or service
// method.
type MethodCalls struct {
	Kind    extract.Kind         `json:"kind"`
	File    string               `json:"file"`
	Owner   string               `json:"owner"`
	Method  string               `json:"method"`
	Targets []resolve.CallTarget `json:"targets"`
}

// Endpoint is a controller method carrying an HTTP verb decorator.
type Endpoint struct {
	Controller string   `json:"controller"`
	File       string   `json:"file"`
	Method     string   `json:"method"`
	HTTPMethod string   `json:"http_method"`
	Path       string   `json:"path"`
	Roles      []string `json:"roles"`
	Params     string   `json:"params"`
	Dtos       []string `json:"dtos"`
	StartLine  int      `json:"start_line"`
	EndLine    int      `json:"end_line"`
}

// Endpoints lists every endpoint in controller and method order.
func (s *Snapshot) Endpoints() []Endpoint {
	names := s.DtoIndex.Names()
	out := []Endpoint{}
	for _, c := range s.Controllers {
		for _, m := range c.Methods {
			if !m.HasEndpoint() {
				continue
			}
			out = append(out, Endpoint{
				Controller: c.Name,
				File:       c.File,
				Method:     m.Name,
				HTTPMethod: m.HTTPMethod,
				Path:       resolve.FullPath(c.BaseRoute, m.Route),
				Roles:      m.Roles,
				Params:     m.Params,
				Dtos:       resolve.DtoMentions(m.Params, names),
				StartLine:  m.StartLine,
				EndLine:    m.EndLine,
			})
		}
	}
	return out
}

// EndpointsIn lists the endpoints of one domain module.
func (s *Snapshot) EndpointsIn(module string) []Endpoint {
	m, ok := s.Modules[module]
	if !ok {
		return []Endpoint{}
	}
	files := make(map[string]bool, len(m.Controllers))
	for _, c := range m.Controllers {
		files[c.File] = true
	}
	out := []Endpoint{}
	for _, e := range s.Endpoints() {
		if files[e.File] {
			out = append(out, e)
		}
	}
	return out
}

// CallsOf returns the calls made by owner's methods. An empty method
// selects every method of owner.
func (s *Snapshot) CallsOf(owner, method string) []MethodCalls {
	out := []MethodCalls{}
	for _, mc := range s.Calls {
		if !strings.EqualFold(mc.Owner, owner) {
			continue
		}
		if method != "" && mc.Method != method {
			continue
		}
		out = append(out, mc)
	}
	return out
}

// Counts summarizes the snapshot size.
type Counts struct {
	Controllers int `json:"controllers"`
	Endpoints   int `json:"endpoints"`
	Services    int `json:"services"`
	DtoClasses  int `json:"dto_classes"`
	Frontend    int `json:"frontend_exports"`
	Modules     int `json:"modules"`
}

// Counts returns entity totals.
func (s *Snapshot) Counts() Counts {
	c := Counts{
		Controllers: len(s.Controllers),
		Services:    len(s.Services),
		Modules:     len(s.Modules),
	}
	for _, ctrl := range s.Controllers {
		for _, m := range ctrl.Methods {
			if m.HasEndpoint() {
				c.Endpoints++
			}
		}
	}
	for _, f := range s.DtoFiles {
		c.DtoClasses += len(f.Classes)
	}
	for _, f := range s.FrontendFiles {
		c.Frontend += len(f.Exports)
	}
	return c
}
