package resolve

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mvp-joe/project-atlas/internal/extract"
)

// UsageSite is one endpoint whose parameter list mentions a DTO.
type UsageSite struct {
	Controller *extract.ControllerMeta
	Method     *extract.MethodMeta
}

// MarshalJSON flattens the site to the identifying fields of its endpoint.
func (u UsageSite) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		File       string `json:"file"`
		Controller string `json:"controller"`
		Method     string `json:"method"`
		HTTPMethod string `json:"http_method,omitempty"`
		Path       string `json:"path,omitempty"`
	}{
		File:       u.Controller.File,
		Controller: u.Controller.Name,
		Method:     u.Method.Name,
		HTTPMethod: u.Method.HTTPMethod,
		Path:       endpointPath(u.Controller, u.Method),
	})
}

// FullPath joins a controller's base route and a method route into an
// absolute endpoint path. Empty segments are dropped and "/" is returned
// when nothing remains.
func FullPath(base, route string) string {
	var segments []string
	if base != "" && base != "/" {
		segments = append(segments, strings.Trim(base, "/"))
	}
	if route != "" {
		segments = append(segments, strings.Trim(route, "/"))
	}

	kept := segments[:0]
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return "/"
	}
	return "/" + strings.Join(kept, "/")
}

func endpointPath(c *extract.ControllerMeta, m *extract.MethodMeta) string {
	if !m.HasEndpoint() {
		return ""
	}
	return FullPath(c.BaseRoute, m.Route)
}

// wordPattern matches name as a whole word.
func wordPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
}

// MapDtoUsage finds, for every DTO name, the controller methods whose raw
// parameter text mentions it as a whole word. Every name gets an entry,
// possibly empty. Sites follow controller order, then method order.
func MapDtoUsage(controllers []extract.ControllerMeta, names []string) map[string][]UsageSite {
	usage := make(map[string][]UsageSite, len(names))
	for _, name := range names {
		re := wordPattern(name)
		sites := []UsageSite{}
		for ci := range controllers {
			c := &controllers[ci]
			for mi := range c.Methods {
				m := &c.Methods[mi]
				if re.MatchString(m.Params) {
					sites = append(sites, UsageSite{Controller: c, Method: m})
				}
			}
		}
		usage[name] = sites
	}
	return usage
}

// DtoMentions returns the names, in the given order, mentioned as whole
// words in params.
func DtoMentions(params string, names []string) []string {
	out := []string{}
	for _, name := range names {
		if wordPattern(name).MatchString(params) {
			out = append(out, name)
		}
	}
	return out
}
