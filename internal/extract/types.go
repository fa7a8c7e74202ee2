package extract

// Kind identifies which extractor handles a file.
type Kind string

const (
	KindController Kind = "controller"
	KindService    Kind = "service"
	KindDto        Kind = "dto"
	KindFrontend   Kind = "frontend"
)

// Kinds lists every kind in extraction order.
var Kinds = []Kind{KindController, KindService, KindDto, KindFrontend}

// Injection is one constructor-injected dependency.
type Injection struct {
	Property string `json:"property"`
	Type     string `json:"type"`
}

// MethodMeta describes one decorated controller handler.
//
// HTTPMethod is empty when no verb decorator was found; Route is only
// meaningful when HTTPMethod is set (an empty Route then means the verb
// decorator had no argument).
type MethodMeta struct {
	Name       string   `json:"name"`
	Params     string   `json:"params"`
	Decorators []string `json:"decorators"`
	HTTPMethod string   `json:"http_method,omitempty"`
	Route      string   `json:"route,omitempty"`
	Roles      []string `json:"roles"`
	Signature  string   `json:"signature"`
	StartLine  int      `json:"start_line"` // 1-based
	EndLine    int      `json:"end_line"`   // 1-based, inclusive
	Snippet    string   `json:"snippet"`
}

// HasEndpoint reports whether the method carries an HTTP verb decorator.
func (m *MethodMeta) HasEndpoint() bool {
	return m.HTTPMethod != ""
}

// ControllerMeta is the metadata for one controller file.
type ControllerMeta struct {
	File      string       `json:"file"`
	Name      string       `json:"name"`
	BaseRoute string       `json:"base_route,omitempty"`
	Methods   []MethodMeta `json:"methods"`
	Injected  []Injection  `json:"injected"`
}

// ServiceMethodMeta is a service method: MethodMeta without HTTP fields.
type ServiceMethodMeta struct {
	Name      string `json:"name"`
	Params    string `json:"params"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Snippet   string `json:"snippet"`
}

// ServiceMeta is the metadata for one service file.
type ServiceMeta struct {
	File     string              `json:"file"`
	Name     string              `json:"name"`
	Injected []Injection         `json:"injected"`
	Methods  []ServiceMethodMeta `json:"methods"`
}

// DtoPropertyMeta is one DTO field.
type DtoPropertyMeta struct {
	Name           string   `json:"name"`
	TypeAnnotation string   `json:"type_annotation"`
	Decorators     []string `json:"decorators"`
}

// DtoClassMeta is one exported DTO class.
type DtoClassMeta struct {
	Name       string            `json:"name"`
	Properties []DtoPropertyMeta `json:"properties"`
}

// DtoFileMeta groups the DTO classes of one file.
type DtoFileMeta struct {
	File    string         `json:"file"`
	Classes []DtoClassMeta `json:"classes"`
}

// Export kinds.
const (
	ExportDefault = "default"
	ExportNamed   = "named"
)

// FrontendExport is one exported function, const or class with a body.
type FrontendExport struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"` // ExportDefault or ExportNamed
	Signature string `json:"signature"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Snippet   string `json:"snippet"`
}

// FrontendFileMeta groups the exports of one component file.
type FrontendFileMeta struct {
	File    string           `json:"file"`
	Exports []FrontendExport `json:"exports"`
}

// Result holds the four ordered entity lists of one extraction pass.
type Result struct {
	Controllers   []ControllerMeta   `json:"controllers"`
	Services      []ServiceMeta      `json:"services"`
	DtoFiles      []DtoFileMeta      `json:"dto_files"`
	FrontendFiles []FrontendFileMeta `json:"frontend_files"`
}
