// Package config provides configuration loading for Project Atlas.
//
// Configuration is read from .atlas/config.yml (or .yaml) under the project
// root. Priority, highest first:
//  1. Environment variables (ATLAS_*, nested keys joined with "_")
//  2. Config file
//  3. Built-in defaults
//
// The loaded Config is read-only for the rest of the run.
package config

// Config represents the complete atlas configuration.
type Config struct {
	Sources   SourcesConfig          `yaml:"sources" mapstructure:"sources"`
	Patterns  PatternsConfig         `yaml:"patterns" mapstructure:"patterns"`
	Snippets  SnippetsConfig         `yaml:"snippets" mapstructure:"snippets"`
	Structure StructureConfig        `yaml:"structure" mapstructure:"structure"`
	Output    OutputConfig           `yaml:"output" mapstructure:"output"`
	Watch     WatchConfig            `yaml:"watch" mapstructure:"watch"`
	Domains   map[string]DomainLabel `yaml:"domains" mapstructure:"domains"`
}

// SourcesConfig locates the two source trees, relative to the project root.
type SourcesConfig struct {
	BackendRoot  string `yaml:"backend_root" mapstructure:"backend_root"`
	FrontendRoot string `yaml:"frontend_root" mapstructure:"frontend_root"`
}

// PatternsConfig selects files per entity kind. Patterns are matched
// against paths relative to the source root they are found under.
type PatternsConfig struct {
	Controllers    []string `yaml:"controllers" mapstructure:"controllers"`
	Services       []string `yaml:"services" mapstructure:"services"`
	ServiceExclude []string `yaml:"service_exclude" mapstructure:"service_exclude"` // backup copies
	Dtos           []string `yaml:"dtos" mapstructure:"dtos"`
	Frontend       []string `yaml:"frontend" mapstructure:"frontend"`
	Ignore         []string `yaml:"ignore" mapstructure:"ignore"`
}

// SnippetsConfig caps the snippet text kept per entity kind.
type SnippetsConfig struct {
	ControllerLines int `yaml:"controller_lines" mapstructure:"controller_lines"`
	ServiceLines    int `yaml:"service_lines" mapstructure:"service_lines"`
	FrontendLines   int `yaml:"frontend_lines" mapstructure:"frontend_lines"`
}

// StructureConfig picks how block boundaries are located.
type StructureConfig struct {
	Strategy string `yaml:"strategy" mapstructure:"strategy"` // "braces" or "treesitter"
}

// OutputConfig defines where results are written, relative to the project
// root unless absolute.
type OutputConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`         // JSON document
	Database string `yaml:"database" mapstructure:"database"` // SQLite export
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// DomainLabel is the display name of a domain in each language.
type DomainLabel struct {
	En string `yaml:"en" mapstructure:"en" json:"en"`
	Ar string `yaml:"ar" mapstructure:"ar" json:"ar"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Sources: SourcesConfig{
			BackendRoot:  "api/src",
			FrontendRoot: "Web/src",
		},
		Patterns: PatternsConfig{
			Controllers:    []string{"**/*controller.ts"},
			Services:       []string{"**/*service.ts"},
			ServiceExclude: []string{"**/*backup*", "**/*.bak*", "**/*.orig*"},
			Dtos:           []string{"**/*.dto.ts"},
			Frontend:       []string{"**/*.tsx"},
			Ignore: []string{
				"node_modules/**",
				"**/node_modules/**",
				"dist/**",
				".next/**",
				"coverage/**",
			},
		},
		Snippets: SnippetsConfig{
			ControllerLines: 18,
			ServiceLines:    22,
			FrontendLines:   18,
		},
		Structure: StructureConfig{
			Strategy: "braces",
		},
		Output: OutputConfig{
			Path:     ".atlas/metadata.json",
			Database: ".atlas/metadata.db",
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
		Domains: defaultDomains(),
	}
}

func defaultDomains() map[string]DomainLabel {
	return map[string]DomainLabel{
		"analytics":    {En: "Analytics", Ar: "التحليلات"},
		"appointments": {En: "Appointments", Ar: "المواعيد"},
		"auth":         {En: "Authentication", Ar: "المصادقة"},
		"common":       {En: "Common Utilities", Ar: "الخدمات المشتركة"},
		"customers":    {En: "Customers", Ar: "العملاء"},
		"health":       {En: "Health", Ar: "الصحة"},
		"integrations": {En: "Integrations", Ar: "التكاملات"},
		"maintenance":  {En: "Maintenance", Ar: "الصيانة"},
		"onboarding":   {En: "Onboarding", Ar: "التهيئة"},
		"payments":     {En: "Payments", Ar: "المدفوعات"},
		"properties":   {En: "Properties", Ar: "العقارات"},
		"supabase":     {En: "Supabase Access", Ar: "وصول Supabase"},
		"whatsapp":     {En: "WhatsApp", Ar: "واتساب"},
		"frontend":     {En: "Frontend Shared", Ar: "مكونات الواجهة"},
	}
}
