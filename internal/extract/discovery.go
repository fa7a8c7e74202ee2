package extract

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
	// root matches "**/x" patterns against paths at the root; nil otherwise.
	root glob.Glob
}

// Candidate is a file selected for extraction.
type Candidate struct {
	AbsPath string
	RelPath string // project-relative, forward slashes
}

// Discovery selects candidate files under the backend and frontend roots.
type Discovery struct {
	rootDir        string
	backendRoot    string
	frontendRoot   string
	kindPatterns   map[Kind][]compiledPattern
	serviceExclude []compiledPattern
	ignorePatterns []compiledPattern
}

// NewDiscovery compiles the configured glob patterns.
func NewDiscovery(cfg Config) (*Discovery, error) {
	d := &Discovery{
		rootDir:      cfg.RootDir,
		backendRoot:  cfg.BackendRoot,
		frontendRoot: cfg.FrontendRoot,
		kindPatterns: make(map[Kind][]compiledPattern),
	}

	for kind, patterns := range map[Kind][]string{
		KindController: cfg.ControllerPatterns,
		KindService:    cfg.ServicePatterns,
		KindDto:        cfg.DtoPatterns,
		KindFrontend:   cfg.FrontendPatterns,
	} {
		compiled, err := compilePatterns(patterns)
		if err != nil {
			return nil, err
		}
		d.kindPatterns[kind] = compiled
	}

	var err error
	if d.serviceExclude, err = compilePatterns(cfg.ServiceExclude); err != nil {
		return nil, err
	}
	if d.ignorePatterns, err = compilePatterns(cfg.IgnorePatterns); err != nil {
		return nil, err
	}
	return d, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		cp := compiledPattern{pattern: pattern, glob: g}
		if strings.HasPrefix(pattern, "**/") {
			if cp.root, err = glob.Compile(strings.TrimPrefix(pattern, "**/"), '/'); err != nil {
				return nil, err
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

// Discover walks both roots and returns the candidates of each kind sorted
// by project-relative path. A missing root contributes no files.
func (d *Discovery) Discover() (map[Kind][]Candidate, error) {
	found := map[Kind][]Candidate{
		KindController: {},
		KindService:    {},
		KindDto:        {},
		KindFrontend:   {},
	}

	backendKinds := []Kind{KindController, KindService, KindDto}
	if err := d.walk(d.backendRoot, backendKinds, found); err != nil {
		return nil, err
	}
	if err := d.walk(d.frontendRoot, []Kind{KindFrontend}, found); err != nil {
		return nil, err
	}

	for kind := range found {
		list := found[kind]
		sort.Slice(list, func(i, j int) bool { return list[i].RelPath < list[j].RelPath })
	}
	return found, nil
}

func (d *Discovery) walk(root string, kinds []Kind, found map[Kind][]Candidate) error {
	absRoot := filepath.Join(d.rootDir, filepath.FromSlash(root))
	if _, err := os.Stat(absRoot); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Pattern matching happens relative to the source root.
		rootRel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rootRel = filepath.ToSlash(rootRel)

		if entry.IsDir() {
			if rootRel != "." && d.shouldIgnore(rootRel) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.shouldIgnore(rootRel) {
			return nil
		}

		projectRel, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		candidate := Candidate{AbsPath: path, RelPath: filepath.ToSlash(projectRel)}

		for _, kind := range kinds {
			if !matchesAnyPattern(rootRel, d.kindPatterns[kind]) {
				continue
			}
			if kind == KindService && matchesAnyPattern(rootRel, d.serviceExclude) {
				continue
			}
			found[kind] = append(found[kind], candidate)
		}
		return nil
	})
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *Discovery) shouldIgnore(relPath string) bool {
	if matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}
	// "node_modules" should match pattern "node_modules/**"
	return matchesAnyPattern(relPath+"/**", d.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
// Paths directly at the root also match "**/"-prefixed patterns.
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if cp.root != nil && cp.root.Match(path) {
				return true
			}
		}
	}
	return false
}
