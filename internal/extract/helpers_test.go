package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/project-atlas/internal/source"
	"github.com/stretchr/testify/require"
)

// writeTree creates files under root from a path -> content map.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// testConfig mirrors the default configuration for a project at root.
func testConfig(root string) Config {
	return Config{
		RootDir:            root,
		BackendRoot:        "api/src",
		FrontendRoot:       "Web/src",
		ControllerPatterns: []string{"**/*controller.ts"},
		ServicePatterns:    []string{"**/*service.ts"},
		ServiceExclude:     []string{"**/*backup*", "**/*.bak*"},
		DtoPatterns:        []string{"**/*.dto.ts"},
		FrontendPatterns:   []string{"**/*.tsx"},
		IgnorePatterns:     []string{"node_modules/**", "**/node_modules/**"},
	}
}

func parseControllerText(path, text string) ControllerMeta {
	f := source.NewFile(path, text)
	return ParseController(f, source.BraceCounting(f), DefaultControllerSnippetLines)
}

func parseServiceText(path, text string) ServiceMeta {
	f := source.NewFile(path, text)
	return ParseService(f, source.BraceCounting(f), DefaultServiceSnippetLines)
}

func parseFrontendText(path, text string) FrontendFileMeta {
	f := source.NewFile(path, text)
	return ParseFrontend(f, source.BraceCounting(f), DefaultFrontendSnippetLines)
}
