// Package analyzer runs the whole pipeline: extraction, then the pure
// resolution and aggregation passes, producing one immutable Snapshot.
package analyzer

import (
	"context"
	"fmt"

	"github.com/mvp-joe/project-atlas/internal/extract"
	"github.com/mvp-joe/project-atlas/internal/modules"
	"github.com/mvp-joe/project-atlas/internal/resolve"
)

// Analyzer produces snapshots of one project.
type Analyzer struct {
	cfg  extract.Config
	opts []extract.Option
}

// New creates an Analyzer. Options are passed to every extraction pass.
func New(cfg extract.Config, opts ...extract.Option) *Analyzer {
	return &Analyzer{cfg: cfg, opts: opts}
}

// Analyze extracts every file and links the results. Any read or decode
// failure aborts the pass and no snapshot is returned.
func (a *Analyzer) Analyze(ctx context.Context) (*Snapshot, error) {
	ex, err := extract.New(a.cfg, a.opts...)
	if err != nil {
		return nil, err
	}
	result, err := ex.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	return Build(result, modules.Roots{Backend: a.cfg.BackendRoot, Frontend: a.cfg.FrontendRoot})
}

// Build links an extraction result. It only reads result.
func Build(result *extract.Result, roots modules.Roots) (*Snapshot, error) {
	dtoIndex := resolve.BuildDtoIndex(result.DtoFiles)
	names := dtoIndex.Names()

	graph, err := resolve.BuildDependencyGraph(result.Controllers, result.Services)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}

	s := &Snapshot{
		Controllers:   result.Controllers,
		Services:      result.Services,
		DtoFiles:      result.DtoFiles,
		FrontendFiles: result.FrontendFiles,
		DtoIndex:      dtoIndex,
		ServiceIndex:  resolve.BuildServiceIndex(result.Services),
		Modules:       modules.Aggregate(roots, result),
		DtoUsage:      resolve.MapDtoUsage(result.Controllers, names),
		Dependencies:  graph.Edges(),
		Cycles:        graph.Cycles(),
		Graph:         graph,
	}
	s.Calls = resolveCalls(result)
	s.moduleOf = indexModules(s.Modules)
	return s, nil
}

func resolveCalls(result *extract.Result) []MethodCalls {
	calls := []MethodCalls{}
	for _, c := range result.Controllers {
		for _, m := range c.Methods {
			targets := resolve.ResolveCalls(m.Snippet, c.Injected)
			if len(targets) == 0 {
				continue
			}
			calls = append(calls, MethodCalls{
				Kind: extract.KindController, File: c.File, Owner: c.Name, Method: m.Name, Targets: targets,
			})
		}
	}
	for _, svc := range result.Services {
		for _, m := range svc.Methods {
			targets := resolve.ResolveCalls(m.Snippet, svc.Injected)
			if len(targets) == 0 {
				continue
			}
			calls = append(calls, MethodCalls{
				Kind: extract.KindService, File: svc.File, Owner: svc.Name, Method: m.Name, Targets: targets,
			})
		}
	}
	return calls
}
