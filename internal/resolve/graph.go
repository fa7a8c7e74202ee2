package resolve

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/mvp-joe/project-atlas/internal/extract"
)

// Vertex kinds in the dependency graph.
const (
	VertexController = "controller"
	VertexService    = "service"
	VertexExternal   = "external" // injected type with no extracted class
)

const kindAttribute = "kind"

// Edge is one constructor injection: From injects To.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DependencyGraph is the directed injection graph between controllers,
// services and any other injected types.
type DependencyGraph struct {
	g graph.Graph[string, string]
}

// BuildDependencyGraph adds a vertex per controller and service class and
// an edge from each class to every type it injects.
func BuildDependencyGraph(controllers []extract.ControllerMeta, services []extract.ServiceMeta) (*DependencyGraph, error) {
	d := &DependencyGraph{g: graph.New(graph.StringHash, graph.Directed())}

	for _, c := range controllers {
		if err := d.addVertex(c.Name, VertexController); err != nil {
			return nil, err
		}
	}
	for _, s := range services {
		if err := d.addVertex(s.Name, VertexService); err != nil {
			return nil, err
		}
	}

	for _, c := range controllers {
		if err := d.addInjections(c.Name, c.Injected); err != nil {
			return nil, err
		}
	}
	for _, s := range services {
		if err := d.addInjections(s.Name, s.Injected); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *DependencyGraph) addVertex(name, kind string) error {
	err := d.g.AddVertex(name, graph.VertexAttribute(kindAttribute, kind))
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return fmt.Errorf("failed to add vertex %s: %w", name, err)
	}
	return nil
}

func (d *DependencyGraph) addInjections(owner string, injected []extract.Injection) error {
	for _, inj := range injected {
		if err := d.addVertex(inj.Type, VertexExternal); err != nil {
			return err
		}
		err := d.g.AddEdge(owner, inj.Type)
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return fmt.Errorf("failed to add edge %s -> %s: %w", owner, inj.Type, err)
		}
	}
	return nil
}

// Kind returns the vertex kind of name, or "" if name is unknown.
func (d *DependencyGraph) Kind(name string) string {
	_, props, err := d.g.VertexWithProperties(name)
	if err != nil {
		return ""
	}
	return props.Attributes[kindAttribute]
}

// Dependencies returns the types name injects, sorted.
func (d *DependencyGraph) Dependencies(name string) []string {
	adjacency, err := d.g.AdjacencyMap()
	if err != nil {
		return []string{}
	}
	return sortedKeys(adjacency[name])
}

// Dependents returns the classes injecting name, sorted.
func (d *DependencyGraph) Dependents(name string) []string {
	predecessors, err := d.g.PredecessorMap()
	if err != nil {
		return []string{}
	}
	return sortedKeys(predecessors[name])
}

// Edges returns every injection edge sorted by source then target.
func (d *DependencyGraph) Edges() []Edge {
	edges, err := d.g.Edges()
	if err != nil {
		return []Edge{}
	}
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		out = append(out, Edge{From: e.Source, To: e.Target})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Cycles returns every injection cycle: strongly connected components with
// more than one member, plus self-injecting classes. Members and cycles are
// sorted.
func (d *DependencyGraph) Cycles() [][]string {
	components, err := graph.StronglyConnectedComponents(d.g)
	if err != nil {
		return [][]string{}
	}
	adjacency, err := d.g.AdjacencyMap()
	if err != nil {
		return [][]string{}
	}

	cycles := [][]string{}
	for _, comp := range components {
		if len(comp) == 1 {
			if _, self := adjacency[comp[0]][comp[0]]; !self {
				continue
			}
		}
		members := append([]string(nil), comp...)
		sort.Strings(members)
		cycles = append(cycles, members)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

// Order returns every vertex in dependency-first order. The order is
// stable across runs. It fails when the graph has a cycle.
func (d *DependencyGraph) Order() ([]string, error) {
	order, err := graph.StableTopologicalSort(d.g, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, fmt.Errorf("failed to order dependencies: %w", err)
	}
	// Edges point from owner to dependency; reverse so dependencies come first.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// Size returns the number of vertices.
func (d *DependencyGraph) Size() int {
	n, err := d.g.Order()
	if err != nil {
		return 0
	}
	return n
}
