package construct

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dominikbraun/graph"
)

type (
	Graph = graph.Graph[ResourceId, *Resource]
	Edge  = graph.Edge[ResourceId]
)

var ErrDuplicateResource = errors.New("duplicate resource")

// NewGraph returns the resource graph used by a stack. An edge `A -> B` means A depends on B.
func NewGraph(options ...func(*graph.Traits)) Graph {
	return graph.New(
		ResourceHasher,
		append(options, graph.Directed(), graph.PreventCycles())...,
	)
}

func ResourceHasher(r *Resource) ResourceId {
	return r.ID
}

// AddResource validates the resource's id and adds it to the graph. Two resources whose ids
// render to the same logical id are duplicates.
func AddResource(g Graph, r *Resource) error {
	if err := r.ID.Validate(); err != nil {
		return err
	}
	adj, err := g.AdjacencyMap()
	if err != nil {
		return err
	}
	logicalId := r.ID.LogicalId()
	for id := range adj {
		if id != r.ID && id.LogicalId() == logicalId {
			return fmt.Errorf("%w: %s and %s share logical id %s", ErrDuplicateResource, id, r.ID, logicalId)
		}
	}
	err = g.AddVertex(r)
	if errors.Is(err, graph.ErrVertexAlreadyExists) {
		return fmt.Errorf("%w: %s", ErrDuplicateResource, r.ID)
	}
	return err
}

// AddDependency records that `from` depends on `to`. Adding the same dependency twice is a no-op.
func AddDependency(g Graph, from, to ResourceId) error {
	err := g.AddEdge(from, to)
	switch {
	case errors.Is(err, graph.ErrEdgeAlreadyExists):
		return nil
	case errors.Is(err, graph.ErrEdgeCreatesCycle):
		return fmt.Errorf("dependency %s -> %s would create a cycle: %w", from, to, err)
	}
	return err
}

// Dependencies returns the sorted ids that `id` depends on.
func Dependencies(g Graph, id ResourceId) ([]ResourceId, error) {
	adj, err := g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	deps := make([]ResourceId, 0, len(adj[id]))
	for target := range adj[id] {
		deps = append(deps, target)
	}
	SortIds(deps)
	return deps, nil
}

// TopologicalSort provides a stable ordering of the graph, dependents before their dependencies.
func TopologicalSort(g Graph) ([]ResourceId, error) {
	return graph.StableTopologicalSort(g, ResourceIdLess)
}

func String(g Graph) (string, error) {
	w := new(strings.Builder)
	err := stringTo(g, w)
	return w.String(), err
}

func stringTo(g Graph, w io.Writer) error {
	topo, err := TopologicalSort(g)
	if err != nil {
		return err
	}

	var errs error
	write := func(format string, args ...any) {
		_, err := fmt.Fprintf(w, format, args...)
		errs = errors.Join(errs, err)
	}

	for _, id := range topo {
		r, err := g.Vertex(id)
		if err != nil {
			return err
		}
		write("%q (%s)", id, r.Type)

		deps, err := Dependencies(g, id)
		if err != nil {
			return err
		}
		if len(deps) > 1 {
			write("\n")
		} else if len(deps) == 1 {
			write(" ")
		}
		for _, t := range deps {
			write("-> %q\n", t)
		}
		if len(deps) == 0 {
			write("\n")
		}
	}
	return errs
}
