package construct

import (
	"errors"

	"github.com/dominikbraun/graph"
)

// GraphBatch can be used to batch adding resources and dependencies to the graph,
// collecting errors in the [Err] field.
type GraphBatch struct {
	Graph
	Err error

	// errorAdding is to keep track on which resources we failed to add to the graph
	// so that we can ignore them when adding dependencies to not pollute the errors.
	errorAdding map[ResourceId]struct{}
	added       []ResourceId
}

func NewGraphBatch(g Graph) *GraphBatch {
	return &GraphBatch{
		Graph:       g,
		errorAdding: make(map[ResourceId]struct{}),
	}
}

func (b *GraphBatch) AddResources(rs ...*Resource) {
	for _, r := range rs {
		err := AddResource(b.Graph, r)
		if err == nil {
			b.added = append(b.added, r.ID)
			continue
		}
		b.Err = errors.Join(b.Err, err)
		b.errorAdding[r.ID] = struct{}{}
	}
}

// AddDependencies records that `from` depends on each of `to`.
func (b *GraphBatch) AddDependencies(from ResourceId, to ...ResourceId) {
	if _, ok := b.errorAdding[from]; ok {
		return
	}
	for _, t := range to {
		if _, ok := b.errorAdding[t]; ok {
			continue
		}
		b.Err = errors.Join(b.Err, AddDependency(b.Graph, from, t))
	}
}

// Rollback removes every resource the batch added, along with their dependencies, leaving the graph
// as it was before the batch.
func (b *GraphBatch) Rollback() error {
	adj, err := b.Graph.AdjacencyMap()
	if err != nil {
		return err
	}
	pred, err := b.Graph.PredecessorMap()
	if err != nil {
		return err
	}
	var errs error
	for _, id := range b.added {
		for target := range adj[id] {
			errs = errors.Join(errs, removeEdge(b.Graph, id, target))
		}
		for source := range pred[id] {
			errs = errors.Join(errs, removeEdge(b.Graph, source, id))
		}
	}
	for i := len(b.added) - 1; i >= 0; i-- {
		errs = errors.Join(errs, b.Graph.RemoveVertex(b.added[i]))
	}
	b.added = nil
	return errs
}

// removeEdge tolerates edges already removed from the other end.
func removeEdge(g Graph, from, to ResourceId) error {
	err := g.RemoveEdge(from, to)
	if errors.Is(err, graph.ErrEdgeNotFound) {
		return nil
	}
	return err
}
