package concept

import (
	"github.com/dominikbraun/graph"
)

// GraphView mirrors the concept/link structure into a read-mostly
// dominikbraun/graph directed graph (at most one edge per ordered concept
// pair), used for INF summary's graph_order field and for
// Reasoner.ReachableConcepts. It is a
// secondary index only: the bags in Concept/Memory remain the store of
// record for budgets and selection (SPEC_FULL.md §3, grounded on the
// teacher's pattern of layering a library-backed index next to a primary
// store).
type GraphView struct {
	g graph.Graph[string, string]
}

// NewGraphView constructs an empty directed graph keyed by concept term
// name.
func NewGraphView() *GraphView {
	return &GraphView{g: graph.New(graph.StringHash, graph.Directed())}
}

// AddConcept ensures a vertex exists for the concept key.
func (v *GraphView) AddConcept(key string) {
	_ = v.g.AddVertex(key)
}

// AddLink records a task-link or term-link edge from one concept to
// another, tolerating edges already present (re-linking is common as
// budgets are redistributed across cycles).
func (v *GraphView) AddLink(from, to string) {
	v.AddConcept(from)
	v.AddConcept(to)
	_ = v.g.AddEdge(from, to)
}

// RemoveConcept drops a vertex (and its edges) on concept eviction.
func (v *GraphView) RemoveConcept(key string) {
	if adj, err := v.g.AdjacencyMap(); err == nil {
		for to := range adj[key] {
			_ = v.g.RemoveEdge(key, to)
		}
	}
	if pred, err := v.g.PredecessorMap(); err == nil {
		for from := range pred[key] {
			_ = v.g.RemoveEdge(from, key)
		}
	}
	_ = v.g.RemoveVertex(key)
}

// ReachableCount returns the number of concepts reachable from key,
// following outgoing links, used by Reasoner.ReachableConcepts. The
// concept graph is routinely cyclic (concepts link back to their callers),
// so this is a plain BFS rather than a topological traversal.
func (v *GraphView) ReachableCount(key string) int {
	adj, err := v.g.AdjacencyMap()
	if err != nil {
		return 0
	}
	visited := map[string]bool{key: true}
	queue := []string{key}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for to := range adj[cur] {
			if !visited[to] {
				visited[to] = true
				queue = append(queue, to)
			}
		}
	}
	return len(visited) - 1
}

// Order is the total number of vertices (one per concept created in memory
// and not since evicted), used by INF summary.
func (v *GraphView) Order() int {
	order, err := v.g.Order()
	if err != nil {
		return 0
	}
	return order
}
