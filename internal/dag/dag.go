// SPDX-License-Identifier: MPL-2.0

// Package dag orders nodes of a directed graph. An edge from A to B means A
// must be built before B; for targets, every dependency points at the
// targets that depend on it.
package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is the sentinel error wrapped by CycleError.
var ErrCycle = errors.New("dependency cycle")

type (
	// CycleError reports the nodes left unordered because they sit on or
	// behind a cycle.
	CycleError[N comparable] struct {
		Nodes []N
	}

	// Graph is a directed graph with deterministic ordering: nodes keep the
	// order in which they were first added.
	Graph[N comparable] struct {
		adjacency map[N][]N
		nodes     []N
		nodeSet   map[N]bool
	}
)

// Error implements the error interface for CycleError.
func (e *CycleError[N]) Error() string {
	parts := make([]string, len(e.Nodes))
	for i, n := range e.Nodes {
		parts[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("dependency cycle among: %s", strings.Join(parts, ", "))
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError[N]) Unwrap() error { return ErrCycle }

// New creates an empty Graph.
func New[N comparable]() *Graph[N] {
	return &Graph[N]{
		adjacency: make(map[N][]N),
		nodeSet:   make(map[N]bool),
	}
}

// AddNode adds n. Adding an existing node is a no-op.
func (g *Graph[N]) AddNode(n N) {
	if g.nodeSet[n] {
		return
	}
	g.nodeSet[n] = true
	g.nodes = append(g.nodes, n)
}

// AddEdge adds from -> to, adding either node if needed. Repeated edges are
// kept once.
func (g *Graph[N]) AddEdge(from, to N) {
	g.AddNode(from)
	g.AddNode(to)
	for _, existing := range g.adjacency[from] {
		if existing == to {
			return
		}
	}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Len returns the number of nodes.
func (g *Graph[N]) Len() int { return len(g.nodes) }

// TopologicalSort returns every node after all of its predecessors (Kahn's
// algorithm). Nodes that become ready together keep insertion order.
func (g *Graph[N]) TopologicalSort() ([]N, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[N]int, len(g.nodes))
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]N, 0, len(g.nodes))
	for _, n := range g.nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	result := make([]N, 0, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		result = append(result, n)
		for _, neighbor := range g.adjacency[n] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var stuck []N
		for _, n := range g.nodes {
			if inDegree[n] > 0 {
				stuck = append(stuck, n)
			}
		}
		return nil, &CycleError[N]{Nodes: stuck}
	}
	return result, nil
}

// Reachable returns the nodes reachable from start, excluding start, in
// breadth-first order. Unknown nodes reach nothing.
func (g *Graph[N]) Reachable(start N) []N {
	seen := map[N]bool{start: true}
	var out []N
	queue := []N{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, neighbor := range g.adjacency[n] {
			if seen[neighbor] {
				continue
			}
			seen[neighbor] = true
			out = append(out, neighbor)
			queue = append(queue, neighbor)
		}
	}
	return out
}
