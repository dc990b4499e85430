// Package topology computes connectivity invariants of vertex/edge
// graphs. It reports the first three Betti numbers: β₀ counts connected
// pieces, β₁ counts independent cycles via the Euler-characteristic
// identity for graphs, and β₂ is always zero — consensus graphs are flat,
// there is no enclosed-void detection here.
package topology

import "sort"

// Edge is an undirected edge between two vertex identifiers.
type Edge struct {
	A string // A is one endpoint
	B string // B is the other endpoint
}

// Invariants holds the Betti numbers of a graph.
type Invariants struct {
	B0 int // B0 is the number of connected pieces
	B1 int // B1 is the number of independent cycles
	B2 int // B2 is the number of enclosed voids (always 0)
}

// Partitioned reports whether the graph has split into more than one piece.
// A zero-vertex graph reports false even though it has zero pieces;
// callers must special-case empty inputs.
func (inv Invariants) Partitioned() bool {
	return inv.B0 > 1
}

// Pieces returns the number of connected pieces.
func (inv Invariants) Pieces() int {
	return inv.B0
}

// Compute derives the Betti numbers of the graph spanned by the given
// vertices and edges. Self-loops and duplicate edges are tolerated and
// collapsed. Edge endpoints not present in the vertex list are added to
// it. A zero-vertex graph yields (0,0,0).
func Compute(vertices []string, edges []Edge) Invariants {
	adj, edgeCount := buildAdjacency(vertices, edges)
	if len(adj) == 0 {
		return Invariants{}
	}

	components := reachableGroups(orderedVertices(vertices, adj), adj)

	b1 := edgeCount - len(adj) + len(components)
	if b1 < 0 {
		b1 = 0
	}

	return Invariants{B0: len(components), B1: b1}
}

// Components returns the vertex sets of each connected piece, each sorted,
// ordered by first appearance in the input.
func Components(vertices []string, edges []Edge) [][]string {
	adj, _ := buildAdjacency(vertices, edges)
	if len(adj) == 0 {
		return nil
	}

	components := reachableGroups(orderedVertices(vertices, adj), adj)
	for _, c := range components {
		sort.Strings(c)
	}

	return components
}

// buildAdjacency builds an undirected adjacency structure, collapsing
// self-loops and duplicates, and returns it with the collapsed edge count.
func buildAdjacency(vertices []string, edges []Edge) (map[string]map[string]bool, int) {
	adj := make(map[string]map[string]bool, len(vertices))

	for _, v := range vertices {
		if adj[v] == nil {
			adj[v] = make(map[string]bool)
		}
	}

	edgeCount := 0

	for _, e := range edges {
		if e.A == e.B {
			continue // Self-loop
		}

		if adj[e.A] == nil {
			adj[e.A] = make(map[string]bool)
		}
		if adj[e.B] == nil {
			adj[e.B] = make(map[string]bool)
		}

		if adj[e.A][e.B] {
			continue // Duplicate
		}

		adj[e.A][e.B] = true
		adj[e.B][e.A] = true
		edgeCount++
	}

	return adj, edgeCount
}

// orderedVertices returns every vertex of the adjacency structure,
// preserving the caller's input order and appending endpoints that only
// appeared in edges, sorted, at the end.
func orderedVertices(vertices []string, adj map[string]map[string]bool) []string {
	ordered := make([]string, 0, len(adj))
	seen := make(map[string]bool, len(adj))

	for _, v := range vertices {
		if !seen[v] {
			ordered = append(ordered, v)
			seen[v] = true
		}
	}

	var extra []string
	for v := range adj {
		if !seen[v] {
			extra = append(extra, v)
		}
	}
	sort.Strings(extra)

	return append(ordered, extra...)
}

// reachableGroups runs an iterative depth-first search from every vertex,
// grouping the graph into connected pieces.
func reachableGroups(ordered []string, adj map[string]map[string]bool) [][]string {
	visited := make(map[string]bool, len(adj))

	var components [][]string

	for _, start := range ordered {
		if visited[start] {
			continue
		}

		var component []string
		stack := []string{start}
		visited[start] = true

		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, v)

			for next := range adj[v] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}

		components = append(components, component)
	}

	return components
}
