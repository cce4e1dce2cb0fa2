package graph

import (
	"fmt"
	"strings"
)

// Edge is a directed precedence constraint: From must finish before To starts.
// Weight is carried from the input but has no scheduling meaning.
type Edge struct {
	From   int
	To     int
	Weight int
}

// Graph is a directed graph over a fixed vertex set 0..Size()-1.
// The vertex set cannot grow after New; edges keep insertion order.
type Graph struct {
	n     int
	out   [][]Edge
	in    [][]Edge
	edges []Edge
}

// New creates a graph with n vertices and no edges.
func New(n int) *Graph {
	if n < 0 {
		n = 0
	}
	return &Graph{
		n:   n,
		out: make([][]Edge, n),
		in:  make([][]Edge, n),
	}
}

// AddEdge adds the edge from -> to. Indices are 0-based.
// Self loops and parallel edges are accepted; cycle checking is left to the scheduler.
func (g *Graph) AddEdge(from, to, weight int) (Edge, error) {
	if from < 0 || from >= g.n {
		return Edge{}, fmt.Errorf("source vertex %d out of range [0,%d)", from, g.n)
	}
	if to < 0 || to >= g.n {
		return Edge{}, fmt.Errorf("destination vertex %d out of range [0,%d)", to, g.n)
	}

	e := Edge{From: from, To: to, Weight: weight}
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)
	g.edges = append(g.edges, e)
	return e, nil
}

// Size returns the number of vertices.
func (g *Graph) Size() int {
	return g.n
}

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// OutEdges returns the edges leaving u. The slice must not be modified.
func (g *Graph) OutEdges(u int) []Edge {
	return g.out[u]
}

// InEdges returns the edges entering u. The slice must not be modified.
func (g *Graph) InEdges(u int) []Edge {
	return g.in[u]
}

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// String renders the graph as one adjacency line per vertex using 1-based
// vertex numbers, matching the input format.
func (g *Graph) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Graph: n: %d, m: %d, directed: true\n", g.n, len(g.edges))
	for u := 0; u < g.n; u++ {
		fmt.Fprintf(&b, "%d :", u+1)
		for _, e := range g.out[u] {
			fmt.Fprintf(&b, " (%d,%d)", e.From+1, e.To+1)
		}
		b.WriteString("\n")
	}
	return b.String()
}
