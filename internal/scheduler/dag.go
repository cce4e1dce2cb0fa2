package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gammazero/toposort"

	"github.com/aristath/pert/internal/graph"
)

// Graph is the view of a precedence graph the scheduler needs. Vertices are
// the dense indices 0..Size()-1 and are visited in that order.
type Graph interface {
	Size() int
	InEdges(u int) []graph.Edge
	OutEdges(u int) []graph.Edge
}

// ErrCycle is matched by every CycleError.
var ErrCycle = errors.New("graph contains a cycle")

// CycleError reports that no topological order exists. Cycle lists one cycle
// in edge order when the sorter can name it; the last vertex has an edge back
// to the first.
type CycleError struct {
	Cycle []int
	cause error
}

func (e *CycleError) Error() string {
	if len(e.Cycle) == 0 {
		if e.cause != nil {
			return fmt.Sprintf("%v: %v", ErrCycle, e.cause)
		}
		return ErrCycle.Error()
	}
	parts := make([]string, len(e.Cycle))
	for i, u := range e.Cycle {
		parts[i] = fmt.Sprint(u)
	}
	return fmt.Sprintf("%v: %s -> %d", ErrCycle, strings.Join(parts, " -> "), e.Cycle[0])
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }
func (e *CycleError) Unwrap() error        { return e.cause }

// Sorter selects the topological sort strategy.
type Sorter int

const (
	SortDFSIterative Sorter = iota // Depth-first with an explicit work stack
	SortDFS                        // Recursive depth-first
	SortKahn                       // In-degree peeling via gammazero/toposort
)

var sorterNames = map[Sorter]string{
	SortDFSIterative: "dfs-iterative",
	SortDFS:          "dfs",
	SortKahn:         "kahn",
}

func (s Sorter) String() string {
	if name, ok := sorterNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Sorter(%d)", int(s))
}

// ParseSorter maps a configuration name to a Sorter.
func ParseSorter(name string) (Sorter, error) {
	for s, n := range sorterNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown sorter %q (want dfs, dfs-iterative or kahn)", ErrInvalidArgument, name)
}

// TopologicalOrder returns every vertex exactly once such that each edge goes
// from an earlier to a later vertex. On a cycle it returns a *CycleError and
// no order.
func TopologicalOrder(g Graph, s Sorter) ([]int, error) {
	switch s {
	case SortDFS:
		return sortDFS(g)
	case SortDFSIterative:
		return sortDFSIterative(g)
	case SortKahn:
		return sortKahn(g)
	}
	return nil, fmt.Errorf("%w: unknown sorter %v", ErrInvalidArgument, s)
}

// reverseFinish turns a finish list into topological order. Appending and
// reversing is the same as prepending each finished vertex.
func reverseFinish(finish []int) []int {
	for i, j := 0, len(finish)-1; i < j; i, j = i+1, j-1 {
		finish[i], finish[j] = finish[j], finish[i]
	}
	return finish
}

// dfsSort holds the per-vertex flags of one depth-first sort.
type dfsSort struct {
	g        Graph
	explored []bool
	onStack  []bool
	parent   []int
	finish   []int
	cycle    []int
}

func sortDFS(g Graph) ([]int, error) {
	n := g.Size()
	s := &dfsSort{
		g:        g,
		explored: make([]bool, n),
		onStack:  make([]bool, n),
		parent:   make([]int, n),
		finish:   make([]int, 0, n),
	}
	for u := 0; u < n; u++ {
		if s.explored[u] {
			continue
		}
		if !s.visit(u) {
			return nil, &CycleError{Cycle: s.cycle}
		}
	}
	return reverseFinish(s.finish), nil
}

func (s *dfsSort) visit(u int) bool {
	s.explored[u] = true
	s.onStack[u] = true
	for _, e := range s.g.OutEdges(u) {
		v := e.To
		if s.onStack[v] {
			s.cycle = s.trace(u, v)
			return false
		}
		if !s.explored[v] {
			s.parent[v] = u
			if !s.visit(v) {
				return false
			}
		}
	}
	s.onStack[u] = false
	s.finish = append(s.finish, u)
	return true
}

// trace walks parent links from u back to v, the target of the back edge u->v.
func (s *dfsSort) trace(u, v int) []int {
	path := []int{u}
	for x := u; x != v; {
		x = s.parent[x]
		path = append(path, x)
	}
	return reverseFinish(path)
}

type frame struct {
	u    int
	next int // index of the next out-edge to examine
}

// sortDFSIterative visits vertices and edges in the same order as sortDFS, so
// both produce identical orders, but never grows the goroutine stack.
func sortDFSIterative(g Graph) ([]int, error) {
	n := g.Size()
	explored := make([]bool, n)
	onStack := make([]bool, n)
	finish := make([]int, 0, n)
	var stack []frame

	for root := 0; root < n; root++ {
		if explored[root] {
			continue
		}
		explored[root] = true
		onStack[root] = true
		stack = append(stack[:0], frame{u: root})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			out := g.OutEdges(top.u)
			if top.next < len(out) {
				v := out[top.next].To
				top.next++
				if onStack[v] {
					return nil, &CycleError{Cycle: stackCycle(stack, v)}
				}
				if !explored[v] {
					explored[v] = true
					onStack[v] = true
					stack = append(stack, frame{u: v})
				}
				continue
			}
			onStack[top.u] = false
			finish = append(finish, top.u)
			stack = stack[:len(stack)-1]
		}
	}
	return reverseFinish(finish), nil
}

// stackCycle returns the active path from v to the top of the stack.
func stackCycle(stack []frame, v int) []int {
	for i := range stack {
		if stack[i].u == v {
			cycle := make([]int, 0, len(stack)-i)
			for _, f := range stack[i:] {
				cycle = append(cycle, f.u)
			}
			return cycle
		}
	}
	return nil
}

// sortKahn runs gammazero/toposort. Sources get an edge from nil so isolated
// vertices are included.
func sortKahn(g Graph) ([]int, error) {
	n := g.Size()
	var edges []toposort.Edge
	for u := 0; u < n; u++ {
		if len(g.InEdges(u)) == 0 {
			edges = append(edges, toposort.Edge{nil, u})
		}
		for _, e := range g.OutEdges(u) {
			edges = append(edges, toposort.Edge{e.From, e.To})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, &CycleError{cause: err}
	}

	order := make([]int, 0, n)
	for _, v := range sorted {
		if v != nil {
			order = append(order, v.(int))
		}
	}

	// Every vertex is an edge endpoint, so a short result means vertices were lost.
	if len(order) != n {
		return nil, &CycleError{cause: fmt.Errorf("sorted %d of %d vertices", len(order), n)}
	}
	return order, nil
}
