package scheduler

import "sort"

// Wave is a group of tasks sharing the same earliest start; they can run in parallel.
type Wave struct {
	Index    int
	ES       int
	Tasks    []int // ascending vertex index
	Critical bool  // true if any task in the wave is critical
}

// Waves groups vertices by earliest start, in ascending ES.
func (a *Analysis) Waves() []Wave {
	groups := make(map[int][]int)
	for u, t := range a.tasks {
		groups[t.ES] = append(groups[t.ES], u)
	}

	starts := make([]int, 0, len(groups))
	for es := range groups {
		starts = append(starts, es)
	}
	sort.Ints(starts)

	waves := make([]Wave, len(starts))
	for i, es := range starts {
		w := Wave{Index: i, ES: es, Tasks: groups[es]}
		for _, u := range w.Tasks {
			if a.tasks[u].Critical() {
				w.Critical = true
				break
			}
		}
		waves[i] = w
	}
	return waves
}

// CriticalChain returns one critical path as vertices from a source to a
// sink. Consecutive vertices u, v are joined by an edge with EF(u) = ES(v) and
// every vertex has zero slack. It returns nil for an empty graph.
func (a *Analysis) CriticalChain() []int {
	end := -1
	for u, t := range a.tasks {
		if t.EF == a.completion && t.Critical() {
			end = u
			break
		}
	}
	if end < 0 {
		return nil
	}

	// Walk backwards: a critical vertex with predecessors has a critical
	// predecessor finishing exactly when it starts.
	chain := []int{end}
	for u := end; ; {
		next := -1
		for _, e := range a.g.InEdges(u) {
			p := a.tasks[e.From]
			if p.Critical() && p.EF == a.tasks[u].ES {
				next = e.From
				break
			}
		}
		if next < 0 {
			break
		}
		chain = append(chain, next)
		u = next
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	// Zero-duration successors can follow a vertex finishing at completion
	// time; extend forward until a sink.
	for u := end; ; {
		next := -1
		for _, e := range a.g.OutEdges(u) {
			s := a.tasks[e.To]
			if s.Critical() && s.ES == a.tasks[u].EF {
				next = e.To
				break
			}
		}
		if next < 0 {
			break
		}
		chain = append(chain, next)
		u = next
	}
	return chain
}
