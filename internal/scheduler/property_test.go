package scheduler

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/pert/internal/graph"
)

// randomDAG builds a DAG whose edges follow a shuffled vertex ranking, so
// index order is not already topological.
func randomDAG(t *testing.T, r *rand.Rand, n int, density float64) (*graph.Graph, []int) {
	t.Helper()
	rank := r.Perm(n)
	g := graph.New(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r.Float64() < density {
				_, err := g.AddEdge(rank[i], rank[j], 1)
				require.NoError(t, err)
			}
		}
	}
	durations := make([]int, n)
	for u := range durations {
		durations[u] = r.IntN(10)
	}
	return g, durations
}

// longestPath computes the duration-weighted longest path by memoised DFS.
func longestPath(g *graph.Graph, durations []int) int {
	memo := make([]int, g.Size())
	done := make([]bool, g.Size())
	var from func(u int) int
	from = func(u int) int {
		if done[u] {
			return memo[u]
		}
		best := 0
		for _, e := range g.OutEdges(u) {
			best = max(best, from(e.To))
		}
		memo[u] = durations[u] + best
		done[u] = true
		return memo[u]
	}
	best := 0
	for u := 0; u < g.Size(); u++ {
		best = max(best, from(u))
	}
	return best
}

func checkInvariants(t *testing.T, g *graph.Graph, durations []int, a *Analysis) {
	t.Helper()
	total := a.CriticalPath()
	maxEF, maxLF := 0, 0

	for u := 0; u < g.Size(); u++ {
		task := a.Task(u)
		assert.Equal(t, durations[u], task.Duration)
		assert.Equal(t, task.ES+task.Duration, task.EF, "EF = ES + d at %d", u)
		assert.Equal(t, task.LF-task.Duration, task.LS, "LS = LF - d at %d", u)
		assert.Equal(t, task.LF-task.EF, task.Slack, "slack = LF - EF at %d", u)
		assert.Equal(t, task.LS-task.ES, task.Slack, "slack = LS - ES at %d", u)
		assert.GreaterOrEqual(t, task.Slack, 0, "slack >= 0 at %d", u)

		if len(g.InEdges(u)) == 0 {
			assert.Zero(t, task.ES, "source %d starts at 0", u)
		}
		if len(g.OutEdges(u)) == 0 {
			assert.Equal(t, total, task.LF, "sink %d finishes at completion", u)
		}
		maxEF = max(maxEF, task.EF)
		maxLF = max(maxLF, task.LF)
	}

	for _, e := range g.Edges() {
		assert.LessOrEqual(t, a.EF(e.From), a.ES(e.To), "EF(u) <= ES(v) on %v", e)
		assert.LessOrEqual(t, a.LF(e.From), a.LS(e.To), "LF(u) <= LS(v) on %v", e)
	}

	assert.Equal(t, maxEF, total)
	if g.Size() > 0 {
		assert.Equal(t, maxLF, total)
	}
	assert.Equal(t, longestPath(g, durations), total)
	assert.Len(t, a.CriticalTasks(), a.NumCritical())

	if g.Size() == 0 {
		return
	}
	chain := a.CriticalChain()
	require.NotEmpty(t, chain)
	assert.Empty(t, g.InEdges(chain[0]), "chain starts at a source")
	assert.Empty(t, g.OutEdges(chain[len(chain)-1]), "chain ends at a sink")
	for i, u := range chain {
		assert.True(t, a.Critical(u))
		if i > 0 {
			assert.Equal(t, a.EF(chain[i-1]), a.ES(u))
			assert.True(t, hasEdge(g, chain[i-1], u), "chain edge %d->%d", chain[i-1], u)
		}
	}
}

func hasEdge(g *graph.Graph, u, v int) bool {
	for _, e := range g.OutEdges(u) {
		if e.To == v {
			return true
		}
	}
	return false
}

func TestPropertiesRandomDAGs(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for iter := 0; iter < 200; iter++ {
		n := r.IntN(30)
		g, durations := randomDAG(t, r, n, r.Float64()*0.4)

		var first []Attributes
		for _, s := range allSorters {
			a := mustAnalyze(t, g, durations, WithSorter(s))
			checkInvariants(t, g, durations, a)

			// The schedule does not depend on which valid order was used.
			if first == nil {
				first = a.Tasks()
			} else {
				assert.Equal(t, first, a.Tasks(), "iteration %d sorter %v", iter, s)
			}
		}
		if t.Failed() {
			t.Fatalf("invariants broken at iteration %d (n=%d)", iter, n)
		}
	}
}

func TestPropertyDeterministic(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	g, durations := randomDAG(t, r, 40, 0.2)

	a1 := mustAnalyze(t, g, durations)
	a2 := mustAnalyze(t, g, durations)
	assert.Equal(t, a1.Tasks(), a2.Tasks())
	assert.Equal(t, a1.CriticalChain(), a2.CriticalChain())
	assert.Equal(t, a1.Waves(), a2.Waves())
}

func TestPropertyConstantShift(t *testing.T) {
	t.Run("chain grows by c per vertex", func(t *testing.T) {
		g := mustGraph(t, 4, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4})
		base := mustAnalyze(t, g, []int{1, 2, 3, 4})
		shifted := mustAnalyze(t, g, []int{3, 4, 5, 6})
		assert.Equal(t, base.CriticalPath()+2*4, shifted.CriticalPath())
	})

	t.Run("longest path can change", func(t *testing.T) {
		// Path 1->4 is one long task, path 2->3->4 is three short ones.
		g := mustGraph(t, 4, [2]int{1, 4}, [2]int{2, 3}, [2]int{3, 4})
		base := mustAnalyze(t, g, []int{10, 4, 4, 0})
		assert.Equal(t, 10, base.CriticalPath())
		assert.Equal(t, []int{0, 3}, base.CriticalTasks())

		shifted := mustAnalyze(t, g, []int{13, 7, 7, 3})
		assert.Equal(t, 17, shifted.CriticalPath(), "three vertices on the new longest path")
		assert.Equal(t, []int{1, 2, 3}, shifted.CriticalTasks())
	})
}

func TestPropertyCycleEdgeRemoval(t *testing.T) {
	t.Run("removing an edge of the only cycle yields a DAG", func(t *testing.T) {
		cyclic := mustGraph(t, 3, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 1})
		res, err := Analyze(cyclic, []int{1, 1, 1})
		require.NoError(t, err)
		assert.False(t, res.IsDAG())

		broken := mustGraph(t, 3, [2]int{1, 2}, [2]int{2, 3})
		res, err = Analyze(broken, []int{1, 1, 1})
		require.NoError(t, err)
		assert.True(t, res.IsDAG())
	})

	t.Run("a second cycle survives the removal", func(t *testing.T) {
		// Cycles 1<->2 and 2<->3; dropping 1->2 leaves 2<->3.
		g := mustGraph(t, 3, [2]int{2, 1}, [2]int{2, 3}, [2]int{3, 2})
		res, err := Analyze(g, []int{1, 1, 1})
		require.NoError(t, err)
		assert.False(t, res.IsDAG())
		assert.Equal(t, []int{1, 2}, res.Cycle())
	})
}
