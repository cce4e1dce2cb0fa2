package scheduler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/pert/internal/graph"
)

func mustAnalyze(t *testing.T, g Graph, durations []int, opts ...Option) *Analysis {
	t.Helper()
	res, err := Analyze(g, durations, opts...)
	require.NoError(t, err)
	a, ok := res.Analysis()
	require.True(t, ok, "expected a DAG, got cycle %v", res.Cycle())
	return a
}

func assertSchedule(t *testing.T, a *Analysis, u int, es, ef, ls, lf, slack int, critical bool) {
	t.Helper()
	got := a.Task(u)
	want := Attributes{Duration: got.Duration, ES: es, EF: ef, LS: ls, LF: lf, Slack: slack}
	assert.Equal(t, want, got, "vertex %d", u+1)
	assert.Equal(t, critical, a.Critical(u), "vertex %d critical", u+1)
}

func TestAnalyze_Canonical(t *testing.T) {
	g := mustGraph(t, 10, canonicalEdges...)
	durations := []int{0, 3, 2, 3, 2, 1, 3, 2, 4, 1}

	for _, s := range allSorters {
		t.Run(s.String(), func(t *testing.T) {
			a := mustAnalyze(t, g, durations, WithSorter(s))

			assert.Equal(t, 10, a.CriticalPath())
			assert.Equal(t, 5, a.NumCritical())
			assert.Equal(t, []int{0, 1, 3, 6, 9}, a.CriticalTasks())

			assertSchedule(t, a, 0, 0, 0, 0, 0, 0, true)
			assertSchedule(t, a, 1, 0, 3, 0, 3, 0, true)
			assertSchedule(t, a, 2, 0, 2, 2, 4, 2, false)
			assertSchedule(t, a, 3, 3, 6, 3, 6, 0, true)
			assertSchedule(t, a, 4, 3, 5, 4, 6, 1, false)
			assertSchedule(t, a, 5, 2, 3, 4, 5, 2, false)
			assertSchedule(t, a, 6, 6, 9, 6, 9, 0, true)
			assertSchedule(t, a, 7, 5, 7, 7, 9, 2, false)
			assertSchedule(t, a, 8, 3, 7, 5, 9, 2, false)
			assertSchedule(t, a, 9, 9, 10, 9, 10, 0, true)

			assert.Equal(t, []int{0, 1, 3, 6, 9}, a.CriticalChain())
		})
	}
}

func TestAnalyze_SingleVertex(t *testing.T) {
	a := mustAnalyze(t, graph.New(1), []int{0})

	assertSchedule(t, a, 0, 0, 0, 0, 0, 0, true)
	assert.Equal(t, 0, a.CriticalPath())
	assert.Equal(t, 1, a.NumCritical())
}

func TestAnalyze_LinearChain(t *testing.T) {
	g := mustGraph(t, 4, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4})
	a := mustAnalyze(t, g, []int{1, 2, 3, 4})

	efs := make([]int, a.Size())
	for u := range efs {
		efs[u] = a.EF(u)
	}
	assert.Equal(t, []int{1, 3, 6, 10}, efs)
	assert.Equal(t, 10, a.CriticalPath())
	assert.Equal(t, 4, a.NumCritical())
	assert.Len(t, a.Waves(), 4)
}

func TestAnalyze_Diamond(t *testing.T) {
	g := mustGraph(t, 4, [2]int{1, 2}, [2]int{1, 3}, [2]int{2, 4}, [2]int{3, 4})
	a := mustAnalyze(t, g, []int{1, 5, 2, 1})

	assert.Equal(t, 6, a.EF(1))
	assert.Equal(t, 3, a.EF(2))
	assert.Equal(t, 7, a.EF(3))
	assert.Equal(t, 7, a.CriticalPath())
	assert.Equal(t, []int{0, 1, 3}, a.CriticalTasks())
	assert.Equal(t, 3, a.Slack(2))
	assert.Equal(t, []int{0, 1, 3}, a.CriticalChain())

	waves := a.Waves()
	require.Len(t, waves, 3)
	assert.Equal(t, []int{1, 2}, waves[1].Tasks)
	assert.True(t, waves[1].Critical)
}

func TestAnalyze_Cycle(t *testing.T) {
	g := mustGraph(t, 3, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 1})

	for _, s := range allSorters {
		t.Run(s.String(), func(t *testing.T) {
			res, err := Analyze(g, []int{1, 1, 1}, WithSorter(s))
			require.NoError(t, err, "a cycle is a rejection, not an error")

			a, ok := res.Analysis()
			assert.False(t, ok)
			assert.Nil(t, a)
			assert.False(t, res.IsDAG())
			if s != SortKahn {
				assert.Equal(t, []int{0, 1, 2}, res.Cycle())
			}
		})
	}
}

func TestAnalyze_DisconnectedComponents(t *testing.T) {
	g := mustGraph(t, 4, [2]int{1, 2}, [2]int{3, 4})
	a := mustAnalyze(t, g, []int{2, 3, 1, 10})

	assert.Equal(t, 11, a.CriticalPath())
	assert.Equal(t, []int{2, 3}, a.CriticalTasks())
	assert.Equal(t, 6, a.Slack(0))
	assert.Equal(t, 6, a.Slack(1))
	assert.Equal(t, []int{2, 3}, a.CriticalChain())
}

func TestAnalyze_EmptyGraph(t *testing.T) {
	a := mustAnalyze(t, graph.New(0), nil)

	assert.Zero(t, a.Size())
	assert.Zero(t, a.CriticalPath())
	assert.Zero(t, a.NumCritical())
	assert.Empty(t, a.CriticalTasks())
	assert.Nil(t, a.CriticalChain())
	assert.Empty(t, a.Waves())
}

func TestAnalyze_ECIsEarliestFinish(t *testing.T) {
	g := mustGraph(t, 2, [2]int{1, 2})
	a := mustAnalyze(t, g, []int{4, 3})

	assert.Equal(t, 4, a.ES(1))
	assert.Equal(t, 7, a.EC(1))
	assert.Equal(t, a.EF(1), a.EC(1))
	assert.Equal(t, a.LF(1), a.LC(1))
	assert.Equal(t, 4, a.LS(1))
}

func TestAnalyze_ZeroDurationSink(t *testing.T) {
	// The chain must continue past the vertex that first reaches completion.
	g := mustGraph(t, 3, [2]int{1, 2}, [2]int{2, 3})
	a := mustAnalyze(t, g, []int{2, 0, 0})

	assert.Equal(t, 2, a.CriticalPath())
	assert.Equal(t, []int{0, 1, 2}, a.CriticalChain())
}

func TestAnalyze_ArgumentViolations(t *testing.T) {
	tests := []struct {
		name      string
		g         Graph
		durations []int
		msg       string
	}{
		{name: "nil graph", g: nil, durations: nil, msg: "nil graph"},
		{name: "too few durations", g: graph.New(2), durations: []int{1}, msg: "1 durations for 2 vertices"},
		{name: "too many durations", g: graph.New(1), durations: []int{1, 2}, msg: "2 durations for 1 vertices"},
		{name: "negative duration", g: graph.New(2), durations: []int{1, -3}, msg: "vertex 1 has negative duration -3"},
		{name: "path length overflows", g: mustGraph(t, 2, [2]int{1, 2}), durations: []int{math.MaxInt, 5}, msg: "vertex 1 finishes after the largest representable time"},
		{name: "overflow deep in a chain", g: mustGraph(t, 3, [2]int{1, 2}, [2]int{2, 3}), durations: []int{math.MaxInt / 2, math.MaxInt / 2, 2}, msg: "vertex 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Analyze(tt.g, tt.durations)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.ErrorContains(t, err, tt.msg)
			assert.False(t, res.IsDAG())
		})
	}
}

func TestAnalyze_UnknownSorterIsAnError(t *testing.T) {
	_, err := Analyze(graph.New(1), []int{1}, WithSorter(Sorter(9)))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAnalyze_LargeDurationsWithinRange(t *testing.T) {
	// Only path sums are bounded: parallel tasks may each take MaxInt.
	g := mustGraph(t, 3, [2]int{1, 2})
	a := mustAnalyze(t, g, []int{math.MaxInt, 0, math.MaxInt})

	assert.Equal(t, math.MaxInt, a.CriticalPath())
	assert.Equal(t, 3, a.NumCritical())
	for u := 0; u < a.Size(); u++ {
		assert.GreaterOrEqual(t, a.Slack(u), 0, "vertex %d", u+1)
	}
}

func TestAnalyzerStates(t *testing.T) {
	g := mustGraph(t, 2, [2]int{1, 2})

	a := newAnalyzer(g, options{})
	assert.Equal(t, stateConstructed, a.state)
	assert.ErrorContains(t, a.run(), "state constructed")

	require.NoError(t, a.setDurations([]int{1, 1}))
	assert.Equal(t, statePrimed, a.state)
	assert.ErrorContains(t, a.setDurations([]int{1, 1}), "state primed")

	require.NoError(t, a.run())
	assert.Equal(t, stateAnalyzed, a.state)
	assert.ErrorContains(t, a.run(), "state analyzed")

	cyclic := newAnalyzer(mustGraph(t, 1, [2]int{1, 1}), options{})
	require.NoError(t, cyclic.setDurations([]int{1}))
	require.NoError(t, cyclic.run())
	assert.Equal(t, stateRejected, cyclic.state)
	assert.Equal(t, "rejected", cyclic.state.String())
}

func TestAnalyze_FailedPrimingLeavesNoState(t *testing.T) {
	a := newAnalyzer(graph.New(2), options{})
	require.Error(t, a.setDurations([]int{1, -1}))
	assert.Equal(t, stateConstructed, a.state)
	assert.Equal(t, Attributes{}, a.tasks[0], "no partial write on rejected input")
}

func TestAnalyze_ParallelSlackMatchesSequential(t *testing.T) {
	g := mustGraph(t, 10, canonicalEdges...)
	durations := []int{0, 3, 2, 3, 2, 1, 3, 2, 4, 1}

	seq := mustAnalyze(t, g, durations)
	for _, workers := range []int{2, 3, 4, 16} {
		par := mustAnalyze(t, g, durations, WithParallelSlack(workers))
		assert.Equal(t, seq.Tasks(), par.Tasks(), "workers=%d", workers)
		assert.Equal(t, seq.NumCritical(), par.NumCritical(), "workers=%d", workers)
	}
}

func TestAnalysisTasksIsACopy(t *testing.T) {
	a := mustAnalyze(t, graph.New(1), []int{5})
	tasks := a.Tasks()
	tasks[0].Slack = 99
	assert.Equal(t, 0, a.Slack(0))
}
