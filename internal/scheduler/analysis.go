package scheduler

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidArgument is wrapped by every input validation failure of Analyze.
var ErrInvalidArgument = errors.New("invalid argument")

type options struct {
	sorter       Sorter
	slackWorkers int
}

// Option configures Analyze.
type Option func(*options)

// WithSorter selects the topological sort strategy. The default is SortDFSIterative.
func WithSorter(s Sorter) Option {
	return func(o *options) { o.sorter = s }
}

// WithParallelSlack derives slack with up to workers goroutines once both
// passes are complete. Values below 2 keep the derivation sequential.
func WithParallelSlack(workers int) Option {
	return func(o *options) { o.slackWorkers = workers }
}

// Result is the outcome of Analyze: either an analysis of a DAG or a
// rejection because the graph has a cycle.
type Result struct {
	analysis *Analysis
	cycle    []int
}

// Analysis returns the schedule and true when the graph was a DAG.
func (r Result) Analysis() (*Analysis, bool) {
	return r.analysis, r.analysis != nil
}

// IsDAG reports whether a schedule exists.
func (r Result) IsDAG() bool {
	return r.analysis != nil
}

// Cycle returns one offending cycle of a rejected graph, or nil when the graph
// was a DAG or the sorter could not name the cycle.
func (r Result) Cycle() []int {
	return r.cycle
}

// Analyze runs PERT analysis of g with one duration per vertex.
// Argument violations return an error wrapping ErrInvalidArgument. A cyclic
// graph is not an error: it yields a Result whose Analysis reports false.
func Analyze(g Graph, durations []int, opts ...Option) (Result, error) {
	if g == nil {
		return Result{}, fmt.Errorf("%w: nil graph", ErrInvalidArgument)
	}

	o := options{sorter: SortDFSIterative}
	for _, opt := range opts {
		opt(&o)
	}

	a := newAnalyzer(g, o)
	if err := a.setDurations(durations); err != nil {
		return Result{}, err
	}
	if err := a.run(); err != nil {
		return Result{}, err
	}

	if a.state == stateRejected {
		return Result{cycle: a.cycle}, nil
	}
	return Result{analysis: &Analysis{
		g:           g,
		tasks:       a.tasks,
		completion:  a.completion,
		numCritical: a.numCritical,
	}}, nil
}

// analyzer owns the attribute store for the duration of one analysis.
type analyzer struct {
	g           Graph
	opts        options
	state       state
	tasks       []Attributes
	completion  int
	numCritical int
	cycle       []int
}

func newAnalyzer(g Graph, opts options) *analyzer {
	return &analyzer{
		g:     g,
		opts:  opts,
		state: stateConstructed,
		tasks: make([]Attributes, g.Size()),
	}
}

func (a *analyzer) setDurations(durations []int) error {
	if a.state != stateConstructed {
		return fmt.Errorf("setting durations in state %s", a.state)
	}
	if len(durations) != len(a.tasks) {
		return fmt.Errorf("%w: %d durations for %d vertices", ErrInvalidArgument, len(durations), len(a.tasks))
	}
	for u, d := range durations {
		if d < 0 {
			return fmt.Errorf("%w: vertex %d has negative duration %d", ErrInvalidArgument, u, d)
		}
	}

	for u, d := range durations {
		a.tasks[u] = Attributes{Duration: d}
	}
	a.state = statePrimed
	return nil
}

func (a *analyzer) run() error {
	if a.state != statePrimed {
		return fmt.Errorf("running analysis in state %s", a.state)
	}

	order, err := TopologicalOrder(a.g, a.opts.sorter)
	if err != nil {
		var cycleErr *CycleError
		if errors.As(err, &cycleErr) {
			a.cycle = cycleErr.Cycle
			a.state = stateRejected
			return nil
		}
		return err
	}

	if err := a.forward(order); err != nil {
		return err
	}
	a.backward(order)
	a.deriveSlack()
	a.state = stateAnalyzed
	return nil
}

// forward computes ES and EF. Every predecessor is finished before u is
// visited because order is topological. A path whose length does not fit
// in an int is an argument violation.
func (a *analyzer) forward(order []int) error {
	for _, u := range order {
		es := 0
		for _, e := range a.g.InEdges(u) {
			if ef := a.tasks[e.From].EF; ef > es {
				es = ef
			}
		}
		d := a.tasks[u].Duration
		if es > math.MaxInt-d {
			return fmt.Errorf("%w: vertex %d finishes after the largest representable time (start %d, duration %d)",
				ErrInvalidArgument, u, es, d)
		}
		a.tasks[u].ES = es
		a.tasks[u].EF = es + d
	}

	a.completion = 0
	for _, t := range a.tasks {
		if t.EF > a.completion {
			a.completion = t.EF
		}
	}
	return nil
}

// backward computes LF and LS. Seeding every LF with the completion time
// makes it the identity of the min reduction, so sinks keep it unchanged.
func (a *analyzer) backward(order []int) {
	for u := range a.tasks {
		a.tasks[u].LF = a.completion
	}
	for i := len(order) - 1; i >= 0; i-- {
		u := order[i]
		lf := a.tasks[u].LF
		for _, e := range a.g.OutEdges(u) {
			if ls := a.tasks[e.To].LS; ls < lf {
				lf = ls
			}
		}
		a.tasks[u].LF = lf
		a.tasks[u].LS = lf - a.tasks[u].Duration
	}
}

func (a *analyzer) deriveSlack() {
	if a.opts.slackWorkers > 1 && len(a.tasks) > 1 {
		deriveSlackParallel(a.tasks, a.opts.slackWorkers)
	} else {
		for u := range a.tasks {
			a.tasks[u].Slack = a.tasks[u].LF - a.tasks[u].EF
		}
	}

	a.numCritical = 0
	for _, t := range a.tasks {
		if t.Critical() {
			a.numCritical++
		}
	}
}

// deriveSlackParallel splits tasks into disjoint ranges, one per goroutine.
func deriveSlackParallel(tasks []Attributes, workers int) {
	chunk := (len(tasks) + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(tasks); lo += chunk {
		part := tasks[lo:min(lo+chunk, len(tasks))]
		g.Go(func() error {
			for i := range part {
				part[i].Slack = part[i].LF - part[i].EF
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Analysis is the read-only schedule of a DAG. Vertex arguments are indices
// in 0..Size()-1; out of range indices panic like slice indexing.
type Analysis struct {
	g           Graph
	tasks       []Attributes
	completion  int
	numCritical int
}

// Size returns the number of vertices.
func (a *Analysis) Size() int { return len(a.tasks) }

// EC is the earliest time u can be completed (EF).
func (a *Analysis) EC(u int) int { return a.tasks[u].EF }

// LC is the latest time u can be completed without delaying the project (LF).
func (a *Analysis) LC(u int) int { return a.tasks[u].LF }

func (a *Analysis) ES(u int) int { return a.tasks[u].ES }
func (a *Analysis) EF(u int) int { return a.tasks[u].EF }
func (a *Analysis) LS(u int) int { return a.tasks[u].LS }
func (a *Analysis) LF(u int) int { return a.tasks[u].LF }

// Slack is LF - EF of u.
func (a *Analysis) Slack(u int) int { return a.tasks[u].Slack }

// Critical reports whether u has zero slack.
func (a *Analysis) Critical(u int) bool { return a.tasks[u].Critical() }

// NumCritical returns the number of critical vertices.
func (a *Analysis) NumCritical() int { return a.numCritical }

// CriticalPath returns the project completion time, the length of a longest
// duration-weighted path.
func (a *Analysis) CriticalPath() int { return a.completion }

// Task returns a copy of u's attributes.
func (a *Analysis) Task(u int) Attributes { return a.tasks[u] }

// Tasks returns a copy of every vertex's attributes in index order.
func (a *Analysis) Tasks() []Attributes {
	return append([]Attributes(nil), a.tasks...)
}

// CriticalTasks returns the critical vertices in ascending index order.
func (a *Analysis) CriticalTasks() []int {
	critical := make([]int, 0, a.numCritical)
	for u, t := range a.tasks {
		if t.Critical() {
			critical = append(critical, u)
		}
	}
	return critical
}
