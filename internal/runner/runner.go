// Package runner analyses batches of project files one after another and
// reports progress on the event bus.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aristath/pert/internal/ctxlog"
	"github.com/aristath/pert/internal/events"
	"github.com/aristath/pert/internal/graph"
	"github.com/aristath/pert/internal/scheduler"
)

// Outcome classifies a finished case.
type Outcome int

const (
	OutcomeAnalyzed Outcome = iota
	OutcomeRejected
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAnalyzed:
		return "analyzed"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// CaseResult is the outcome of one case file.
type CaseResult struct {
	Path     string
	Project  *graph.Project // nil when the file could not be loaded
	Result   scheduler.Result
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Config configures a Runner.
type Config struct {
	InputFormat string             // graph.FormatAuto when empty
	Options     []scheduler.Option // Passed to every scheduler.Analyze call
	Bus         *events.EventBus   // Optional; nil disables events
}

// Runner analyses case files sequentially.
type Runner struct {
	cfg   Config
	runID string
	now   func() time.Time
}

// New creates a runner with a fresh run ID.
func New(cfg Config) *Runner {
	if cfg.InputFormat == "" {
		cfg.InputFormat = graph.FormatAuto
	}
	return &Runner{
		cfg:   cfg,
		runID: uuid.NewString(),
		now:   time.Now,
	}
}

// RunID identifies this runner's events.
func (r *Runner) RunID() string { return r.runID }

// RunCase loads and analyses a single file. Failures are reported in the
// result, never returned.
func (r *Runner) RunCase(ctx context.Context, path string) CaseResult {
	logger := ctxlog.FromContext(ctx).With("run_id", r.runID, "case", path)
	start := r.now()
	r.publish(events.TopicCase, events.CaseStartedEvent{RunID: r.runID, Case: path, Timestamp: start})
	logger.Debug("case started")

	res := CaseResult{Path: path}
	fail := func(err error) CaseResult {
		res.Outcome = OutcomeFailed
		res.Err = err
		res.Duration = r.now().Sub(start)
		r.publish(events.TopicCase, events.CaseFailedEvent{
			RunID:     r.runID,
			Case:      path,
			Err:       err,
			Duration:  res.Duration,
			Timestamp: r.now(),
		})
		logger.Debug("case failed", "error", err)
		return res
	}

	// Parse the case file
	p, err := graph.LoadFile(path, r.cfg.InputFormat)
	if err != nil {
		return fail(err)
	}
	res.Project = p
	logger.Debug("case loaded", "vertices", p.Graph.Size(), "edges", p.Graph.NumEdges())

	// Argument violations (negative durations, overflow) fail the case
	result, err := scheduler.Analyze(p.Graph, p.Durations, r.cfg.Options...)
	if err != nil {
		return fail(fmt.Errorf("analyzing %s: %w", path, err))
	}
	res.Result = result
	res.Duration = r.now().Sub(start)

	// A cycle is a rejection, not a failure
	a, ok := result.Analysis()
	if !ok {
		res.Outcome = OutcomeRejected
		r.publish(events.TopicCase, events.CaseRejectedEvent{
			RunID:     r.runID,
			Case:      path,
			Cycle:     result.Cycle(),
			Duration:  res.Duration,
			Timestamp: r.now(),
		})
		logger.Debug("case rejected", "cycle", result.Cycle())
		return res
	}

	res.Outcome = OutcomeAnalyzed
	r.publish(events.TopicCase, events.CaseAnalyzedEvent{
		RunID:        r.runID,
		Case:         path,
		Vertices:     a.Size(),
		CriticalPath: a.CriticalPath(),
		NumCritical:  a.NumCritical(),
		Duration:     res.Duration,
		Timestamp:    r.now(),
	})
	logger.Debug("case analyzed", "critical_path", a.CriticalPath())
	return res
}

// RunAll runs every path in order. It stops before the next case once ctx
// is done and returns the results gathered so far with ctx's error.
func (r *Runner) RunAll(ctx context.Context, paths []string) ([]CaseResult, error) {
	results := make([]CaseResult, 0, len(paths))
	progress := events.BatchProgressEvent{RunID: r.runID, Total: len(paths)}

	for _, path := range paths {
		// Check for cancellation before starting the next case
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := r.RunCase(ctx, path)
		results = append(results, res)

		// Update batch counters and report progress
		progress.Done++
		switch res.Outcome {
		case OutcomeAnalyzed:
			progress.Analyzed++
		case OutcomeRejected:
			progress.Rejected++
		case OutcomeFailed:
			progress.Failed++
		}
		progress.Timestamp = r.now()
		r.publish(events.TopicBatch, progress)
	}

	return results, nil
}

func (r *Runner) publish(topic string, e events.Event) {
	// Bus is optional (single-case use)
	if r.cfg.Bus != nil {
		r.cfg.Bus.Publish(topic, e)
	}
}
