package runner

import (
	"log/slog"

	"github.com/aristath/pert/internal/events"
)

// LogEvents writes every event from ch to logger until ch is closed.
func LogEvents(logger *slog.Logger, ch <-chan events.Event) {
	for e := range ch {
		switch ev := e.(type) {
		case events.CaseStartedEvent:
			logger.Debug("case started", "run_id", ev.RunID, "case", ev.Case)
		case events.CaseAnalyzedEvent:
			logger.Info("case analyzed",
				"run_id", ev.RunID,
				"case", ev.Case,
				"vertices", ev.Vertices,
				"critical_path", ev.CriticalPath,
				"num_critical", ev.NumCritical,
				"duration", ev.Duration)
		case events.CaseRejectedEvent:
			logger.Info("case rejected", "run_id", ev.RunID, "case", ev.Case, "cycle", ev.Cycle)
		case events.CaseFailedEvent:
			logger.Warn("case failed", "run_id", ev.RunID, "case", ev.Case, "error", ev.Err)
		case events.BatchProgressEvent:
			logger.Debug("batch progress",
				"run_id", ev.RunID,
				"done", ev.Done,
				"total", ev.Total,
				"failed", ev.Failed)
		default:
			logger.Debug("event", "type", e.EventType(), "case", e.CaseName())
		}
	}
}
