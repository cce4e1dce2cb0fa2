package config

import (
	"fmt"
	"slices"

	"github.com/aristath/pert/internal/scheduler"
)

var (
	outputFormats = []string{"text", "table", "json"}
	logLevels     = []string{"debug", "info", "warn", "error"}
	logFormats    = []string{"text", "json"}
)

// Validate checks that every enumerated field holds a known value.
func (c *PertConfig) Validate() error {
	if !slices.Contains(outputFormats, c.Output.Format) {
		return fmt.Errorf("output.format %q: must be one of %v", c.Output.Format, outputFormats)
	}
	if _, err := scheduler.ParseSorter(c.Analysis.Sorter); err != nil {
		return fmt.Errorf("analysis.sorter: %w", err)
	}
	if c.Analysis.ParallelSlack < 0 {
		return fmt.Errorf("analysis.parallel_slack %d: must not be negative", c.Analysis.ParallelSlack)
	}
	if !slices.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("log.level %q: must be one of %v", c.Log.Level, logLevels)
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		return fmt.Errorf("log.format %q: must be one of %v", c.Log.Format, logFormats)
	}
	return nil
}
