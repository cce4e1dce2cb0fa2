package config

// OutputConfig controls how reports are rendered.
type OutputConfig struct {
	Format     string `json:"format,omitempty"`      // "text", "table" or "json"
	PrintGraph bool   `json:"print_graph,omitempty"` // Dump the adjacency list before the report
}

// AnalysisConfig selects how the schedule is computed.
type AnalysisConfig struct {
	Sorter        string `json:"sorter,omitempty"`         // "dfs-iterative", "dfs" or "kahn"
	ParallelSlack int    `json:"parallel_slack,omitempty"` // Slack workers; below 2 is sequential
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `json:"level,omitempty"`  // "debug", "info", "warn", "error"
	Format string `json:"format,omitempty"` // "text" or "json"
}

// CasesConfig locates batch test cases.
type CasesConfig struct {
	Dir string `json:"dir,omitempty"`
	Ext string `json:"ext,omitempty"` // Including the dot, e.g. ".txt"
}

// PertConfig is the top-level configuration.
type PertConfig struct {
	Output   OutputConfig   `json:"output"`
	Analysis AnalysisConfig `json:"analysis"`
	Log      LogConfig      `json:"log"`
	Cases    CasesConfig    `json:"cases"`
}
