package config

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *PertConfig {
	return &PertConfig{
		Output: OutputConfig{
			Format: "text",
		},
		Analysis: AnalysisConfig{
			Sorter: "dfs-iterative",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Cases: CasesConfig{
			Dir: "testcases",
			Ext: ".txt",
		},
	}
}
