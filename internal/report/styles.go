package report

import "github.com/charmbracelet/lipgloss"

var (
	colorRed    = lipgloss.Color("#fb4934")
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#fe8019")
)

var (
	// StyleCritical highlights zero-slack rows.
	StyleCritical = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	StyleOK       = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarn     = lipgloss.NewStyle().Foreground(colorYellow)
	StyleDim      = lipgloss.NewStyle().Foreground(colorDim)
	StyleHeader   = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
)
