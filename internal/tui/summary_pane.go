package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/pert/internal/graph"
	"github.com/aristath/pert/internal/report"
	"github.com/aristath/pert/internal/scheduler"
)

// SummaryPaneModel shows project totals, the critical chain and the waves
// of tasks sharing an earliest start.
type SummaryPaneModel struct {
	project  *graph.Project
	analysis *scheduler.Analysis
	waves    []scheduler.Wave
	chain    []int
	width    int
	height   int
	focused  bool
}

// NewSummaryPaneModel creates a summary of a.
func NewSummaryPaneModel(p *graph.Project, a *scheduler.Analysis) SummaryPaneModel {
	return SummaryPaneModel{
		project:  p,
		analysis: a,
		waves:    a.Waves(),
		chain:    a.CriticalChain(),
	}
}

// Update handles messages for the summary pane.
func (m SummaryPaneModel) Update(msg tea.Msg) (SummaryPaneModel, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View renders the summary pane.
func (m SummaryPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	name := m.project.Name
	if name == "" {
		name = "Schedule"
	}
	title := StyleTitle.Render(name)
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)))
	b.WriteString("\n\n")

	a := m.analysis
	fmt.Fprintf(&b, "Tasks:         %d\n", a.Size())
	fmt.Fprintf(&b, "Dependencies:  %d\n", m.project.Graph.NumEdges())
	fmt.Fprintf(&b, "Critical path: %s\n", StyleCritical.Render(fmt.Sprintf("%d", a.CriticalPath())))
	fmt.Fprintf(&b, "Critical:      %d of %d\n\n", a.NumCritical(), a.Size())
	b.WriteString(report.RenderShare(a.NumCritical(), a.Size(), min(max(m.width-14, 2), 30)))
	b.WriteString("\n\n")

	if len(m.chain) > 0 {
		b.WriteString(StyleLabel.Render("Critical chain"))
		b.WriteString("\n  ")
		b.WriteString(strings.Join(m.project.LabelAll(m.chain), " → "))
		b.WriteString("\n\n")
	}

	if len(m.waves) > 0 {
		b.WriteString(StyleLabel.Render("Waves"))
		b.WriteString("\n")
		for _, w := range m.waves {
			marker := " "
			if w.Critical {
				marker = StyleCritical.Render("*")
			}
			fmt.Fprintf(&b, "%s t=%-4d %s\n", marker, w.ES, strings.Join(m.project.LabelAll(w.Tasks), " "))
		}
	}

	style := StyleUnfocusedBorder
	if m.focused {
		style = StyleFocusedBorder
	}

	return style.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(b.String())
}

// SetSize updates the pane dimensions.
func (m *SummaryPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused updates the focus state.
func (m *SummaryPaneModel) SetFocused(focused bool) {
	m.focused = focused
}
