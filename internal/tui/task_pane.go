package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/pert/internal/graph"
	"github.com/aristath/pert/internal/scheduler"
)

const listWidth = 25

// TaskPaneModel is the task list with a scrollable detail viewport for the
// selected task.
type TaskPaneModel struct {
	project     *graph.Project
	analysis    *scheduler.Analysis
	selectedIdx int
	viewport    viewport.Model
	width       int
	height      int
	focused     bool
	detail      bool // keys scroll the viewport instead of moving the selection
}

// NewTaskPaneModel creates a task pane showing every vertex of a.
func NewTaskPaneModel(p *graph.Project, a *scheduler.Analysis) TaskPaneModel {
	m := TaskPaneModel{
		project:  p,
		analysis: a,
		viewport: viewport.New(0, 0),
	}
	m.updateViewportContent()
	return m
}

// Update handles messages for the task pane.
func (m TaskPaneModel) Update(msg tea.Msg) (TaskPaneModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if !m.focused {
			break
		}
		if m.detail {
			m.viewport, cmd = m.viewport.Update(msg)
			break
		}

		switch msg.String() {
		case KeyJ, KeyDown:
			m.Select(m.selectedIdx + 1)
		case KeyK, KeyUp:
			m.Select(m.selectedIdx - 1)
		case KeyHome:
			m.Select(0)
		case KeyEnd:
			m.Select(m.analysis.Size() - 1)
		}
	}

	return m, cmd
}

// Select moves the selection to u, clamped to the task range.
func (m *TaskPaneModel) Select(u int) {
	u = min(max(u, 0), max(m.analysis.Size()-1, 0))
	if u == m.selectedIdx {
		return
	}
	m.selectedIdx = u
	m.updateViewportContent()
}

// Selected returns the selected vertex.
func (m TaskPaneModel) Selected() int { return m.selectedIdx }

// View renders the task pane.
func (m TaskPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTaskList(listWidth),
		lipgloss.NewStyle().
			Width(m.width-listWidth-4).
			Height(m.height-2).
			Render(m.viewport.View()),
	)

	style := StyleUnfocusedBorder
	if m.focused {
		style = StyleFocusedBorder
	}
	return style.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(content)
}

// renderTaskList renders the list column, keeping the selection in view.
func (m TaskPaneModel) renderTaskList(width int) string {
	var b strings.Builder

	title := StyleTitle.Render("Tasks")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", min(width, lipgloss.Width(title))))
	b.WriteString("\n\n")

	n := m.analysis.Size()
	if n == 0 {
		b.WriteString(StyleLabel.Render("No tasks"))
	}

	rows := max(m.height-6, 1)
	first := 0
	if m.selectedIdx >= rows {
		first = m.selectedIdx - rows + 1
	}
	for u := first; u < n && u < first+rows; u++ {
		name := m.project.Label(u)
		if len(name) > width-6 {
			name = name[:width-9] + "..."
		}

		line := fmt.Sprintf("%s %s", TaskIcon(m.analysis.Critical(u)), name)
		if u == m.selectedIdx {
			line = StyleSelected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(m.height - 2).
		Render(b.String())
}

// TaskIcon marks critical tasks with a filled dot.
func TaskIcon(critical bool) string {
	if critical {
		return StyleCritical.Render("●")
	}
	return StyleSlack.Render("○")
}

// DetailView renders the schedule of u with its neighbours.
func DetailView(p *graph.Project, a *scheduler.Analysis, u int) string {
	t := a.Task(u)
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", StyleTitle.Render(p.Label(u)))
	row := func(label string, v int) {
		fmt.Fprintf(&b, "%s %d\n", StyleLabel.Render(fmt.Sprintf("%-9s", label)), v)
	}
	row("Duration", t.Duration)
	row("ES", t.ES)
	row("EF", t.EF)
	row("LS", t.LS)
	row("LF", t.LF)
	row("Slack", t.Slack)

	status := StyleSlack.Render("has slack")
	if t.Critical() {
		status = StyleCritical.Render("critical")
	}
	fmt.Fprintf(&b, "%s %s\n\n", StyleLabel.Render(fmt.Sprintf("%-9s", "Status")), status)

	preds := make([]int, 0)
	for _, e := range p.Graph.InEdges(u) {
		preds = append(preds, e.From)
	}
	succs := make([]int, 0)
	for _, e := range p.Graph.OutEdges(u) {
		succs = append(succs, e.To)
	}
	fmt.Fprintf(&b, "%s\n  %s\n", StyleLabel.Render("Predecessors"), neighbours(p, preds))
	fmt.Fprintf(&b, "%s\n  %s\n", StyleLabel.Render("Successors"), neighbours(p, succs))
	return b.String()
}

func neighbours(p *graph.Project, vertices []int) string {
	if len(vertices) == 0 {
		return "-"
	}
	return strings.Join(p.LabelAll(vertices), ", ")
}

func (m *TaskPaneModel) updateViewportContent() {
	if m.analysis.Size() == 0 {
		m.viewport.SetContent("No tasks")
		return
	}
	m.viewport.SetContent(DetailView(m.project, m.analysis, m.selectedIdx))
	m.viewport.GotoTop()
}

func (m *TaskPaneModel) resizeViewport() {
	m.viewport.Width = max(m.width-listWidth-4, 10)
	m.viewport.Height = max(m.height-4, 5)
}

// SetSize updates the pane dimensions.
func (m *TaskPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.resizeViewport()
}

// SetFocused updates the focus state. With detail set, keys scroll the
// detail viewport.
func (m *TaskPaneModel) SetFocused(focused, detail bool) {
	m.focused = focused
	m.detail = detail
}
