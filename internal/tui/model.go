// Package tui is a read-only terminal browser for a PERT schedule.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/pert/internal/config"
	"github.com/aristath/pert/internal/graph"
	"github.com/aristath/pert/internal/scheduler"
)

// PaneID identifies which pane is focused.
type PaneID int

const (
	PaneTaskList PaneID = iota
	PaneTaskDetail
	PaneSummary
	numPanes
)

// Model is the root Bubble Tea model for the viewer.
type Model struct {
	taskPane     TaskPaneModel
	summaryPane  SummaryPaneModel
	settingsPane SettingsPaneModel
	focusedPane  PaneID
	width        int
	height       int
	quitting     bool
	showSettings bool
}

// New creates a viewer for the analysis a of project p. cfg is edited by the
// settings overlay and saved to globalPath or projectPath.
func New(p *graph.Project, a *scheduler.Analysis, cfg *config.PertConfig, globalPath, projectPath string) Model {
	m := Model{
		taskPane:     NewTaskPaneModel(p, a),
		summaryPane:  NewSummaryPaneModel(p, a),
		settingsPane: NewSettingsPaneModel(cfg, globalPath, projectPath),
		focusedPane:  PaneTaskList,
	}
	m.updateFocusStates()
	return m
}

// Init initializes the model. The schedule is static, so there is nothing to wait for.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The settings overlay is modal.
		if m.showSettings {
			if msg.String() == KeyEsc {
				m.showSettings = false
				m.settingsPane.SetVisible(false)
				return m, nil
			}
			var cmd tea.Cmd
			m.settingsPane, cmd = m.settingsPane.Update(msg)
			if !m.settingsPane.IsVisible() {
				m.showSettings = false
			}
			return m, cmd
		}

		switch msg.String() {
		case KeyQuit, KeyCtrlC:
			m.quitting = true
			return m, tea.Quit

		case KeySettings:
			m.showSettings = true
			m.settingsPane.SetVisible(true)
			cmds = append(cmds, m.settingsPane.Init())

		case KeyTab:
			m.focusedPane = (m.focusedPane + 1) % numPanes
			m.updateFocusStates()

		case KeyShiftTab:
			m.focusedPane = (m.focusedPane + numPanes - 1) % numPanes
			m.updateFocusStates()

		case KeyPane1:
			m.focusedPane = PaneTaskList
			m.updateFocusStates()

		case KeyPane2:
			m.focusedPane = PaneTaskDetail
			m.updateFocusStates()

		case KeyPane3:
			m.focusedPane = PaneSummary
			m.updateFocusStates()

		default:
			switch m.focusedPane {
			case PaneTaskList, PaneTaskDetail:
				var cmd tea.Cmd
				m.taskPane, cmd = m.taskPane.Update(msg)
				cmds = append(cmds, cmd)
			case PaneSummary:
				var cmd tea.Cmd
				m.summaryPane, cmd = m.summaryPane.Update(msg)
				cmds = append(cmds, cmd)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.computeLayout()
		m.settingsPane.SetSize(msg.Width, msg.Height)

	default:
		// Form internals (cursor blinks, field updates) go to the overlay.
		if m.showSettings {
			var cmd tea.Cmd
			m.settingsPane, cmd = m.settingsPane.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the viewer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.showSettings {
		return m.settingsPane.View()
	}

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, m.taskPane.View(), m.summaryPane.View())
	return lipgloss.JoinVertical(lipgloss.Left, mainContent, HelpView())
}

// computeLayout gives the task pane 60% of the width and the summary the
// rest, leaving one line for the help bar.
func (m *Model) computeLayout() {
	leftWidth := (m.width * 60) / 100
	availableHeight := m.height - 1

	m.taskPane.SetSize(leftWidth, availableHeight)
	m.summaryPane.SetSize(m.width-leftWidth, availableHeight)

	m.updateFocusStates()
}

func (m *Model) updateFocusStates() {
	m.taskPane.SetFocused(m.focusedPane == PaneTaskList || m.focusedPane == PaneTaskDetail, m.focusedPane == PaneTaskDetail)
	m.summaryPane.SetFocused(m.focusedPane == PaneSummary)
}

// FocusedPane returns the focused pane.
func (m Model) FocusedPane() PaneID { return m.focusedPane }

// Selected returns the selected task.
func (m Model) Selected() int { return m.taskPane.Selected() }
