package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/pert/internal/config"
)

// SettingsPaneModel manages the preferences form overlay. It edits the
// configuration only; the schedule on screen is never changed.
type SettingsPaneModel struct {
	form        *huh.Form
	config      *config.PertConfig
	globalPath  string
	projectPath string
	width       int
	height      int
	visible     bool
	saved       bool
	err         error

	// Form field bindings
	saveTarget    string
	outputFormat  string
	sorter        string
	parallelSlack string
	printGraph    bool
	logLevel      string
}

// NewSettingsPaneModel creates a new settings pane.
func NewSettingsPaneModel(cfg *config.PertConfig, globalPath, projectPath string) SettingsPaneModel {
	m := SettingsPaneModel{
		config:      cfg,
		globalPath:  globalPath,
		projectPath: projectPath,
	}
	m.loadFromConfig()
	m.buildForm()
	return m
}

func (m *SettingsPaneModel) loadFromConfig() {
	m.saveTarget = "project"
	m.outputFormat = m.config.Output.Format
	m.sorter = m.config.Analysis.Sorter
	m.parallelSlack = strconv.Itoa(m.config.Analysis.ParallelSlack)
	m.printGraph = m.config.Output.PrintGraph
	m.logLevel = m.config.Log.Level
}

func (m *SettingsPaneModel) buildForm() {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("saveTarget").
				Title("Save To").
				Options(
					huh.NewOption("Project (.pert/config.json)", "project"),
					huh.NewOption("Global (~/.pert/config.json)", "global"),
				).
				Value(&m.saveTarget),
		).Title("Save Target"),

		huh.NewGroup(
			huh.NewSelect[string]().
				Key("outputFormat").
				Title("Report Format").
				Options(huh.NewOptions("text", "table", "json")...).
				Value(&m.outputFormat),

			huh.NewConfirm().
				Key("printGraph").
				Title("Print Graph Before Report").
				Value(&m.printGraph),
		).Title("Output"),

		huh.NewGroup(
			huh.NewSelect[string]().
				Key("sorter").
				Title("Topological Sort").
				Options(huh.NewOptions("dfs-iterative", "dfs", "kahn")...).
				Value(&m.sorter),

			huh.NewInput().
				Key("parallelSlack").
				Title("Slack Workers").
				Placeholder("0").
				Validate(validateWorkers).
				Value(&m.parallelSlack),

			huh.NewSelect[string]().
				Key("logLevel").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&m.logLevel),
		).Title("Analysis"),
	)
}

func validateWorkers(s string) error {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative integer")
	}
	return nil
}

// Init initializes the settings pane.
func (m SettingsPaneModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the settings pane.
func (m SettingsPaneModel) Update(msg tea.Msg) (SettingsPaneModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == KeyEsc {
		m.visible = false
		m.saved = false
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.save()
	}

	return m, cmd
}

// save applies the form to the config and writes it to the chosen target.
func (m *SettingsPaneModel) save() {
	m.applyFormToConfig()

	targetPath := m.projectPath
	if m.saveTarget == "global" {
		targetPath = m.globalPath
	}

	if err := config.Save(m.config, targetPath); err != nil {
		m.err = err
		m.saved = false
		return
	}
	m.saved = true
	m.err = nil
	m.visible = false
}

func (m *SettingsPaneModel) applyFormToConfig() {
	m.config.Output.Format = m.outputFormat
	m.config.Output.PrintGraph = m.printGraph
	m.config.Analysis.Sorter = m.sorter
	m.config.Analysis.ParallelSlack, _ = strconv.Atoi(m.parallelSlack)
	m.config.Log.Level = m.logLevel
}

// View renders the settings pane.
func (m SettingsPaneModel) View() string {
	if !m.visible {
		return ""
	}

	var content string
	if m.err != nil {
		content = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true).
			Render(fmt.Sprintf("✗ Error saving: %v", m.err))
	} else {
		content = m.form.View()
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(max(m.width-4, 0)).
		Height(max(m.height-4, 0))

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Render("⚙ Settings")

	return lipgloss.JoinVertical(lipgloss.Left, title, style.Render(content))
}

// SetSize updates the dimensions of the settings pane.
func (m *SettingsPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.form != nil {
		m.form.WithWidth(w - 8).WithHeight(h - 8)
	}
}

// SetVisible shows or hides the settings pane. Showing it rebuilds the form
// from the current config.
func (m *SettingsPaneModel) SetVisible(v bool) {
	m.visible = v
	m.saved = false
	m.err = nil

	if v {
		m.loadFromConfig()
		m.buildForm()
	}
}

// IsVisible returns whether the settings pane is currently visible.
func (m SettingsPaneModel) IsVisible() bool {
	return m.visible
}

// Saved reports whether the last form submission was written to disk.
func (m SettingsPaneModel) Saved() bool {
	return m.saved
}
