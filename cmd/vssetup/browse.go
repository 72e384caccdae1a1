package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/vssetup/internal/report"
	"github.com/wippyai/vssetup/setup"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	versionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browseState int

const (
	stateLoading browseState = iota
	stateList
	stateDetail
)

// loadFunc collects the instance snapshots shown by the browser.
type loadFunc func() ([]*report.Instance, error)

type loadedMsg struct {
	err       error
	instances []*report.Instance
}

type browseModel struct {
	load      loadFunc
	err       error
	instances []*report.Instance
	// visible indexes instances that match the filter.
	visible  []int
	selected int

	spinner  spinner.Model
	filter   textinput.Model
	viewport viewport.Model

	filtering bool
	width     int
	height    int
	state     browseState
}

func newBrowseModel(load loadFunc) *browseModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "name or id"
	ti.Width = 40

	return &browseModel{
		load:     load,
		spinner:  sp,
		filter:   ti,
		viewport: viewport.New(80, 20),
		state:    stateLoading,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadInstances)
}

func (m *browseModel) loadInstances() tea.Msg {
	instances, err := m.load()
	return loadedMsg{err: err, instances: instances}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		return m, nil

	case loadedMsg:
		m.err = msg.err
		m.instances = msg.instances
		m.applyFilter()
		m.state = stateList
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		switch m.state {
		case stateList:
			return m.updateList(msg)
		case stateDetail:
			return m.updateDetail(msg)
		}
	}
	return m, nil
}

func (m *browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
	case "/":
		m.filtering = true
		return m, m.filter.Focus()
	case "enter":
		if len(m.visible) == 0 {
			return m, nil
		}
		m.viewport.SetContent(m.detail(m.instances[m.visible[m.selected]]))
		m.viewport.GotoTop()
		m.state = stateDetail
	}
	return m, nil
}

func (m *browseModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.state = stateList
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// applyFilter recomputes visible and keeps the cursor in range.
func (m *browseModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, inst := range m.instances {
		if q == "" ||
			strings.Contains(strings.ToLower(inst.DisplayName), q) ||
			strings.Contains(strings.ToLower(inst.InstanceID), q) {
			m.visible = append(m.visible, i)
		}
	}
	m.selected = min(m.selected, max(len(m.visible)-1, 0))
}

func (m *browseModel) detail(inst *report.Instance) string {
	var buf bytes.Buffer
	if err := report.WriteText(&buf, []*report.Instance{inst}); err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", err))
	}
	return buf.String()
}

func (m *browseModel) View() string {
	switch {
	case m.state == stateLoading:
		return m.spinner.View() + " Querying setup configuration..."
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Visual Studio instances"))
	b.WriteString("\n\n")

	if m.state == stateDetail {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
		return b.String()
	}

	if len(m.instances) == 0 {
		b.WriteString("No instances found.\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}
	if len(m.visible) == 0 {
		b.WriteString("No matching instances.\n")
	}
	for row, i := range m.visible {
		inst := m.instances[i]
		text := inst.DisplayName + " " + versionStyle.Render(inst.InstallationVersion) + "  " + inst.InstallationPath
		if row == m.selected {
			b.WriteString(selectedStyle.Render("> " + text))
		} else {
			b.WriteString("  " + text)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter details • / filter • q quit"))
	return b.String()
}

func newBrowseCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse installed instances interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lcid, err := a.cfg.LCID()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("all") {
				all = a.cfg.All
			}
			opts := report.Options{LCID: lcid, Packages: true, Errors: true}
			load := func() ([]*report.Instance, error) {
				return a.loadAll(cmd.Context(), all, opts)
			}
			final, err := a.runProgram(newBrowseModel(load),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			// A load failure is shown in the TUI and still decides the
			// exit code.
			if m, ok := final.(*browseModel); ok && m.err != nil {
				return m.err
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include incomplete and not launchable instances")
	return cmd
}

// loadAll collects every instance in its own apartment.
func (a *app) loadAll(ctx context.Context, all bool, opts report.Options) ([]*report.Instance, error) {
	var snaps []*report.Instance
	err := a.with(ctx, func(cfg *setup.Configuration) error {
		var err error
		snaps, err = collectAll(cfg, all, opts)
		return err
	})
	return snaps, err
}
