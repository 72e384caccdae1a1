package main

import (
	"bufio"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	questionStyle = lipgloss.NewStyle().
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			PaddingLeft(2)

	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))
)

// confirmModel asks a yes/no question. Anything but y answers no.
type confirmModel struct {
	question string
	items    []string
	answered bool
	yes      bool
}

func (m *confirmModel) Init() tea.Cmd { return nil }

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answered, m.yes = true, true
		return m, tea.Quit
	case "n", "N", "esc", "q", "ctrl+c", "enter":
		m.answered, m.yes = true, false
		return m, tea.Quit
	}
	return m, nil
}

func (m *confirmModel) View() string {
	var b strings.Builder
	b.WriteString(questionStyle.Render(m.question))
	b.WriteString("\n")
	for _, it := range m.items {
		b.WriteString(itemStyle.Render(it))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.answered {
		answer := "no"
		if m.yes {
			answer = "yes"
		}
		b.WriteString(answerStyle.Render(answer))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(helpStyle.Render("y yes • n no"))
	return b.String()
}

// confirm asks question on the terminal, or reads a y/n line when the
// streams are not interactive.
func (a *app) confirm(cmd *cobra.Command, question string, items []string) (bool, error) {
	if a.terminal() {
		m := &confirmModel{question: question, items: items}
		_, err := a.runProgram(m,
			tea.WithContext(cmd.Context()),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()))
		if err != nil {
			return false, fmt.Errorf("prompt: %w", err)
		}
		return m.yes, nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s [y/n] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
