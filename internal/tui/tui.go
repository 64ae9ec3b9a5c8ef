// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui renders a conversion run as an interactive terminal
// surface. It drives the same Runner as the plain CLI and shows the same
// report shape.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/keep-to-joplin/internal/convert"
	"github.com/pdiddy/keep-to-joplin/pkg/types"
)

// maxVisibleLines bounds the rolling outcome log in the viewport.
const maxVisibleLines = 12

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	convertedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	summaryStyle   = lipgloss.NewStyle().Bold(true)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type outcomeMsg types.Outcome

type doneMsg struct {
	report *convert.Report
	err    error
}

// Model is the bubbletea model for one conversion run.
type Model struct {
	cfg     types.ConvertConfig
	spinner spinner.Model
	events  chan tea.Msg

	lines     []string
	converted int
	skipped   int
	failed    int

	report   *convert.Report
	err      error
	finished bool
	quitting bool
}

// New builds a Model for cfg. The run starts when the program does.
func New(cfg types.ConvertConfig) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle
	return Model{
		cfg:     cfg,
		spinner: sp,
		events:  make(chan tea.Msg),
	}
}

// Report returns the finished run's report, or nil if the run did not
// complete.
func (m Model) Report() *convert.Report {
	return m.report
}

// Err returns the run's precondition error, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, runCmd(m.cfg, m.events), waitEvent(m.events))
}

// runCmd executes the pipeline in the background, forwarding each outcome
// through events and returning the final report.
func runCmd(cfg types.ConvertConfig, events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		runner := convert.NewRunner(cfg, convert.WithProgress(func(o types.Outcome) {
			events <- outcomeMsg(o)
		}))
		report, err := runner.Run()
		return doneMsg{report: report, err: err}
	}
}

// waitEvent delivers the next forwarded outcome.
func waitEvent(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case outcomeMsg:
		m.addOutcome(types.Outcome(msg))
		return m, waitEvent(m.events)

	case doneMsg:
		m.finished = true
		m.report = msg.report
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) addOutcome(o types.Outcome) {
	var line string
	switch o.Status {
	case types.StatusConverted:
		m.converted++
		line = convertedStyle.Render(fmt.Sprintf("converted  %s -> %s", o.Path, o.Filename))
	case types.StatusSkipped:
		m.skipped++
		line = skippedStyle.Render(fmt.Sprintf("skipped    %s (%s)", o.Path, o.Reason))
	case types.StatusFailed:
		m.failed++
		line = failedStyle.Render(fmt.Sprintf("failed     %s (%s)", o.Path, o.Reason))
	}

	m.lines = append(m.lines, line)
	if len(m.lines) > maxVisibleLines {
		m.lines = m.lines[len(m.lines)-maxVisibleLines:]
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	if m.err != nil {
		b.WriteString(failedStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
		return b.String()
	}

	if m.finished {
		b.WriteString(titleStyle.Render("Conversion finished"))
	} else {
		b.WriteString(m.spinner.View())
		b.WriteString(titleStyle.Render(" Converting ") + m.cfg.InputDir)
	}
	b.WriteString("\n\n")

	for _, line := range m.lines {
		b.WriteString("  " + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(summaryStyle.Render(fmt.Sprintf(
		"%d converted, %d skipped, %d failed", m.converted, m.skipped, m.failed)))
	b.WriteString("\n")

	if m.finished {
		if m.cfg.DryRun {
			b.WriteString(helpStyle.Render("dry run: no files were written"))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(helpStyle.Render("q/esc: quit"))
		b.WriteString("\n")
	}

	return b.String()
}
