// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/keep-to-joplin/internal/convert"
	"github.com/pdiddy/keep-to-joplin/pkg/types"
)

func TestUpdateOutcome(t *testing.T) {
	m := New(types.ConvertConfig{InputDir: "in", OutputDir: "out"})

	next, cmd := m.Update(outcomeMsg(types.Converted("in/a.json", "a.md", nil)))
	m = next.(Model)
	if m.converted != 1 {
		t.Errorf("converted = %d, want 1", m.converted)
	}
	if cmd == nil {
		t.Error("expected a follow-up wait command")
	}

	next, _ = m.Update(outcomeMsg(types.Failed("in/b.json", "bad json")))
	m = next.(Model)
	if m.failed != 1 {
		t.Errorf("failed = %d, want 1", m.failed)
	}

	view := m.View()
	if !strings.Contains(view, "1 converted, 0 skipped, 1 failed") {
		t.Errorf("view missing counts:\n%s", view)
	}
}

func TestUpdateDone(t *testing.T) {
	m := New(types.ConvertConfig{InputDir: "in", OutputDir: "out"})

	report := convert.NewReport()
	report.Add(types.Converted("in/a.json", "a.md", nil))

	next, cmd := m.Update(doneMsg{report: report})
	m = next.(Model)
	if !m.finished {
		t.Error("finished = false")
	}
	if m.Report() != report {
		t.Error("Report() does not expose the run report")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
	if !strings.Contains(m.View(), "Conversion finished") {
		t.Errorf("view missing completion header:\n%s", m.View())
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m := New(types.ConvertConfig{})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if m.View() != "" {
		t.Errorf("view after quit = %q, want empty", m.View())
	}
}
