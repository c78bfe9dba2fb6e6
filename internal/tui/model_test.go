package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zhouzirui/sleep-trainer/backend/internal/model/prompt"
	"github.com/zhouzirui/sleep-trainer/backend/internal/service/session"
)

func newTestModel() Model {
	c := session.NewController("tui", nil, prompt.Default(), session.Options{DisableInitialMsg: true})
	return NewModel(c)
}

func press(m Model, r rune) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return next.(Model)
}

func TestToggleStartsAndPauses(t *testing.T) {
	m := newTestModel()

	m = press(m, 's')
	if !m.snap.Running {
		t.Fatal("expected timer to run after s")
	}

	m = press(m, 's')
	if m.snap.Running {
		t.Fatal("expected timer to pause after second s")
	}
}

func TestTickAdvancesClock(t *testing.T) {
	m := newTestModel()
	m = press(m, 's')

	for i := 0; i < 65; i++ {
		next, cmd := m.Update(tickMsg{})
		if cmd == nil {
			t.Fatal("expected the next tick to be scheduled")
		}
		m = next.(Model)
	}

	if m.snap.Display != "01:05" {
		t.Fatalf("expected 01:05, got %s", m.snap.Display)
	}
	if !strings.Contains(m.View(), "01:05") {
		t.Fatal("expected the view to render the clock")
	}
}

func TestAsleepAndResetKeys(t *testing.T) {
	m := newTestModel()
	m = press(m, 's')
	next, _ := m.Update(tickMsg{})
	m = next.(Model)

	m = press(m, 'a')
	if m.snap.Running || m.snap.Elapsed != 1 {
		t.Fatalf("unexpected snapshot after asleep %+v", m.snap)
	}

	m = press(m, 'r')
	if m.snap.Elapsed != 0 || m.snap.Display != "00:00" {
		t.Fatalf("unexpected snapshot after reset %+v", m.snap)
	}
}

func TestEventUpdatesMessage(t *testing.T) {
	m := newTestModel()
	evt := session.Event{Type: session.EventMessage, Snapshot: session.Snapshot{Display: "00:00", Message: "You've got this."}}

	next, cmd := m.Update(eventMsg(evt))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected the event pump to continue")
	}
	if !strings.Contains(m.View(), "You've got this.") {
		t.Fatal("expected the view to render the message")
	}
}

func TestLoadingView(t *testing.T) {
	m := newTestModel()
	m.snap.Loading = true
	if !strings.Contains(m.View(), "Generating encouragement...") {
		t.Fatal("expected loading text")
	}
}
