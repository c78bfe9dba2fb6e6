package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zhouzirui/sleep-trainer/backend/internal/service/session"
)

type tickMsg time.Time

type eventMsg session.Event

type closedMsg struct{}

// Model is the terminal view of one local timer session.
type Model struct {
	controller *session.Controller
	events     <-chan session.Event
	unsub      func()
	keys       KeyMap
	help       help.Model
	snap       session.Snapshot
	width      int
}

// NewModel subscribes to the controller and returns the root model.
func NewModel(controller *session.Controller) Model {
	events, unsub := controller.Subscribe()
	return Model{
		controller: controller,
		events:     events,
		unsub:      unsub,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		snap:       controller.Snapshot(),
		width:      60,
	}
}

// Init starts the one-second clock and the event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), waitForEvent(m.events))
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForEvent(events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(evt)
	}
}

// Update handles keys, clock ticks and session events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.snap = m.controller.Tick()
		return m, tick()

	case eventMsg:
		m.snap = session.Event(msg).Snapshot
		return m, waitForEvent(m.events)

	case closedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.unsub()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			if m.snap.Running {
				m.snap = m.controller.Pause()
			} else {
				m.snap = m.controller.Start()
			}
		case key.Matches(msg, m.keys.Reset):
			m.snap = m.controller.Reset()
		case key.Matches(msg, m.keys.Asleep):
			m.snap = m.controller.Asleep()
		}
	}
	return m, nil
}

// View renders the timer screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🌙 Baby Sleep Trainer 🌙"))
	b.WriteString("\n\n")
	b.WriteString(ClockStyle.Render(m.snap.Display))
	b.WriteString("\n")

	if m.snap.Running {
		b.WriteString(RunningStyle.Render("⏱️ Timer is running..."))
	} else {
		b.WriteString(PausedStyle.Render("😴 Timer paused"))
	}
	b.WriteString("\n\n")

	message := m.snap.Message
	if m.snap.Loading {
		message = "Generating encouragement..."
	}
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	b.WriteString(MessageStyle.Width(width).Render(message))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render(m.snap.Milestone))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
