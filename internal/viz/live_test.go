package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/distgrab/internal/config"
)

func newTestModel(t *testing.T, preset string) Model {
	t.Helper()
	m, err := NewModel(config.GetPreset(preset), nil)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTicks(t *testing.T) {
	m := newTestModel(t, "fetch")
	next, cmd := m.Update(TickMsg{})
	if cmd == nil {
		t.Fatal("tick should schedule another tick")
	}
	m = next.(Model)
	if m.step != 1 {
		t.Errorf("step = %d, want 1", m.step)
	}

	m = press(m, " ")
	if m.running {
		t.Fatal("space should pause")
	}
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	if m.step != 1 {
		t.Errorf("paused model advanced to %d", m.step)
	}

	m = press(m, "n")
	if m.step != 2 {
		t.Errorf("single step gave %d", m.step)
	}
}

func TestModelRunsToEndAndResets(t *testing.T) {
	m := newTestModel(t, "drawer")
	m = press(m, "+")
	m = press(m, "+")
	m = press(m, "+")
	m = press(m, "+")
	if m.speed != maxSpeed {
		t.Fatalf("speed = %d, want %d", m.speed, maxSpeed)
	}
	for i := 0; i < m.steps && !m.done; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	if !m.done || m.step != m.steps {
		t.Fatalf("done=%v step=%d steps=%d", m.done, m.step, m.steps)
	}
	if len(m.history["drawer"]) < 2 {
		t.Error("rail history not recorded")
	}
	if len(m.events) == 0 {
		t.Error("expected grab events")
	}

	m = press(m, "r")
	if m.step != 0 || m.done || len(m.events) != 0 {
		t.Errorf("reset left step=%d done=%v events=%d", m.step, m.done, len(m.events))
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, "lever")
	for i := 0; i < 40; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	out := m.View()
	for _, want := range []string{"LEVER", "HANDS", "OBJECTS", "right", "lever"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, "fetch")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not produce QuitMsg")
	}
}
