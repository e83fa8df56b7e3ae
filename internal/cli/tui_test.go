package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/gnparser/pkg/core/code"
	"github.com/matzehuels/gnparser/pkg/parser"
)

func newTestModel(t *testing.T) ParseModel {
	t.Helper()
	p, err := parser.New(parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return NewParseModel(p)
}

func typeText(m ParseModel, s string) ParseModel {
	for _, r := range s {
		var msg tea.KeyMsg
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		}
		next, _ := m.Update(msg)
		m = next.(ParseModel)
	}
	return m
}

func press(m ParseModel, k tea.KeyType) (ParseModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(ParseModel), cmd
}

func TestParseModelEnter(t *testing.T) {
	m := typeText(newTestModel(t), "Homo sapiens")
	if string(m.Input) != "Homo sapiens" {
		t.Fatalf("input = %q", string(m.Input))
	}

	m, _ = press(m, tea.KeyEnter)
	if m.Last == nil || !m.Last.Parsed {
		t.Fatal("expected a parsed result")
	}
	if m.Last.Canonical.Simple != "Homo sapiens" {
		t.Errorf("simple = %q", m.Last.Canonical.Simple)
	}
	if len(m.Input) != 0 {
		t.Error("input should be cleared after enter")
	}
	if !strings.Contains(m.View(), "Homo sapiens") {
		t.Error("view should show the result")
	}
}

func TestParseModelHistory(t *testing.T) {
	m := newTestModel(t)
	for _, name := range []string{"Aus bus", "Cus dus", "Eus fus"} {
		m = typeText(m, name)
		m, _ = press(m, tea.KeyEnter)
	}
	if m.Last.Verbatim != "Eus fus" {
		t.Errorf("last = %q", m.Last.Verbatim)
	}
	if len(m.History) != 2 || m.History[0].Verbatim != "Cus dus" {
		t.Errorf("history = %+v", m.History)
	}
}

func TestParseModelEditing(t *testing.T) {
	m := typeText(newTestModel(t), "Aus")
	m, _ = press(m, tea.KeyBackspace)
	if string(m.Input) != "Au" {
		t.Errorf("after backspace input = %q", string(m.Input))
	}
	m, _ = press(m, tea.KeyCtrlU)
	if len(m.Input) != 0 {
		t.Errorf("after ctrl+u input = %q", string(m.Input))
	}

	// Enter on empty input does nothing.
	m, _ = press(m, tea.KeyEnter)
	if m.Last != nil {
		t.Error("empty input should not parse")
	}
}

func TestParseModelCycleCode(t *testing.T) {
	m := typeText(newTestModel(t), "Aus (Bus) cus")
	m, _ = press(m, tea.KeyEnter)
	if m.parser.Options().Code != code.None {
		t.Fatalf("initial code = %v", m.parser.Options().Code)
	}

	m, _ = press(m, tea.KeyTab)
	if got := m.parser.Options().Code; got != code.Botanical {
		t.Errorf("after tab code = %v, want botanical", got)
	}
	if m.Last.Code != code.Botanical {
		t.Errorf("last result not reparsed: code = %v", m.Last.Code)
	}

	for range code.All() {
		m, _ = press(m, tea.KeyTab)
	}
	if got := m.parser.Options().Code; got != code.None {
		t.Errorf("cycle should wrap to none, got %v", got)
	}
}

func TestParseModelQuit(t *testing.T) {
	_, cmd := press(newTestModel(t), tea.KeyEsc)
	if cmd == nil {
		t.Fatal("esc should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
}

func TestParseModelFailure(t *testing.T) {
	m := typeText(newTestModel(t), "!!!not a name###")
	m, _ = press(m, tea.KeyEnter)
	if m.Last.Parsed {
		t.Fatal("expected failure")
	}
	if !strings.Contains(renderResult(*m.Last), "no:") {
		t.Error("failure should be shown")
	}
}
