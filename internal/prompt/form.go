// Package prompt implements the interactive field editor used by the
// update and create commands.
package prompt

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/jtessler/userctl/internal/style"
)

// Field is one editable line in the form.
type Field struct {
	// Key identifies the field to the caller.
	Key string

	// Label is shown to the operator (already localized by the caller).
	Label string

	// Value is the initial text; the operator edits it in place.
	Value string

	// Placeholder is shown when Value is empty.
	Placeholder string
}

// Result carries the edited values back to the caller.
type Result struct {
	// Values maps field keys to their final text.
	Values map[string]string

	// Aborted is true when the operator quit without submitting.
	Aborted bool
}

// IsInteractive reports whether stdin is attached to a terminal, i.e.
// whether a form can be shown at all.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Edit runs the form and blocks until the operator submits or aborts.
func Edit(title string, fields []Field) (Result, error) {
	m := newModel(title, fields)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return Result{}, fmt.Errorf("running editor: %w", err)
	}

	fm, ok := final.(model)
	if !ok {
		return Result{}, fmt.Errorf("editor returned unexpected model %T", final)
	}
	return fm.result(), nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Width(14)
	helpStyle  = style.Dim
)

type model struct {
	title   string
	keys    []string
	labels  []string
	inputs  []textinput.Model
	focus   int
	done    bool
	aborted bool
}

func newModel(title string, fields []Field) model {
	m := model{
		title:  title,
		keys:   make([]string, len(fields)),
		labels: make([]string, len(fields)),
		inputs: make([]textinput.Model, len(fields)),
	}

	for i, f := range fields {
		ti := textinput.New()
		ti.SetValue(f.Value)
		ti.Placeholder = f.Placeholder
		ti.Prompt = ""
		ti.CharLimit = 256
		if i == 0 {
			ti.Focus()
		}
		m.keys[i] = f.Key
		m.labels[i] = f.Label
		m.inputs[i] = ti
	}
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.aborted = true
		return m, tea.Quit

	case tea.KeyEnter:
		if m.focus == len(m.inputs)-1 {
			m.done = true
			return m, tea.Quit
		}
		return m.setFocus(m.focus + 1)

	case tea.KeyTab, tea.KeyDown:
		return m.setFocus((m.focus + 1) % len(m.inputs))

	case tea.KeyShiftTab, tea.KeyUp:
		return m.setFocus((m.focus - 1 + len(m.inputs)) % len(m.inputs))
	}

	return m.updateInputs(msg)
}

func (m model) setFocus(i int) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m, m.inputs[m.focus].Focus()
}

func (m model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.done || m.aborted {
		return ""
	}

	out := titleStyle.Render(m.title) + "\n"
	for i, ti := range m.inputs {
		cursor := "  "
		if i == m.focus {
			cursor = style.Bold.Render("> ")
		}
		out += fmt.Sprintf("%s%s %s\n", cursor, labelStyle.Render(m.labels[i]+":"), ti.View())
	}
	out += "\n" + helpStyle.Render("enter: next/submit · tab: move · esc: cancel") + "\n"
	return out
}

// result snapshots the final field values.
func (m model) result() Result {
	if m.aborted {
		return Result{Aborted: true}
	}
	values := make(map[string]string, len(m.inputs))
	for i, ti := range m.inputs {
		values[m.keys[i]] = ti.Value()
	}
	return Result{Values: values}
}
