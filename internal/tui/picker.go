// Package tui provides the Bubble Tea surfaces of blvhist: the diff
// mode picker and the side-by-side compare viewer.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blvflag/blvhist/internal/diff"
)

// ── Picker styles ──────────

var (
	pickTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	pickSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))

	pickItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	pickHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// PickerModel is the interactive mode selection menu shown when diff is
// invoked without --mode on a terminal.
type PickerModel struct {
	modes   []diff.Mode
	cursor  int
	choice  diff.Mode
	aborted bool
	done    bool
}

// NewPicker creates a picker with the cursor on def.
func NewPicker(def diff.Mode) PickerModel {
	m := PickerModel{modes: diff.Modes()}
	for i, mode := range m.modes {
		if mode == def {
			m.cursor = i
		}
	}
	return m
}

func (m PickerModel) Init() tea.Cmd { return nil }

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.aborted = true
		m.done = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.modes)-1 {
			m.cursor++
		}
	case "1", "2":
		m.cursor = int(key.String()[0] - '1')
	case "enter", " ":
		m.choice = m.modes[m.cursor]
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m PickerModel) View() string {
	if m.done {
		return ""
	}
	s := pickTitleStyle.Render(" how should the comparison be shown? ") + "\n\n"
	for i, mode := range m.modes {
		label := fmt.Sprintf(" %d  %s ", i+1, mode)
		if i == m.cursor {
			s += pickSelectedStyle.Render("▸"+label) + "\n"
		} else {
			s += pickItemStyle.Render(" "+label) + "\n"
		}
	}
	s += "\n" + pickHintStyle.Render("  ↑/↓ move  enter select  q cancel") + "\n"
	return s
}

// RunPicker shows the mode menu and returns the chosen mode. ok is
// false when the user abandoned the selection.
func RunPicker(def diff.Mode) (mode diff.Mode, ok bool, err error) {
	p := tea.NewProgram(NewPicker(def))
	final, err := p.Run()
	if err != nil {
		return "", false, err
	}
	m := final.(PickerModel)
	if m.aborted {
		return "", false, nil
	}
	return m.choice, true, nil
}
