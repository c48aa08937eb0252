package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// confirmModel asks a yes/no question. An empty answer means yes.
type confirmModel struct {
	textInput textinput.Model
	exitState ExitState
}

func newConfirmModel(prompt string) confirmModel {
	ti := textinput.New()
	ti.Prompt = prompt + " [Y/n] "
	ti.CharLimit = 3
	ti.Focus()
	return confirmModel{textInput: ti}
}

// confirmPrompt asks on stderr. Aborting answers no.
func confirmPrompt(prompt string) (bool, error) {
	p := tea.NewProgram(newConfirmModel(prompt), tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(confirmModel)
	if !ok {
		return false, fmt.Errorf("could not get final model state")
	}
	return m.answer(), nil
}

func (m confirmModel) answer() bool {
	if m.exitState != ExitStateConfirm {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(m.textInput.Value())) {
	case "", "y", "yes":
		return true
	}
	return false
}

func (m confirmModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.exitState = ExitStateAbort
			return m, tea.Quit
		case tea.KeyEnter:
			m.exitState = ExitStateConfirm
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m confirmModel) View() string {
	if m.exitState != ExitStateNone {
		return ""
	}
	return m.textInput.View() + "\n"
}
