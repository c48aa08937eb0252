package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/hayeah/ghrepo/commit"
	"github.com/hayeah/ghrepo/format"
)

// ExitState indicates how the program is exiting
type ExitState int

const (
	ExitStateNone    ExitState = iota // Not exiting
	ExitStateAbort                    // Exiting without a choice (ESC, Ctrl+C)
	ExitStateConfirm                  // Exiting with a choice (Enter)
)

const pickLineFormat = "%h %d %m"

var cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)

// pickModel is the Bubble Tea model of the commit picker.
type pickModel struct {
	textInput textinput.Model
	viewport  viewport.Model
	ready     bool

	lines   []string
	matches []int // indices into lines, best match first
	cursor  int

	exitState ExitState
}

func newPickModel(infos []commit.Info) (pickModel, error) {
	ti := textinput.New()
	ti.Placeholder = "Type to fuzzy-search..."
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Focus()

	lines := make([]string, len(infos))
	for i, info := range infos {
		line, err := format.Format(info, pickLineFormat, format.Display)
		if err != nil {
			return pickModel{}, err
		}
		lines[i] = line
	}

	m := pickModel{
		textInput: ti,
		viewport:  viewport.New(0, 0), // sized by tea.WindowSizeMsg
		lines:     lines,
	}
	m.filter()
	return m, nil
}

// pickCommit runs the picker on stderr so stdout stays clean for output.
func pickCommit(infos []commit.Info) (commit.Info, bool, error) {
	if len(infos) == 0 {
		return commit.Info{}, false, fmt.Errorf("no commits to pick from")
	}
	m, err := newPickModel(infos)
	if err != nil {
		return commit.Info{}, false, err
	}

	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return commit.Info{}, false, err
	}
	finalM, ok := finalModel.(pickModel)
	if !ok {
		return commit.Info{}, false, fmt.Errorf("could not get final model state")
	}

	idx, ok := finalM.picked()
	if !ok {
		return commit.Info{}, false, nil
	}
	return infos[idx], true, nil
}

// picked returns the chosen line index after a confirmed exit.
func (m pickModel) picked() (int, bool) {
	if m.exitState != ExitStateConfirm || len(m.matches) == 0 {
		return 0, false
	}
	return m.matches[m.cursor], true
}

// filter recomputes matches for the current search term.
func (m *pickModel) filter() {
	term := strings.TrimSpace(m.textInput.Value())
	m.matches = make([]int, 0, len(m.lines))
	if term == "" {
		for i := range m.lines {
			m.matches = append(m.matches, i)
		}
	} else {
		for _, match := range fuzzy.Find(term, m.lines) {
			m.matches = append(m.matches, match.Index)
		}
	}
	m.cursor = 0
	m.updateViewport()
}

func (m *pickModel) updateViewport() {
	var b strings.Builder
	for i, idx := range m.matches {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + m.lines[idx]))
		} else {
			b.WriteString("  " + m.lines[idx])
		}
		b.WriteByte('\n')
	}
	m.viewport.SetContent(b.String())

	// keep the cursor visible
	if m.viewport.Height > 0 {
		if m.cursor < m.viewport.YOffset {
			m.viewport.SetYOffset(m.cursor)
		} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
			m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
		}
	}
}

func (m pickModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// one line for the input, one for the status line
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		m.ready = true
		m.updateViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.exitState = ExitStateAbort
			return m, tea.Quit
		case tea.KeyEnter:
			m.exitState = ExitStateConfirm
			return m, tea.Quit
		case tea.KeyUp, tea.KeyCtrlP:
			if m.cursor > 0 {
				m.cursor--
				m.updateViewport()
			}
			return m, nil
		case tea.KeyDown, tea.KeyCtrlN:
			if m.cursor < len(m.matches)-1 {
				m.cursor++
				m.updateViewport()
			}
			return m, nil
		}
	}

	prev := m.textInput.Value()
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.textInput.Value() != prev {
		m.filter()
	}
	return m, cmd
}

func (m pickModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	status := fmt.Sprintf("%d/%d commits  enter: pick  esc: cancel", len(m.matches), len(m.lines))
	return m.textInput.View() + "\n" + m.viewport.View() + "\n" + status
}
