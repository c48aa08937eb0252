package commit

import "github.com/charmbracelet/lipgloss"

// Paint decorates a piece of output text. A nil Paint leaves text unchanged.
type Paint func(string) string

// Apply paints s.
func (p Paint) Apply(s string) string {
	if p == nil {
		return s
	}
	return p(s)
}

// Palette holds the decorations used when rendering trees. The zero Palette
// renders plain text.
type Palette struct {
	Added        Paint
	AddedCount   Paint
	Removed      Paint
	RemovedCount Paint
	Modified     Paint
	Previous     Paint
	Header       Paint
}

func style(s lipgloss.Style) Paint {
	return func(text string) string {
		return s.Render(text)
	}
}

// ColorPalette returns a Palette with terminal colors. lipgloss drops the
// colors when the output is not a terminal.
func ColorPalette() Palette {
	green := lipgloss.Color("2")
	red := lipgloss.Color("1")
	yellow := lipgloss.Color("3")
	cyan := lipgloss.Color("6")

	return Palette{
		Added:        style(lipgloss.NewStyle().Foreground(green)),
		AddedCount:   style(lipgloss.NewStyle().Foreground(green).Bold(true)),
		Removed:      style(lipgloss.NewStyle().Foreground(red)),
		RemovedCount: style(lipgloss.NewStyle().Foreground(red).Bold(true)),
		Modified:     style(lipgloss.NewStyle().Foreground(yellow)),
		Previous:     style(lipgloss.NewStyle().Foreground(yellow).Bold(true)),
		Header:       style(lipgloss.NewStyle().Foreground(cyan)),
	}
}
