package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles are bound to one writer so color output follows that writer's
// terminal capabilities; plain buffers get unstyled text.
type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	bold    lipgloss.Style
	typeTag lipgloss.Style
	unused  lipgloss.Style
	used    lipgloss.Style
	italic  lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		warning: r.NewStyle().Foreground(lipgloss.Color("3")),
		bold:    r.NewStyle().Bold(true),
		typeTag: r.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
		unused:  r.NewStyle().Foreground(lipgloss.Color("1")),
		used:    r.NewStyle().Foreground(lipgloss.Color("2")),
		italic:  r.NewStyle().Italic(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

const indent = "  "
