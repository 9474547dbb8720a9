package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// palette styles command output. Styling is disabled unless the output is
// a terminal, so piped output and tests see plain text.
type palette struct {
	enabled bool

	title lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
	muted lipgloss.Style
}

func newPalette(w io.Writer) palette {
	p := palette{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
	if f, ok := w.(*os.File); ok {
		p.enabled = term.IsTerminal(int(f.Fd()))
	}
	return p
}

func (p palette) render(style lipgloss.Style, s string) string {
	if !p.enabled {
		return s
	}
	return style.Render(s)
}

// Title renders a heading.
func (p palette) Title(s string) string { return p.render(p.title, s) }

// OK renders a success marker.
func (p palette) OK(s string) string { return p.render(p.ok, s) }

// Warn renders a warning.
func (p palette) Warn(s string) string { return p.render(p.warn, s) }

// Fail renders a failure.
func (p palette) Fail(s string) string { return p.render(p.fail, s) }

// Muted renders secondary text.
func (p palette) Muted(s string) string { return p.render(p.muted, s) }
