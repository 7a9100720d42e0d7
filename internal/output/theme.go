// Package output renders listings, task details and the prompt.
package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Basic ANSI colors so the palette follows the user's terminal theme.
var (
	colorGreen   = lipgloss.Color("2")
	colorYellow  = lipgloss.Color("3")
	colorBlue    = lipgloss.Color("4")
	colorMagenta = lipgloss.Color("5")
	colorGrey    = lipgloss.Color("8")
)

// Theme holds the styles used for rendering. Styles are bound to a
// renderer, which decides whether escape codes are emitted.
type Theme struct {
	Check    lipgloss.Style // completion mark
	DoneName lipgloss.Style // completed task names
	Status   lipgloss.Style // assignee status headers
	Section  lipgloss.Style // task names ending in ":"
	Title    lipgloss.Style // task name in the detail view
	Label    lipgloss.Style // field labels in the detail view
	System   lipgloss.Style // system stories
	Comment  lipgloss.Style // comment headers
	Dim      lipgloss.Style
}

// NewTheme creates the default theme for r.
func NewTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Check:    r.NewStyle().Foreground(colorGreen),
		DoneName: r.NewStyle().Foreground(colorGrey).Bold(true),
		Status:   r.NewStyle().Foreground(colorGrey),
		Section:  r.NewStyle().Foreground(colorYellow),
		Title:    r.NewStyle().Bold(true),
		Label:    r.NewStyle().Foreground(colorYellow),
		System:   r.NewStyle().Foreground(colorMagenta),
		Comment:  r.NewStyle().Foreground(colorBlue),
		Dim:      r.NewStyle().Foreground(colorGrey),
	}
}

// ThemeFor creates the default theme for output written to w, with the
// color profile detected from w.
func ThemeFor(w io.Writer) Theme {
	return NewTheme(lipgloss.NewRenderer(w))
}

// PlainTheme renders without any escape codes.
func PlainTheme() Theme {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return NewTheme(r)
}
