package output

import (
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	maxPromptName = 12

	// Used when the terminal size cannot be determined.
	DefaultHeight = 24
	DefaultWidth  = 80
)

// Prompt builds the shell prompt from the names along the current path,
// shortening long names.
func Prompt(names []string) string {
	short := make([]string, len(names))
	for i, name := range names {
		short[i] = shorten(name)
	}
	return strings.Join(short, ", ") + "> "
}

func shorten(name string) string {
	r := []rune(name)
	if len(r) <= maxPromptName {
		return name
	}
	return string(r[:maxPromptName-3]) + "…"
}

// TerminalSize returns the height and width of the terminal behind f,
// falling back to DefaultHeight x DefaultWidth.
func TerminalSize(f *os.File) (height, width int) {
	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return DefaultHeight, DefaultWidth
	}
	return height, width
}
