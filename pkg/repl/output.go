package repl

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetupOutput picks the colour profile for f and returns the width to wrap
// output at, 0 when f is not a terminal.
func SetupOutput(f *os.File) int {
	if !IsTerminal(f) {
		lipgloss.SetColorProfile(termenv.Ascii)
		return 0
	}
	lipgloss.SetColorProfile(termenv.NewOutput(f).EnvColorProfile())
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
