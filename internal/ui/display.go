package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

// DefaultWidth is assumed when stdout is not a terminal or its size
// cannot be read.
const DefaultWidth = 120

// Display captures what the process knows about stdout before the
// shell starts: whether styled output is safe, and how wide rendered
// summaries may be.
type Display struct {
	IsTTY bool
	Width int
}

// DetectDisplay probes stdout.
func DetectDisplay() Display {
	fd := os.Stdout.Fd()
	d := Display{
		IsTTY: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		Width: DefaultWidth,
	}
	if d.IsTTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			d.Width = w
		}
	}
	return d
}
