package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is assumed when stdout is not a terminal or size
// detection fails, wide enough that result paths rarely truncate.
const DefaultTermWidth = 120

// DisplayContext carries the terminal facts the table and markdown
// renderers size themselves against.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext probes stdout once and captures its dimensions.
func NewDisplayContext() *DisplayContext {
	d := &DisplayContext{TermWidth: DefaultTermWidth}
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return d
	}
	d.IsTTY = true
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		d.TermWidth = w
	}
	return d
}

// NewDisplayContextWithWidth pins the width, so table layout tests
// don't depend on the environment.
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{TermWidth: width, IsTTY: true}
}

// AvailableWidth is the width left for content after a left margin.
func (d *DisplayContext) AvailableWidth(leftMargin int) int {
	return d.TermWidth - leftMargin
}
