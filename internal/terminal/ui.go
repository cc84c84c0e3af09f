// Package terminal renders check reports and gate progress.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/efinstitute/sitegate/internal/checks"
)

// Colors for terminal output.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
)

// UI writes diagnostics to Out and transient status to Err. Color codes
// only wrap whole lines, so the text is the same with color off.
type UI struct {
	Out   io.Writer
	Err   io.Writer
	Color bool
}

// New returns a UI that colors output when out is a terminal and noColor
// is false.
func New(out, errOut io.Writer, noColor bool) *UI {
	return &UI{Out: out, Err: errOut, Color: !noColor && IsTerminal(out)}
}

// Plain returns a UI without color, for tests and MCP transcripts.
func Plain(out io.Writer) *UI {
	return &UI{Out: out, Err: io.Discard}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (u *UI) paint(color, s string) string {
	if !u.Color {
		return s
	}
	return color + s + Reset
}

// Line prints s unstyled.
func (u *UI) Line(s string) {
	fmt.Fprintln(u.Out, s)
}

// Success prints a green line.
func (u *UI) Success(msg string) {
	fmt.Fprintln(u.Out, u.paint(Green, msg))
}

// Error prints a red line.
func (u *UI) Error(msg string) {
	fmt.Fprintln(u.Out, u.paint(Bold+Red, msg))
}

// Warning prints a yellow line.
func (u *UI) Warning(msg string) {
	fmt.Fprintln(u.Out, u.paint(Yellow, msg))
}

// Info prints a blue line.
func (u *UI) Info(msg string) {
	fmt.Fprintln(u.Out, u.paint(Blue, msg))
}

// Header prints a bold header preceded by a blank line.
func (u *UI) Header(msg string) {
	fmt.Fprintf(u.Out, "\n%s\n", u.paint(Bold, msg))
}

// Detail prints an indented label/value line.
func (u *UI) Detail(label, value string) {
	fmt.Fprintf(u.Out, "  %s %s\n", u.paint(Dim, label+":"), value)
}

// Divider prints a horizontal line.
func (u *UI) Divider(width int) {
	fmt.Fprintln(u.Out, u.paint(Dim, strings.Repeat("-", width)))
}

// Gate prints a "[gate] msg" progress line.
func (u *UI) Gate(msg string) {
	fmt.Fprintln(u.Out, u.paint(Cyan, "[gate] "+msg))
}

// Report prints r line by line: headings and failures in red, warnings in
// yellow, the success summary in green.
func (u *UI) Report(r *checks.Report) {
	lines := r.Lines()
	switch {
	case r.Advisory:
		for i, line := range lines {
			if i == 0 {
				u.Line(line)
				continue
			}
			u.Warning(line)
		}
	case !r.Passed():
		for _, line := range lines {
			u.Error(line)
		}
	default:
		for _, line := range lines {
			u.Success(line)
		}
	}
}
