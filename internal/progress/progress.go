// Package progress renders the one-line batch progress indicator. The
// reporter is injected into the batch driver so the scanning logic stays
// independent of terminal rendering.
package progress

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Reporter receives one Step per completed project directory and a final
// Done when the batch ends.
type Reporter interface {
	Step(done, total int)
	Done()
}

// Nop discards all progress events.
type Nop struct{}

func (Nop) Step(done, total int) {}
func (Nop) Done()                {}

// Terminal overwrites a single progress line in place: cursor returned to
// line start, line cleared, then the current state rendered.
type Terminal struct {
	w       io.Writer
	stepped bool
}

// NewTerminal renders to w unconditionally. Use Auto for TTY detection.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// Auto returns a Terminal when stdout is a terminal and a Nop otherwise,
// keeping redirected output free of control sequences.
func Auto() Reporter {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return NewTerminal(os.Stdout)
	}
	return Nop{}
}

// Step renders the indicator for done of total directories processed.
func (t *Terminal) Step(done, total int) {
	if total <= 0 {
		return
	}
	pct := done * 100 / total
	fmt.Fprintf(t.w, "\r\033[K %2d%% - %2d of %2d complete", pct, done, total)
	t.stepped = true
}

// Done terminates the progress line so subsequent output starts fresh.
func (t *Terminal) Done() {
	if t.stepped {
		fmt.Fprint(t.w, "\n")
	}
}
