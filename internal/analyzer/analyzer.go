// Package analyzer wraps the external layout analyzer binary. The driver
// never interprets the tool beyond its exit code and output text; a failing
// invocation is recorded, not retried.
package analyzer

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
)

// Mode selects the analyzer's invocation convention.
type Mode string

const (
	// ModeLegacyCSV invokes the older CSV interface:
	//   <bin> [flags...] -c <csv> <layoutDir> [valuesDir]
	ModeLegacyCSV Mode = "legacy-csv"
	// ModeTags invokes the tags subcommand:
	//   <bin> tags [flags...] -o <csv> <layoutDir> [--values <valuesDir>]
	ModeTags Mode = "tags"
)

// errorMarker is the substring the analyzer historically emits on
// per-layout failures while still exiting zero.
const errorMarker = "Error"

// DefaultLegacyFlags are the flags the legacy CSV interface is invoked with
// unless a configuration overrides them.
var DefaultLegacyFlags = []string{"--no-zero-apps", "--no-zero-layouts"}

// Analyzer describes one external analyzer binary.
type Analyzer struct {
	Bin   string
	Mode  Mode
	Extra []string // extra flags inserted before the output option
}

// Result is the structured outcome of a single invocation.
type Result struct {
	Args     []string
	ExitCode int
	Output   string // combined stdout and stderr
	Err      error  // start or wait error, nil on a clean exit
}

// Verdict classifies a Result as ok or as a tool error with a message.
type Verdict struct {
	OK      bool
	Message string
}

// Invoker runs the analyzer against one layout directory. Satisfied by
// Analyzer; the batch driver depends on this so tests can substitute a
// fake.
type Invoker interface {
	Invoke(ctx context.Context, layoutDir, csv, valuesDir string, sink io.Writer) Result
}

// Available reports whether the analyzer binary can be found on PATH (or at
// its configured path).
func (a Analyzer) Available() bool {
	_, err := exec.LookPath(a.Bin)
	return err == nil
}

// BuildArgs assembles the argument list for one invocation. valuesDir is
// optional and omitted when empty.
func (a Analyzer) BuildArgs(layoutDir, csv, valuesDir string) []string {
	var args []string
	switch a.Mode {
	case ModeTags:
		args = append(args, "tags")
		args = append(args, a.Extra...)
		args = append(args, "-o", csv, layoutDir)
		if valuesDir != "" {
			args = append(args, "--values", valuesDir)
		}
	default:
		args = append(args, a.Extra...)
		args = append(args, "-c", csv, layoutDir)
		if valuesDir != "" {
			args = append(args, valuesDir)
		}
	}
	return args
}

// Invoke runs the analyzer synchronously and captures its combined output.
// When sink is non-nil the output is additionally streamed there (the run
// log in logging mode). The call blocks until the tool exits; there is no
// timeout beyond what ctx carries.
func (a Analyzer) Invoke(ctx context.Context, layoutDir, csv, valuesDir string, sink io.Writer) Result {
	args := a.BuildArgs(layoutDir, csv, valuesDir)
	cmd := exec.CommandContext(ctx, a.Bin, args...)

	var buf bytes.Buffer
	var out io.Writer = &buf
	if sink != nil {
		out = io.MultiWriter(&buf, sink)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	code := 0
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			code = ee.ExitCode()
		} else {
			code = -1
		}
	}
	return Result{Args: args, ExitCode: code, Output: buf.String(), Err: err}
}

// Classify reduces a Result to a Verdict. A non-zero exit or a failure to
// start is a tool error; so is the error marker appearing in the output,
// because the analyzer exits zero after per-layout parse failures.
func (r Result) Classify() Verdict {
	switch {
	case r.Err != nil && r.ExitCode == -1:
		return Verdict{Message: "analyzer did not start: " + r.Err.Error()}
	case r.ExitCode != 0:
		return Verdict{Message: lastLine(r.Output)}
	case strings.Contains(r.Output, errorMarker):
		return Verdict{Message: firstMarkedLine(r.Output)}
	}
	return Verdict{OK: true}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return "analyzer exited non-zero"
}

func firstMarkedLine(s string) string {
	for _, l := range strings.Split(s, "\n") {
		if strings.Contains(l, errorMarker) {
			return strings.TrimSpace(l)
		}
	}
	return "analyzer reported an error"
}
