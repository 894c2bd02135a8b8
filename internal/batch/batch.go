// Package batch drives one analyzer pass over a repository of application
// source trees: scan, dispatch, log, tally. Processing is strictly
// sequential and an analyzer failure never halts the batch.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/resweep/resweep/internal/analyzer"
	"github.com/resweep/resweep/internal/logging"
	"github.com/resweep/resweep/internal/progress"
	"github.com/resweep/resweep/internal/scan"
)

// Status of one project directory after processing.
type Status string

const (
	StatusDispatched Status = "dispatched"
	StatusToolError  Status = "tool-error"
	StatusNoLayout   Status = "no-layout"
)

// Outcome pairs the scan result of one project with its dispatch status.
type Outcome struct {
	Scan    scan.Outcome
	Status  Status
	Message string
}

// Options configures one batch run.
type Options struct {
	Root       string
	CSV        string
	Tool       string // analyzer display name for log lines
	Invoker    analyzer.Invoker
	Log        *logging.Logger
	Progress   progress.Reporter
	Excludes   []string
	WithValues bool

	// Precomputed outcomes (from a cached dir list) replace the live walk
	// when non-nil.
	Precomputed []scan.Outcome

	// OnOutcome observes every processed project, in order. Optional.
	OnOutcome func(Outcome)
}

// Stats are the aggregate counters of one run.
type Stats struct {
	Total      int
	Dispatched int
	Skipped    int
	Problems   int
}

// Run processes every project directory under opts.Root, one at a time.
// Each project yields exactly one outcome line and at most one analyzer
// invocation. A missing source root degrades to an empty batch.
func Run(ctx context.Context, opts Options) Stats {
	reporter := opts.Progress
	if reporter == nil {
		reporter = progress.Nop{}
	}

	var live []string
	pre := opts.Precomputed
	total := len(pre)
	if pre == nil {
		var err error
		live, err = scan.Projects(opts.Root)
		if err != nil {
			opts.Log.Warn("%v; treating batch as empty", err)
		}
		total = len(live)
	}

	stats := Stats{Total: total}
	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			opts.Log.Warn("interrupted after %d of %d directories", i, total)
			break
		}

		var o scan.Outcome
		if pre != nil {
			o = pre[i]
		} else {
			var err error
			o, err = scan.Project(live[i], opts.Excludes)
			if err != nil {
				opts.Log.Warn("%v", err)
			}
		}

		stats.record(processOne(ctx, opts, o))
		reporter.Step(i+1, total)
	}
	reporter.Done()
	return stats
}

func processOne(ctx context.Context, opts Options, o scan.Outcome) Outcome {
	opts.Log.Line("%s:", o.Project)

	out := Outcome{Scan: o}
	if !o.Found() {
		opts.Log.Line("\tnothing found for %s", o.Project)
		out.Status = StatusNoLayout
	} else {
		opts.Log.Line("\trunning %s on %s", opts.Tool, o.Layout)
		values := ""
		if opts.WithValues && len(o.Values) > 0 {
			values = o.Values[0]
		}
		res := opts.Invoker.Invoke(ctx, o.Layout, opts.CSV, values, opts.Log.Writer())
		if v := res.Classify(); v.OK {
			out.Status = StatusDispatched
		} else {
			out.Status = StatusToolError
			out.Message = v.Message
		}
	}

	if opts.OnOutcome != nil {
		opts.OnOutcome(out)
	}
	return out
}

func (s *Stats) record(o Outcome) {
	switch o.Status {
	case StatusNoLayout:
		s.Skipped++
	case StatusToolError:
		s.Dispatched++
		s.Problems++
	default:
		s.Dispatched++
	}
}

// CountProblems counts log lines containing the analyzer's error marker.
// The structured per-invocation verdicts are authoritative for new runs;
// this scan exists for the end-of-run summary over the written log and for
// historic logs.
func CountProblems(r io.Reader) (int, error) {
	n := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if strings.Contains(sc.Text(), "Error") {
			n++
		}
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("scan log: %w", err)
	}
	return n, nil
}

// SummaryLine renders the end-of-run summary printed in logging mode.
func SummaryLine(problems int, logPath string) string {
	return fmt.Sprintf("resweep finished with %d problems. See %s for more info.", problems, logPath)
}
