package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/resweep/resweep/internal/analyzer"
	"github.com/resweep/resweep/internal/batch"
	"github.com/resweep/resweep/internal/config"
	"github.com/resweep/resweep/internal/dirlist"
	"github.com/resweep/resweep/internal/logging"
	"github.com/resweep/resweep/internal/progress"
	"github.com/resweep/resweep/internal/scan"
	"github.com/resweep/resweep/internal/store/sqlite"
)

var (
	scanLogPath    string
	scanConfigPath string
	scanUseDirs    string
	scanWithValues bool
	scanNoStore    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [source dir] [csv file]",
	Short: "Scan project directories and dispatch the analyzer",
	Long: "For each immediate subdirectory of the source root, locate its most\n" +
		"specific non-empty res/layout directory and invoke the analyzer on it.\n" +
		"With --log, output is routed to the log file, a progress line is shown,\n" +
		"and a final problem tally is printed.",
	Args: cobra.MaximumNArgs(2),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanLogPath, "log", "", "route run output to this file and tally problems")
	scanCmd.Flags().StringVar(&scanConfigPath, "config", "", "configuration file (default "+config.DefaultFile+" when present)")
	scanCmd.Flags().StringVar(&scanUseDirs, "use-dirs", "", "use a cached dir list instead of walking the source root")
	scanCmd.Flags().BoolVar(&scanWithValues, "values", false, "pass each app's res/values directory to the analyzer")
	scanCmd.Flags().BoolVar(&scanNoStore, "no-store", false, "do not record this run in the history store")
}

// scanInputs is everything runScan resolves from flags, args and config
// before any directory is touched.
type scanInputs struct {
	Source   string
	CSV      string
	LogPath  string
	Tool     analyzer.Analyzer
	Excludes []string
	StateDir string
}

// resolveScan merges positional arguments over config defaults and rejects
// incomplete invocations before processing starts.
func resolveScan(cfg config.Config, args []string, logFlag string) (scanInputs, error) {
	in := scanInputs{
		Source:   cfg.Source,
		CSV:      cfg.CSV,
		LogPath:  cfg.Log,
		Excludes: cfg.Excludes,
		StateDir: cfg.StateDir,
	}
	if len(args) > 0 {
		in.Source = args[0]
	}
	if len(args) > 1 {
		in.CSV = args[1]
	}
	if logFlag != "" {
		in.LogPath = logFlag
	}
	if in.Source == "" || in.CSV == "" {
		return scanInputs{}, fmt.Errorf("source dir and csv file are required (as arguments, or via %s)", config.DefaultFile)
	}

	mode := analyzer.ModeLegacyCSV
	switch {
	case cfg.Analyzer.Mode == "tags":
		mode = analyzer.ModeTags
	case cfg.Analyzer.Mode == "" && in.LogPath != "":
		// The logging deployment has always used the tags subcommand.
		mode = analyzer.ModeTags
	}

	flags := cfg.Analyzer.Flags
	if flags == nil && mode == analyzer.ModeLegacyCSV {
		flags = analyzer.DefaultLegacyFlags
	}

	in.Tool = analyzer.Analyzer{Bin: cfg.Analyzer.Bin, Mode: mode, Extra: flags}
	return in, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(scanConfigPath)
	if err != nil {
		return err
	}
	in, err := resolveScan(cfg, args, scanLogPath)
	if err != nil {
		return err
	}

	log, err := logging.New(in.LogPath)
	if err != nil {
		return err
	}
	defer log.Close()

	if !in.Tool.Available() {
		log.Warn("analyzer %s not found on PATH; dispatches will fail", in.Tool.Bin)
	}

	var pre []scan.Outcome
	if scanUseDirs != "" {
		l, err := dirlist.Read(scanUseDirs)
		if err != nil {
			return err
		}
		pre = l.Outcomes()
	}

	var reporter progress.Reporter = progress.Nop{}
	if log.ToFile() {
		reporter = progress.Auto()
	}

	var st *sqlite.Store
	runID := uuid.NewString()
	if !scanNoStore {
		st, err = sqlite.Open(in.StateDir)
		if err != nil {
			log.Warn("history store unavailable: %v", err)
			st = nil
		} else {
			defer st.Close()
			err = st.BeginRun(sqlite.RunRecord{
				RunID:  runID,
				Source: in.Source,
				CSV:    in.CSV,
				Mode:   string(in.Tool.Mode),
			})
			if err != nil {
				log.Warn("record run: %v", err)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats := batch.Run(ctx, batch.Options{
		Root:        in.Source,
		CSV:         in.CSV,
		Tool:        in.Tool.Bin,
		Invoker:     in.Tool,
		Log:         log,
		Progress:    reporter,
		Excludes:    in.Excludes,
		WithValues:  scanWithValues,
		Precomputed: pre,
		OnOutcome: func(o batch.Outcome) {
			if st == nil {
				return
			}
			err := st.InsertOutcome(sqlite.OutcomeRecord{
				RunID:   runID,
				Project: o.Scan.Project,
				Layout:  o.Scan.Layout,
				Status:  string(o.Status),
				Message: o.Message,
			})
			if err != nil {
				log.Warn("record outcome: %v", err)
			}
		},
	})

	if st != nil {
		if err := st.FinishRun(runID, stats.Total, stats.Dispatched, stats.Skipped, stats.Problems); err != nil {
			log.Warn("finish run: %v", err)
		}
	}

	if log.ToFile() {
		if err := log.Close(); err != nil {
			return err
		}
		f, err := os.Open(in.LogPath)
		if err != nil {
			return fmt.Errorf("reopen log for tally: %w", err)
		}
		defer f.Close()
		problems, err := batch.CountProblems(f)
		if err != nil {
			return err
		}
		fmt.Println(batch.SummaryLine(problems, in.LogPath))
	}
	return nil
}
