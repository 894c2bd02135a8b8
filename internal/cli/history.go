package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/resweep/resweep/internal/config"
	"github.com/resweep/resweep/internal/store/sqlite"
)

var (
	historyLimit      int
	historyRunID      string
	historyConfigPath string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded batch runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list")
	historyCmd.Flags().StringVar(&historyRunID, "run", "", "show per-project outcomes for one run")
	historyCmd.Flags().StringVar(&historyConfigPath, "config", "", "configuration file (default "+config.DefaultFile+" when present)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(historyConfigPath)
	if err != nil {
		return err
	}
	st, err := sqlite.Open(cfg.StateDir)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer st.Close()

	if historyRunID != "" {
		outcomes, err := st.ListOutcomes(historyRunID)
		if err != nil {
			return err
		}
		for _, o := range outcomes {
			line := fmt.Sprintf("%-12s %s", o.Status, o.Project)
			if o.Message != "" {
				line += "  (" + o.Message + ")"
			}
			fmt.Println(line)
		}
		return nil
	}

	runs, err := st.ListRuns(historyLimit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %s  %d dispatched, %d skipped, %d problems\n",
			r.StartedAt, r.RunID, r.Source, r.Dispatched, r.Skipped, r.Problems)
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
	}
	return nil
}
