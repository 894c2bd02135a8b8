// Package cli wires the resweep commands together.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.3.1"

var rootCmd = &cobra.Command{
	Use:     "resweep",
	Short:   "Batch layout scanner and analyzer dispatcher for Android source repositories",
	Long: "resweep walks a repository of Android app source trees, selects each app's\n" +
		"most specific non-empty res/layout directory, and dispatches an external\n" +
		"layout analyzer against it.",
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(dirsCmd)
	rootCmd.AddCommand(historyCmd)
}
