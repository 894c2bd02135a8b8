package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/resweep/resweep/internal/config"
	"github.com/resweep/resweep/internal/dirlist"
)

var (
	dirsCachePath  string
	dirsUsePath    string
	dirsConfigPath string
)

var dirsCmd = &cobra.Command{
	Use:   "dirs [source dir]",
	Short: "Discover layout directories, optionally caching the result",
	Long: "Walk every project under the source root and report its res/layout and\n" +
		"res/values candidates. With --cache the list is written to a file that\n" +
		"`scan --use-dirs` can consume; with --use a cached list is printed.",
	Args: cobra.MaximumNArgs(1),
	RunE: runDirs,
}

func init() {
	dirsCmd.Flags().StringVar(&dirsCachePath, "cache", "", "write the discovered list to this file")
	dirsCmd.Flags().StringVar(&dirsUsePath, "use", "", "print a previously cached list instead of walking")
	dirsCmd.Flags().StringVar(&dirsConfigPath, "config", "", "configuration file (default "+config.DefaultFile+" when present)")
	dirsCmd.MarkFlagsMutuallyExclusive("cache", "use")
}

func runDirs(cmd *cobra.Command, args []string) error {
	if dirsUsePath != "" {
		l, err := dirlist.Read(dirsUsePath)
		if err != nil {
			return err
		}
		printDirList(l)
		return nil
	}

	cfg, err := config.Load(dirsConfigPath)
	if err != nil {
		return err
	}
	source := cfg.Source
	if len(args) > 0 {
		source = args[0]
	}
	if source == "" {
		return fmt.Errorf("source dir is required (as an argument, or via %s)", config.DefaultFile)
	}

	l, err := dirlist.Build(source, cfg.Excludes)
	if err != nil {
		return err
	}
	if dirsCachePath != "" {
		if err := dirlist.Write(dirsCachePath, l); err != nil {
			return err
		}
		fmt.Printf("cached %d projects to %s\n", len(l.Entries), dirsCachePath)
		return nil
	}
	printDirList(l)
	return nil
}

func printDirList(l dirlist.List) {
	for _, e := range l.Entries {
		fmt.Printf("%s:\n", e.Project)
		for _, d := range e.Layouts {
			fmt.Printf("\t%s\n", d)
		}
		if len(e.Layouts) == 0 {
			fmt.Printf("\tnothing found for %s\n", e.Project)
		}
	}
}
