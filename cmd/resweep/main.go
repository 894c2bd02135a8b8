package main

import (
	"os"

	"github.com/resweep/resweep/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
