package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/featchain/featchain/log"
)

var logger *logrus.Logger

func main() {
	logger = log.GetLogger()

	root := &cobra.Command{
		Use:   "featchain",
		Short: "Compose and run typed feature processing chains",
	}
	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentPreRun = func(*cobra.Command, []string) {
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
	}

	root.AddCommand(processCommand())
	root.AddCommand(inspectCommand())

	if err := root.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
