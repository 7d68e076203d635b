package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

type rootCmdConfig struct {
	verbose bool
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sylva",
		Short: "sylva is a tool to grow and prune decision trees",
		Long:  `A tool to grow decision and regression trees from your data, prune them, and use them to make predictions`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log progress to STDERR")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if config.verbose {
			log.SetLevel(logrus.InfoLevel)
		} else {
			log.SetLevel(logrus.WarnLevel)
		}
	}
	rootCmd.AddCommand(versionCmd(), growCmd(config), pruneCmd(config), predictCmd(config))
	return rootCmd
}
