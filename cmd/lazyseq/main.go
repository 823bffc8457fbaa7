// Package main provides the entry point for the lazyseq CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/lazyseq/cmd/lazyseq/commands"
	"github.com/Sumatoshi-tech/lazyseq/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "lazyseq",
		Short: "Differential checker for lazily materialized sequences",
		Long: `lazyseq drives a lazily generated list and a fully materialized one through
the same edits and checks that they never disagree.

Commands:
  simulate  Run seeded random edit workloads
  replay    Replay a YAML edit script
  validate  Check an edit script against its schema`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewSimulateCommand())
	rootCmd.AddCommand(commands.NewReplayCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
