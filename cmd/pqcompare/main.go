// Package main provides the entry point for the pqcompare dataset
// comparison tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Taciones/parquet-comparison-job/logger"
	"github.com/Taciones/parquet-comparison-job/version"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pqcompare",
		Short: "pqcompare validates that two tabular dataset trees match",
		Long: `pqcompare compares tabular datasets (Parquet, CSV) for equality and
reports precisely where and how they diverge: which rows, which columns,
and how large the discrepancy is. It is aimed at data-pipeline validation,
confirming that a regenerated or migrated dataset matches a reference.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of pqcompare",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pqcompare %s (built %s)\n", version.Version, version.BuildDate)
		},
	})

	rootCmd.AddCommand(newCompareCommand())
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}

func main() {
	logger.InitLogger()
	defer logger.Sync()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
