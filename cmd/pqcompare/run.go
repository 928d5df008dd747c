package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Taciones/parquet-comparison-job/config"
	"github.com/Taciones/parquet-comparison-job/internal/runner"
	"github.com/Taciones/parquet-comparison-job/pkg/compare"
	"github.com/Taciones/parquet-comparison-job/report"
)

// RunOptions represents the options for the run command.
type RunOptions struct {
	ConfigPath    string
	Mode          string
	SampleRate    float64
	Seed          int64
	KeyColumns    []string
	IgnoreColumns []string
	SortedColumns []string
	Extensions    []string
	Quiet         bool
}

// newRunCommand creates the bulk run command.
func newRunCommand() *cobra.Command {
	options := &RunOptions{
		Mode:       string(runner.ModeDeep),
		SampleRate: 0.5,
	}

	cmd := &cobra.Command{
		Use:   "run [flags] LEFT_ROOT RIGHT_ROOT",
		Short: "Compare every matching file pair under two directory roots",
		Long: `The run command walks LEFT_ROOT, pairs each recognized dataset file
with the file at the same relative path under RIGHT_ROOT, compares the
pairs sequentially and prints per-file verdicts plus a summary.

Modes:
  exact    whole-table equality, row order included (fast)
  deep     full structured comparison (default)
  sampled  compare a random fraction of row positions`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBulk(cmd, args, options)
		},
	}

	cmd.Flags().StringVarP(&options.ConfigPath, "config", "c", "", "YAML job configuration file")
	cmd.Flags().StringVarP(&options.Mode, "mode", "m", options.Mode, "Comparison mode (exact, deep, sampled)")
	cmd.Flags().Float64Var(&options.SampleRate, "sample-rate", options.SampleRate, "Fraction of rows compared in sampled mode")
	cmd.Flags().Int64Var(&options.Seed, "seed", 0, "Random seed for sampled mode (0 = from clock)")
	cmd.Flags().StringSliceVarP(&options.KeyColumns, "key", "k", nil, "Key columns for row matching")
	cmd.Flags().StringSliceVarP(&options.IgnoreColumns, "ignore", "i", nil, "Columns to drop before comparison")
	cmd.Flags().StringSliceVar(&options.SortedColumns, "sort-arrays", nil, "Array columns to sort cell-wise before comparison")
	cmd.Flags().StringSliceVar(&options.Extensions, "extensions", nil, "Recognized file extensions (default .parquet,.csv)")
	cmd.Flags().BoolVarP(&options.Quiet, "quiet", "q", false, "Suppress the progress spinner")

	return cmd
}

func runBulk(cmd *cobra.Command, args []string, options *RunOptions) error {
	runOpts := runner.Options{
		Mode:         runner.Mode(options.Mode),
		SampleRate:   options.SampleRate,
		Seed:         options.Seed,
		Extensions:   options.Extensions,
		ShowProgress: !options.Quiet,
		Compare: compare.Options{
			KeyColumns:    options.KeyColumns,
			IgnoreColumns: options.IgnoreColumns,
		},
	}
	if len(options.SortedColumns) > 0 {
		runOpts.Compare.Normalizers = compare.SortArrays(options.SortedColumns...)
	}

	if options.ConfigPath != "" {
		cfg, err := config.LoadConfig(options.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		applyJobConfig(&runOpts, &cfg.Job)
	}

	if len(args) == 2 {
		runOpts.LeftRoot = args[0]
		runOpts.RightRoot = args[1]
	}
	if runOpts.LeftRoot == "" || runOpts.RightRoot == "" {
		return fmt.Errorf("two dataset roots are required, via arguments or --config")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	results, summary, err := runner.Run(ctx, runOpts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, fr := range results {
		switch {
		case fr.Result != nil:
			fmt.Fprintln(out, report.Summary(fr.Result))
		case fr.Err != nil:
			fmt.Fprintf(out, "%s: %s (%v)\n", fr.RelPath, fr.Status, fr.Err)
		default:
			fmt.Fprintf(out, "%s: %s\n", fr.RelPath, fr.Status)
		}
	}

	fmt.Fprintln(out, "\nSummary:")
	fmt.Fprintf(out, "  Total files compared: %d\n", summary.Total)
	fmt.Fprintf(out, "  Matched files:        %d\n", summary.Matched)
	fmt.Fprintf(out, "  Not matched files:    %d\n", summary.NotMatched)
	fmt.Fprintf(out, "  Files not found:      %d\n", summary.Missing)
	fmt.Fprintf(out, "  Errors:               %d\n", summary.Errors)

	return nil
}

// applyJobConfig folds config-file settings into the run options; command
// line flags take precedence where both are set.
func applyJobConfig(runOpts *runner.Options, job *config.JobConfig) {
	runOpts.LeftRoot = job.LeftRoot
	runOpts.RightRoot = job.RightRoot
	if job.Mode != "" {
		runOpts.Mode = runner.Mode(job.Mode)
	}
	if job.SampleRate > 0 {
		runOpts.SampleRate = job.SampleRate
	}
	if len(job.Extensions) > 0 {
		runOpts.Extensions = job.Extensions
	}
	if len(runOpts.Compare.KeyColumns) == 0 {
		runOpts.Compare.KeyColumns = job.KeyColumns
	}
	if len(runOpts.Compare.IgnoreColumns) == 0 {
		runOpts.Compare.IgnoreColumns = job.IgnoreColumns
	}
	if runOpts.Compare.Normalizers == nil && len(job.SortedColumns) > 0 {
		runOpts.Compare.Normalizers = compare.SortArrays(job.SortedColumns...)
	}
}
