package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Taciones/parquet-comparison-job/pkg/compare"
	"github.com/Taciones/parquet-comparison-job/report"
)

// CompareOptions represents the options for the compare command.
type CompareOptions struct {
	KeyColumns    []string
	IgnoreColumns []string
	SortedColumns []string
	OutputPath    string
	OutputFormat  string
	Detailed      bool
}

// newCompareCommand creates the single-pair compare command.
func newCompareCommand() *cobra.Command {
	options := &CompareOptions{
		OutputFormat: "text",
	}

	cmd := &cobra.Command{
		Use:   "compare [flags] LEFT RIGHT",
		Short: "Compare two dataset files and report the differences",
		Long: `The compare command compares two dataset files (Parquet or CSV) and
reports the differences: column-set and key-set symmetric differences,
duplicate keys, and per-column mismatch counts with materialized
mismatch rows.

With --key the rows are matched by the given key columns instead of by
position. Columns listed in --ignore are dropped from a side before
comparison when the whole set is present on that side.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], args[1], options)
		},
	}

	cmd.Flags().StringSliceVarP(&options.KeyColumns, "key", "k", nil, "Key columns for row matching")
	cmd.Flags().StringSliceVarP(&options.IgnoreColumns, "ignore", "i", nil, "Columns to drop before comparison")
	cmd.Flags().StringSliceVar(&options.SortedColumns, "sort-arrays", nil, "Array columns to sort cell-wise before comparison")
	cmd.Flags().StringVarP(&options.OutputPath, "output", "o", "", "Output path (defaults to stdout)")
	cmd.Flags().StringVarP(&options.OutputFormat, "format", "f", options.OutputFormat, "Output format (text, json, html)")
	cmd.Flags().BoolVar(&options.Detailed, "detailed", false, "Include per-row mismatch tables in text output")

	return cmd
}

func runCompare(cmd *cobra.Command, leftPath, rightPath string, options *CompareOptions) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	opts := compare.Options{
		KeyColumns:    options.KeyColumns,
		IgnoreColumns: options.IgnoreColumns,
	}
	if len(options.SortedColumns) > 0 {
		opts.Normalizers = compare.SortArrays(options.SortedColumns...)
	}

	result, err := compare.Compare(ctx, leftPath, rightPath, opts)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	gen, err := newGenerator(options.OutputFormat, options.Detailed)
	if err != nil {
		return err
	}

	if options.OutputPath != "" {
		if err := gen.SaveToFile(result, options.OutputPath); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Summary(result))
		return nil
	}

	data, err := gen.Generate(result)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func newGenerator(format string, detailed bool) (report.Generator, error) {
	switch format {
	case "text":
		return &report.TextGenerator{Detailed: detailed}, nil
	case "json":
		return &report.JSONGenerator{}, nil
	case "html":
		return &report.HTMLGenerator{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
