// Command inspect dumps the schema and leading rows of a dataset file,
// Parquet or CSV, through the same loader the comparator uses. Handy for
// checking what pqcompare will actually see.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/Taciones/parquet-comparison-job/pkg/table"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: inspect <file> [max_rows]")
		os.Exit(1)
	}

	maxRows := 10
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n < 1 {
			fmt.Fprintf(os.Stderr, "invalid max_rows %q\n", os.Args[2])
			os.Exit(1)
		}
		maxRows = n
	}

	tbl, err := table.Load(context.Background(), os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	fmt.Printf("File: %s\n", os.Args[1])
	fmt.Printf("Rows: %d\n\nColumns:\n", tbl.NumRows())
	for i, col := range tbl.Columns {
		fmt.Printf("  %d: %s (%s)\n", i, col.Name, col.Type)
	}

	if tbl.NumRows() < maxRows {
		maxRows = tbl.NumRows()
	}
	fmt.Printf("\nFirst %d rows:\n", maxRows)
	for i := 0; i < maxRows; i++ {
		fmt.Printf("  Row %d: [", i)
		for j, col := range tbl.Columns {
			if j > 0 {
				fmt.Print(", ")
			}
			fmt.Print(col.Values[i].String())
		}
		fmt.Println("]")
	}
}
