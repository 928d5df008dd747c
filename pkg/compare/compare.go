package compare

import (
	"context"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/Taciones/parquet-comparison-job/logger"
	"github.com/Taciones/parquet-comparison-job/pkg/table"
)

// Options configure a single comparison.
type Options struct {
	// KeyColumns are sorted and set as each table's key. Empty means rows
	// are matched positionally.
	KeyColumns []string

	// IgnoreColumns are dropped from a side before comparison, but only
	// when the whole set is a subset of that side's columns. Partial
	// matches leave that side untouched.
	IgnoreColumns []string

	// Normalizers canonicalize cells of named columns on both sides before
	// comparison.
	Normalizers Normalizer
}

// Compare loads two dataset files and compares them, returning the
// structured diff report. Only loading failures surface as errors; every
// expected divergence (mismatches, duplicates, missing keys) lands in the
// result instead.
func Compare(ctx context.Context, leftPath, rightPath string, opts Options) (*CompareResult, error) {
	log := logger.GetLogger()

	log.Info("loading dataset", zap.String("path", leftPath))
	left, err := table.Load(ctx, leftPath)
	if err != nil {
		return nil, err
	}

	log.Info("loading dataset", zap.String("path", rightPath))
	right, err := table.Load(ctx, rightPath)
	if err != nil {
		return nil, err
	}

	return CompareTables(filepath.Base(leftPath), left, right, opts), nil
}

// CompareTables compares two in-memory tables. It takes ownership of both
// tables for the duration of the call and may modify them in place
// (normalization, ignore-column drops); the returned result holds no
// references back to them.
func CompareTables(fileName string, left, right *table.Table, opts Options) *CompareResult {
	res := newCompareResult(fileName)

	if opts.Normalizers != nil {
		opts.Normalizers.Apply(left)
		opts.Normalizers.Apply(right)
	}

	dropIgnored(left, opts.IgnoreColumns)
	dropIgnored(right, opts.IgnoreColumns)

	diffColumnSets(res, left, right)

	al := reconcile(res, left, right, opts.KeyColumns)
	if al == nil {
		// No common keys: short-circuit with partial results. DataMatch
		// stays NotEvaluated since no data was ever compared.
		return res
	}

	diffColumns(res, left, right, al)
	return res
}

// dropIgnored removes the ignore set from one side iff the whole set is
// present on that side.
func dropIgnored(t *table.Table, ignore []string) {
	if len(ignore) == 0 || !t.HasColumns(ignore) {
		return
	}
	t.DropColumns(ignore)
}

// diffColumnSets records the symmetric difference of the two column name
// sets as sorted lists.
func diffColumnSets(res *CompareResult, left, right *table.Table) {
	leftOnly := exclusiveNames(left, right)
	rightOnly := exclusiveNames(right, left)
	if len(leftOnly) == 0 && len(rightOnly) == 0 {
		return
	}
	res.Match = false
	res.LeftOnlyColumns = leftOnly
	res.RightOnlyColumns = rightOnly
}

func exclusiveNames(a, b *table.Table) []string {
	out := []string{}
	for _, name := range a.ColumnNames() {
		if _, ok := b.Column(name); !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
