// Package runner drives bulk comparisons: it pairs up files under two
// directory roots by relative path, invokes the core comparator once per
// pair and tabulates the outcomes.
package runner

import (
	"context"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/briandowns/spinner"
	"go.uber.org/zap"

	"github.com/Taciones/parquet-comparison-job/logger"
	"github.com/Taciones/parquet-comparison-job/pkg/compare"
	"github.com/Taciones/parquet-comparison-job/pkg/table"
)

// Mode selects how each file pair is compared.
type Mode string

const (
	// ModeExact is a whole-table equality check, order-sensitive.
	ModeExact Mode = "exact"
	// ModeDeep runs the full structured comparison.
	ModeDeep Mode = "deep"
	// ModeSampled compares a random fraction of row positions.
	ModeSampled Mode = "sampled"
)

// Status is the per-file outcome of a bulk run.
type Status string

const (
	StatusMatch    Status = "match"
	StatusNotMatch Status = "not_match"
	StatusMissing  Status = "file_not_found"
	StatusError    Status = "error"
)

// Pair is one matched file pair under the two roots.
type Pair struct {
	RelPath string
	Left    string
	Right   string
}

// FileResult is the outcome of comparing one pair. Result is populated only
// in deep and sampled modes.
type FileResult struct {
	RelPath string
	Status  Status
	Result  *compare.CompareResult
	Err     error
}

// Summary tabulates a whole run.
type Summary struct {
	Total      int
	Matched    int
	NotMatched int
	Missing    int
	Errors     int
}

// Options configure a bulk run.
type Options struct {
	LeftRoot  string
	RightRoot string
	Mode      Mode

	// SampleRate is the fraction of rows compared in sampled mode.
	SampleRate float64
	// Seed makes sampled runs reproducible; zero seeds from the clock.
	Seed int64

	// Extensions are the recognized file extensions. Defaults to .parquet
	// and .csv.
	Extensions []string

	Compare compare.Options

	// ShowProgress enables the terminal spinner.
	ShowProgress bool
}

// DiscoverPairs walks the left root and pairs every recognized file with
// the same relative path under the right root. Pairs come back sorted by
// relative path.
func DiscoverPairs(leftRoot, rightRoot string, extensions []string) ([]Pair, error) {
	if len(extensions) == 0 {
		extensions = []string{".parquet", ".csv"}
	}
	recognized := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		recognized[strings.ToLower(ext)] = true
	}

	var pairs []Pair
	err := filepath.WalkDir(leftRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !recognized[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(leftRoot, path)
		if err != nil {
			return err
		}
		pairs = append(pairs, Pair{
			RelPath: rel,
			Left:    path,
			Right:   filepath.Join(rightRoot, rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", leftRoot, err)
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].RelPath < pairs[j].RelPath })
	return pairs, nil
}

// Run discovers file pairs and compares them sequentially. Each pair's
// comparison is independent; a failing pair is recorded and the run moves
// on.
func Run(ctx context.Context, opts Options) ([]FileResult, Summary, error) {
	log := logger.GetLogger()

	pairs, err := DiscoverPairs(opts.LeftRoot, opts.RightRoot, opts.Extensions)
	if err != nil {
		return nil, Summary{}, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var sp *spinner.Spinner
	if opts.ShowProgress {
		sp = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		sp.Start()
		defer sp.Stop()
	}

	results := make([]FileResult, 0, len(pairs))
	var summary Summary
	summary.Total = len(pairs)

	for i, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return results, summary, err
		}
		if sp != nil {
			sp.Suffix = fmt.Sprintf(" comparing %d/%d: %s", i+1, len(pairs), pair.RelPath)
		}

		fr := comparePair(ctx, pair, opts, rng)
		switch fr.Status {
		case StatusMatch:
			summary.Matched++
		case StatusNotMatch:
			summary.NotMatched++
		case StatusMissing:
			summary.Missing++
		case StatusError:
			summary.Errors++
		}

		log.Info("compared file pair",
			zap.String("file", pair.RelPath),
			zap.String("status", string(fr.Status)))
		results = append(results, fr)
	}

	return results, summary, nil
}

func comparePair(ctx context.Context, pair Pair, opts Options, rng *rand.Rand) FileResult {
	fr := FileResult{RelPath: pair.RelPath}

	if _, err := os.Stat(pair.Right); os.IsNotExist(err) {
		fr.Status = StatusMissing
		return fr
	}

	switch opts.Mode {
	case ModeExact:
		equal, err := exactEqual(ctx, pair.Left, pair.Right)
		if err != nil {
			fr.Status = StatusError
			fr.Err = err
			return fr
		}
		if equal {
			fr.Status = StatusMatch
		} else {
			fr.Status = StatusNotMatch
		}
	case ModeSampled:
		res, err := sampledCompare(ctx, pair, opts, rng)
		if err != nil {
			// Sampled runs cover large trees; an unreadable file counts as
			// a mismatch rather than aborting the run.
			logger.GetLogger().Warn("sampled comparison failed",
				zap.String("file", pair.RelPath), zap.Error(err))
			fr.Status = StatusNotMatch
			fr.Err = err
			return fr
		}
		fr.Result = res
		if res.Match {
			fr.Status = StatusMatch
		} else {
			fr.Status = StatusNotMatch
		}
	default: // ModeDeep
		res, err := compare.Compare(ctx, pair.Left, pair.Right, opts.Compare)
		if err != nil {
			fr.Status = StatusError
			fr.Err = err
			return fr
		}
		fr.Result = res
		if res.Match {
			fr.Status = StatusMatch
		} else {
			fr.Status = StatusNotMatch
		}
	}
	return fr
}

// exactEqual is the whole-table fast check: both files must deserialize to
// byte-for-byte equal Arrow records, row order included.
func exactEqual(ctx context.Context, leftPath, rightPath string) (bool, error) {
	left, err := table.ReadRecord(ctx, leftPath)
	if err != nil {
		return false, err
	}
	defer left.Release()

	right, err := table.ReadRecord(ctx, rightPath)
	if err != nil {
		return false, err
	}
	defer right.Release()

	if !left.Schema().Equal(right.Schema()) || left.NumRows() != right.NumRows() {
		return false, nil
	}
	return array.RecordEqual(left, right), nil
}

// sampledCompare compares a random fraction of row positions, the same
// positions on both sides.
func sampledCompare(ctx context.Context, pair Pair, opts Options, rng *rand.Rand) (*compare.CompareResult, error) {
	left, err := table.Load(ctx, pair.Left)
	if err != nil {
		return nil, err
	}
	right, err := table.Load(ctx, pair.Right)
	if err != nil {
		return nil, err
	}

	rate := opts.SampleRate
	if rate <= 0 || rate > 1 {
		rate = 0.5
	}
	total := left.NumRows()
	if right.NumRows() < total {
		total = right.NumRows()
	}
	count := int(float64(total) * rate)

	rows := rng.Perm(total)[:count]
	sort.Ints(rows)

	sampleOpts := opts.Compare
	sampleOpts.KeyColumns = nil // sampled rows are matched positionally
	return compare.CompareTables(pair.RelPath, left.Take(rows), right.Take(rows), sampleOpts), nil
}
