package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taciones/parquet-comparison-job/pkg/compare"
)

// writeTree writes CSV files into dir, keyed by relative path.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestDiscoverPairs(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	writeTree(t, left, map[string]string{
		"b.csv":         "a\n1\n",
		"sub/a.csv":     "a\n1\n",
		"notes.txt":     "ignored",
		"sub/deep.json": "ignored",
	})

	pairs, err := DiscoverPairs(left, right, nil)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t, "b.csv", pairs[0].RelPath)
	assert.Equal(t, filepath.Join("sub", "a.csv"), pairs[1].RelPath)
	assert.Equal(t, filepath.Join(right, "sub", "a.csv"), pairs[1].Right)
}

func TestDiscoverPairsCustomExtensions(t *testing.T) {
	left := t.TempDir()
	writeTree(t, left, map[string]string{
		"a.csv":     "a\n1\n",
		"b.parquet": "",
	})

	pairs, err := DiscoverPairs(left, t.TempDir(), []string{".csv"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "a.csv", pairs[0].RelPath)
}

func TestRunDeepMode(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	writeTree(t, left, map[string]string{
		"same.csv":    "id,v\n1,10\n2,20\n",
		"diff.csv":    "id,v\n1,10\n2,20\n",
		"missing.csv": "id,v\n1,10\n",
	})
	writeTree(t, right, map[string]string{
		"same.csv": "id,v\n1,10\n2,20\n",
		"diff.csv": "id,v\n1,10\n2,99\n",
	})

	results, summary, err := Run(context.Background(), Options{
		LeftRoot:  left,
		RightRoot: right,
		Mode:      ModeDeep,
		Compare:   compare.Options{KeyColumns: []string{"id"}},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	byPath := make(map[string]FileResult, len(results))
	for _, fr := range results {
		byPath[fr.RelPath] = fr
	}

	assert.Equal(t, StatusMatch, byPath["same.csv"].Status)
	assert.Equal(t, StatusNotMatch, byPath["diff.csv"].Status)
	assert.Equal(t, StatusMissing, byPath["missing.csv"].Status)

	require.NotNil(t, byPath["diff.csv"].Result)
	assert.Contains(t, byPath["diff.csv"].Result.ColumnResults, "v")

	assert.Equal(t, Summary{Total: 3, Matched: 1, NotMatched: 1, Missing: 1}, summary)
}

func TestRunExactMode(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	writeTree(t, left, map[string]string{
		"same.csv":      "id,v\n1,10\n",
		"reordered.csv": "id,v\n1,10\n2,20\n",
	})
	writeTree(t, right, map[string]string{
		"same.csv":      "id,v\n1,10\n",
		"reordered.csv": "id,v\n2,20\n1,10\n",
	})

	results, summary, err := Run(context.Background(), Options{
		LeftRoot:  left,
		RightRoot: right,
		Mode:      ModeExact,
	})
	require.NoError(t, err)

	byPath := make(map[string]FileResult, len(results))
	for _, fr := range results {
		byPath[fr.RelPath] = fr
	}
	assert.Equal(t, StatusMatch, byPath["same.csv"].Status)
	assert.Equal(t, StatusNotMatch, byPath["reordered.csv"].Status, "exact mode is order-sensitive")
	assert.Equal(t, Summary{Total: 2, Matched: 1, NotMatched: 1}, summary)
}

func TestRunSampledModeReproducible(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	rows := "id,v\n1,10\n2,20\n3,30\n4,40\n5,50\n6,60\n7,70\n8,80\n"
	writeTree(t, left, map[string]string{"data.csv": rows})
	writeTree(t, right, map[string]string{"data.csv": rows})

	opts := Options{
		LeftRoot:   left,
		RightRoot:  right,
		Mode:       ModeSampled,
		SampleRate: 0.5,
		Seed:       42,
	}

	results, summary, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, StatusMatch, results[0].Status)
	assert.Equal(t, 1, summary.Matched)

	require.NotNil(t, results[0].Result)
	assert.Equal(t, 4, results[0].Result.CommonIndexCount, "half of 8 rows sampled")

	// Same seed, same sample.
	again, _, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, results[0].Result, again[0].Result)
}

func TestRunSampledModeUnreadableFileIsNotFatal(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	writeTree(t, left, map[string]string{"bad.parquet": "not parquet at all"})
	writeTree(t, right, map[string]string{"bad.parquet": "not parquet at all"})

	results, summary, err := Run(context.Background(), Options{
		LeftRoot:   left,
		RightRoot:  right,
		Mode:       ModeSampled,
		SampleRate: 0.5,
	})
	require.NoError(t, err, "the run itself must survive an unreadable pair")
	require.Len(t, results, 1)
	assert.Equal(t, StatusNotMatch, results[0].Status)
	assert.Error(t, results[0].Err)
	assert.Equal(t, 1, summary.NotMatched)
}

func TestRunCanceledContext(t *testing.T) {
	left := t.TempDir()
	writeTree(t, left, map[string]string{"a.csv": "a\n1\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Run(ctx, Options{LeftRoot: left, RightRoot: t.TempDir(), Mode: ModeDeep})
	assert.ErrorIs(t, err, context.Canceled)
}
