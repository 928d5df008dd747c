package compare

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Taciones/parquet-comparison-job/logger"
	"github.com/Taciones/parquet-comparison-job/pkg/table"
)

// alignment is the outcome of index reconciliation: the common keys in
// ascending order plus, per side, the source row feeding each key.
type alignment struct {
	keys      []Key
	leftRows  []int
	rightRows []int
}

// keyedSide is one table's key view after sorting and deduplication.
type keyedSide struct {
	keys    []Key // unique keys, ascending
	rows    []int // source row per unique key (first occurrence wins)
	dups    []DuplicateKey
	missing bool // requested key columns absent from this side
}

// keySide establishes the key of one table. With key columns present it
// sorts by key and deduplicates, keeping the first occurrence of each
// duplicate. Absent or unspecified key columns degrade to positional keys.
func keySide(t *table.Table, keyCols []string, side string) keyedSide {
	if len(keyCols) == 0 || !t.HasColumns(keyCols) {
		if len(keyCols) > 0 {
			logger.GetLogger().Warn("key columns not found, falling back to positional keys",
				zap.Strings("key_columns", keyCols),
				zap.String("table", t.Name),
				zap.String("side", side))
		}
		n := t.NumRows()
		ks := keyedSide{
			keys:    make([]Key, n),
			rows:    make([]int, n),
			missing: len(keyCols) > 0,
		}
		for i := 0; i < n; i++ {
			ks.keys[i] = NewKey(table.IntValue(int64(i)))
			ks.rows[i] = i
		}
		return ks
	}

	cols := make([]*table.Column, len(keyCols))
	for i, name := range keyCols {
		cols[i], _ = t.Column(name)
	}

	n := t.NumRows()
	keys := make([]Key, n)
	for i := 0; i < n; i++ {
		parts := make([]table.Value, len(cols))
		for j, col := range cols {
			parts[j] = col.Values[i]
		}
		keys[i] = NewKey(parts...)
	}

	// Stable sort keeps the original row order among equal keys, so the
	// kept duplicate is the first occurrence in file order.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return keys[order[a]].Less(keys[order[b]])
	})

	counts := make(map[string]int, n)
	for _, k := range keys {
		counts[k.canonical()]++
	}

	ks := keyedSide{dups: []DuplicateKey{}}
	seen := make(map[string]bool, n)
	for _, row := range order {
		k := keys[row]
		canon := k.canonical()
		if seen[canon] {
			continue
		}
		seen[canon] = true
		ks.keys = append(ks.keys, k)
		ks.rows = append(ks.rows, row)
		if counts[canon] > 1 {
			ks.dups = append(ks.dups, DuplicateKey{Key: k, Count: counts[canon]})
		}
	}
	return ks
}

func keysEqual(a, b []Key) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Less(b[i]) || b[i].Less(a[i]) {
			return false
		}
	}
	return true
}

// reconcile keys both tables, records duplicate keys and the key-set
// symmetric difference on the result, and narrows to the common key set.
// It returns nil when the common key set is empty, in which case the data
// stage never runs and DataMatch stays NotEvaluated.
func reconcile(res *CompareResult, left, right *table.Table, keyCols []string) *alignment {
	ls := keySide(left, keyCols, "left")
	rs := keySide(right, keyCols, "right")
	res.LeftKeyColumnsMissing = ls.missing
	res.RightKeyColumnsMissing = rs.missing

	// Duplicate keys make row identity ambiguous, so they force an overall
	// mismatch even when every remaining value agrees.
	if len(ls.dups) > 0 {
		res.LeftDuplicate = true
		res.Match = false
		res.LeftIndexDuplicates = ls.dups
	}
	if len(rs.dups) > 0 {
		res.RightDuplicate = true
		res.Match = false
		res.RightIndexDuplicates = rs.dups
	}

	res.LeftIndexCount = len(ls.keys)
	res.RightIndexCount = len(rs.keys)

	if keysEqual(ls.keys, rs.keys) {
		res.CommonIndexCount = res.LeftIndexCount
		return &alignment{keys: ls.keys, leftRows: ls.rows, rightRows: rs.rows}
	}

	res.IndexMatch = false
	res.Match = false

	// Merge the two sorted unique key sequences into exclusive and common
	// sets. Both exclusive lists come out ascending.
	al := &alignment{}
	i, j := 0, 0
	for i < len(ls.keys) && j < len(rs.keys) {
		switch {
		case ls.keys[i].Less(rs.keys[j]):
			res.LeftOnlyIndexes = append(res.LeftOnlyIndexes, ls.keys[i])
			i++
		case rs.keys[j].Less(ls.keys[i]):
			res.RightOnlyIndexes = append(res.RightOnlyIndexes, rs.keys[j])
			j++
		default:
			al.keys = append(al.keys, ls.keys[i])
			al.leftRows = append(al.leftRows, ls.rows[i])
			al.rightRows = append(al.rightRows, rs.rows[j])
			i++
			j++
		}
	}
	res.LeftOnlyIndexes = append(res.LeftOnlyIndexes, ls.keys[i:]...)
	res.RightOnlyIndexes = append(res.RightOnlyIndexes, rs.keys[j:]...)

	res.CommonIndexCount = len(al.keys)
	if res.CommonIndexCount == 0 {
		return nil
	}
	return al
}
