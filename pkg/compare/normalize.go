package compare

import (
	"sort"

	"github.com/Taciones/parquet-comparison-job/pkg/table"
)

// Normalizer maps column names to a cell canonicalization applied to both
// tables before comparison. It exists for dataset-specific policy such as
// sorting array-valued cells whose element order carries no meaning.
type Normalizer map[string]func(table.Value) table.Value

// Apply rewrites every cell of each named column that is present in the
// table. Missing columns are skipped.
func (n Normalizer) Apply(t *table.Table) {
	for name, fn := range n {
		col, ok := t.Column(name)
		if !ok {
			continue
		}
		for i, v := range col.Values {
			col.Values[i] = fn(v)
		}
	}
}

// Merge folds another normalizer into this one and returns the receiver.
func (n Normalizer) Merge(other Normalizer) Normalizer {
	for name, fn := range other {
		n[name] = fn
	}
	return n
}

// SortArrays builds a normalizer that sorts each array cell of the named
// columns into ascending order. Non-array cells pass through unchanged.
func SortArrays(cols ...string) Normalizer {
	n := Normalizer{}
	for _, c := range cols {
		n[c] = sortArrayCell
	}
	return n
}

func sortArrayCell(v table.Value) table.Value {
	if v.Kind() != table.Array {
		return v
	}
	elems := append([]table.Value(nil), v.Elems()...)
	sort.SliceStable(elems, func(i, j int) bool { return elems[i].Less(elems[j]) })
	return table.ArrayValue(elems...)
}
