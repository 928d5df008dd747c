package compare

import (
	"math"

	"github.com/Taciones/parquet-comparison-job/pkg/table"
)

// gather materializes the column values feeding the aligned keys.
func gather(vals []table.Value, rows []int) []table.Value {
	out := make([]table.Value, len(rows))
	for i, r := range rows {
		out[i] = vals[r]
	}
	return out
}

// diffColumns compares every column present on both sides over the aligned
// common keys, in the left table's column order. Fully equal columns record
// nothing; mismatched columns get a ColumnResult with a materialized
// mismatch table.
func diffColumns(res *CompareResult, left, right *table.Table, al *alignment) {
	total := len(al.keys)
	anyMismatch := false

	for i := range left.Columns {
		col := &left.Columns[i]
		rcol, ok := right.Column(col.Name)
		if !ok {
			continue
		}

		lvals := gather(col.Values, al.leftRows)
		rvals := gather(rcol.Values, al.rightRows)
		positions := nonEqualPositions(lvals, rvals)
		if len(positions) == 0 {
			continue
		}
		anyMismatch = true

		cr := ColumnResult{
			DtypeMatch:      col.Type == rcol.Type,
			LeftDtype:       col.Type,
			RightDtype:      rcol.Type,
			MismatchCount:   len(positions),
			MismatchPercent: float64(len(positions)) / float64(total) * 100,
			Mismatches:      make([]MismatchRow, 0, len(positions)),
		}

		// The relative-mismatch column applies only when both sides declare
		// the same numeric kind. Division by a zero left value is left
		// as-is (yields +/-Inf); equal values never reach the mismatch
		// table, so the zero-where-equal rule is vacuous here.
		numeric := col.Type.Numeric() && col.Type == rcol.Type

		for _, p := range positions {
			row := MismatchRow{Key: al.keys[p], Left: lvals[p], Right: rvals[p]}
			if numeric {
				if l, lok := lvals[p].AsFloat(); lok {
					if r, rok := rvals[p].AsFloat(); rok {
						rel := math.Abs(l-r) / l * 100
						row.RelPercent = &rel
					}
				}
			}
			cr.Mismatches = append(cr.Mismatches, row)
		}
		res.ColumnResults[col.Name] = cr
	}

	if anyMismatch || len(res.LeftOnlyColumns) > 0 || len(res.RightOnlyColumns) > 0 {
		res.DataMatch = Mismatched
		res.Match = false
	} else {
		res.DataMatch = Matched
	}
}
