package compare

import (
	"github.com/Taciones/parquet-comparison-job/pkg/table"
)

// nonEqualPositions reports the positions at which two aligned columns
// differ. A position where exactly one side is null is always a mismatch;
// a position where both sides are null is equal. Non-null values compare
// with deep, array-aware equality, so the verdict is always defined.
func nonEqualPositions(left, right []table.Value) []int {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	var positions []int
	for i := 0; i < n; i++ {
		lNull, rNull := left[i].IsNull(), right[i].IsNull()
		if lNull != rNull {
			positions = append(positions, i)
			continue
		}
		if lNull {
			continue
		}
		if !left[i].Equal(right[i]) {
			positions = append(positions, i)
		}
	}
	return positions
}

// NonEqualKeys returns the keys at which two aligned columns differ. Both
// columns must share the key order given by keys. The order of the returned
// keys follows the input alignment; only set membership is significant.
func NonEqualKeys(left, right []table.Value, keys []Key) []Key {
	positions := nonEqualPositions(left, right)
	out := make([]Key, len(positions))
	for i, p := range positions {
		out[i] = keys[p]
	}
	return out
}
