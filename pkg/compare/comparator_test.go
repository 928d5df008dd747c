package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taciones/parquet-comparison-job/pkg/table"
)

func TestNonEqualPositions(t *testing.T) {
	left := []table.Value{
		table.IntValue(1),
		table.NullValue(),
		table.IntValue(3),
		table.NullValue(),
		table.TextValue("x"),
	}
	right := []table.Value{
		table.IntValue(1),
		table.IntValue(2),
		table.IntValue(30),
		table.NullValue(),
		table.TextValue("x"),
	}

	got := nonEqualPositions(left, right)
	assert.Equal(t, []int{1, 2}, got)
}

func TestNonEqualPositionsAllEqual(t *testing.T) {
	vals := []table.Value{table.IntValue(1), table.NullValue()}
	assert.Empty(t, nonEqualPositions(vals, vals))
}

func TestNonEqualPositionsCrossKindNumeric(t *testing.T) {
	left := []table.Value{table.IntValue(2), table.IntValue(3)}
	right := []table.Value{table.FloatValue(2.0), table.FloatValue(3.5)}

	assert.Equal(t, []int{1}, nonEqualPositions(left, right))
}

func TestNonEqualPositionsNestedArrays(t *testing.T) {
	left := []table.Value{
		table.ArrayValue(table.IntValue(1), table.IntValue(2)),
		table.ArrayValue(table.ArrayValue(table.TextValue("a"))),
	}
	right := []table.Value{
		table.ArrayValue(table.IntValue(1), table.IntValue(2)),
		table.ArrayValue(table.ArrayValue(table.TextValue("b"))),
	}

	assert.Equal(t, []int{1}, nonEqualPositions(left, right))
}

func TestNonEqualKeys(t *testing.T) {
	keys := []Key{
		NewKey(table.TextValue("a")),
		NewKey(table.TextValue("b")),
		NewKey(table.TextValue("c")),
	}
	left := []table.Value{table.IntValue(1), table.IntValue(2), table.IntValue(3)}
	right := []table.Value{table.IntValue(1), table.IntValue(9), table.IntValue(3)}

	got := NonEqualKeys(left, right, keys)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].String())
}

func TestKeyOrderingAndDisplay(t *testing.T) {
	a := NewKey(table.TextValue("eu"), table.IntValue(1))
	b := NewKey(table.TextValue("eu"), table.IntValue(2))
	c := NewKey(table.TextValue("us"), table.IntValue(1))

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))

	assert.Equal(t, "(eu, 1)", a.String())
	assert.Equal(t, "7", NewKey(table.IntValue(7)).String())
}

func TestKeyCanonicalDistinguishesKinds(t *testing.T) {
	// The integer 3 and the text "3" render identically but must not
	// collide as keys.
	i := NewKey(table.IntValue(3))
	s := NewKey(table.TextValue("3"))
	assert.NotEqual(t, i.canonical(), s.canonical())
}
