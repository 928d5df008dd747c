package table

import (
	"encoding/json"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name  string
		left  Value
		right Value
		want  bool
	}{
		{"both null", NullValue(), NullValue(), true},
		{"null vs value", NullValue(), IntValue(0), false},
		{"value vs null", TextValue(""), NullValue(), false},
		{"equal ints", IntValue(7), IntValue(7), true},
		{"unequal ints", IntValue(7), IntValue(8), false},
		{"int vs equal float", IntValue(3), FloatValue(3.0), true},
		{"int vs unequal float", IntValue(3), FloatValue(3.5), false},
		{"equal text", TextValue("a"), TextValue("a"), true},
		{"text vs numeric", TextValue("3"), IntValue(3), false},
		{"equal bools", BoolValue(true), BoolValue(true), true},
		{"unequal bools", BoolValue(true), BoolValue(false), false},
		{"equal arrays", ArrayValue(IntValue(1), IntValue(2)), ArrayValue(IntValue(1), IntValue(2)), true},
		{"array order matters", ArrayValue(IntValue(1), IntValue(2)), ArrayValue(IntValue(2), IntValue(1)), false},
		{"array length matters", ArrayValue(IntValue(1)), ArrayValue(IntValue(1), IntValue(1)), false},
		{"nested arrays", ArrayValue(ArrayValue(IntValue(1))), ArrayValue(ArrayValue(IntValue(1))), true},
		{"array with nulls", ArrayValue(NullValue()), ArrayValue(NullValue()), true},
		{"nan never equals nan", FloatValue(math.NaN()), FloatValue(math.NaN()), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.left.Equal(tt.right))
			assert.Equal(t, tt.want, tt.right.Equal(tt.left), "equality must be symmetric")
		})
	}
}

func TestValueLessTotalOrder(t *testing.T) {
	// Unsorted values across every kind; sorting must place nulls first,
	// then booleans, numbers, text and arrays.
	vals := []Value{
		TextValue("b"),
		IntValue(10),
		ArrayValue(IntValue(1)),
		NullValue(),
		FloatValue(2.5),
		BoolValue(true),
		TextValue("a"),
		BoolValue(false),
		IntValue(1),
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i].Less(vals[j]) })

	got := make([]string, len(vals))
	for i, v := range vals {
		got[i] = v.String()
	}
	assert.Equal(t, []string{"null", "false", "true", "1", "2.5", "10", "a", "b", "[1]"}, got)
}

func TestValueLessArraysLexicographic(t *testing.T) {
	a := ArrayValue(IntValue(1), IntValue(2))
	b := ArrayValue(IntValue(1), IntValue(3))
	c := ArrayValue(IntValue(1))

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.True(t, c.Less(a), "prefix sorts before extension")
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "null", NullValue().String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "42", IntValue(42).String())
	assert.Equal(t, "1.5", FloatValue(1.5).String())
	assert.Equal(t, "hello", TextValue("hello").String())
	assert.Equal(t, "[1, a]", ArrayValue(IntValue(1), TextValue("a")).String())
}

func TestValueJSONRoundTrip(t *testing.T) {
	tests := []Value{
		NullValue(),
		BoolValue(true),
		IntValue(-12),
		FloatValue(3.25),
		TextValue("hello"),
		ArrayValue(IntValue(1), NullValue(), TextValue("x")),
	}

	for _, want := range tests {
		data, err := json.Marshal(want)
		require.NoError(t, err)

		var got Value
		require.NoError(t, json.Unmarshal(data, &got))
		assert.True(t, want.Equal(got), "round trip of %s yielded %s", want, got)
	}
}

func TestValueJSONNonFiniteFloats(t *testing.T) {
	data, err := json.Marshal(FloatValue(math.Inf(1)))
	require.NoError(t, err)
	assert.Equal(t, `"+Inf"`, string(data))

	var got Value
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, Float, got.Kind())
	assert.True(t, math.IsInf(got.Float(), 1))
}

func TestKindJSON(t *testing.T) {
	data, err := json.Marshal(Integer)
	require.NoError(t, err)
	assert.Equal(t, `"integer"`, string(data))

	var k Kind
	require.NoError(t, json.Unmarshal([]byte(`"array"`), &k))
	assert.Equal(t, Array, k)
}

func TestKindNumeric(t *testing.T) {
	assert.True(t, Integer.Numeric())
	assert.True(t, Float.Numeric())
	assert.False(t, Text.Numeric())
	assert.False(t, Boolean.Numeric())
	assert.False(t, Array.Numeric())
	assert.False(t, Null.Numeric())
}
