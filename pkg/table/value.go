package table

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind is the closed set of element types a Table column can declare.
type Kind uint8

const (
	Null Kind = iota
	Boolean
	Integer
	Float
	Text
	Array
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Text:
		return "text"
	case Array:
		return "array"
	default:
		return "unknown"
	}
}

// Numeric reports whether the kind is an integer or floating-point type.
func (k Kind) Numeric() bool {
	return k == Integer || k == Float
}

// MarshalJSON renders the kind as its name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses a kind from its name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "null":
		*k = Null
	case "boolean":
		*k = Boolean
	case "integer":
		*k = Integer
	case "float":
		*k = Float
	case "text":
		*k = Text
	case "array":
		*k = Array
	default:
		*k = Text
	}
	return nil
}

// Value is a single tagged cell value.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	elems []Value
}

// NullValue returns the null value.
func NullValue() Value { return Value{kind: Null} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{kind: Boolean, b: b} }

// IntValue returns an integer value.
func IntValue(i int64) Value { return Value{kind: Integer, i: i} }

// FloatValue returns a floating-point value.
func FloatValue(f float64) Value { return Value{kind: Float, f: f} }

// TextValue returns a text value.
func TextValue(s string) Value { return Value{kind: Text, s: s} }

// ArrayValue returns an array value holding the given elements.
func ArrayValue(elems ...Value) Value {
	return Value{kind: Array, elems: elems}
}

// Kind returns the kind tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean payload. Valid only for Boolean values.
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload. Valid only for Integer values.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload. Valid only for Float values.
func (v Value) Float() float64 { return v.f }

// Text returns the text payload. Valid only for Text values.
func (v Value) Text() string { return v.s }

// Elems returns the array elements. Valid only for Array values.
func (v Value) Elems() []Value { return v.elems }

// AsFloat converts a numeric value to float64. The second return is false
// for non-numeric values.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case Integer:
		return float64(v.i), true
	case Float:
		return v.f, true
	default:
		return 0, false
	}
}

// Equal reports deep value equality. Two arrays are equal iff they have the
// same length and all elements are equal; integers and floats compare
// numerically across kinds. It is total: any pair of values yields a verdict.
func (v Value) Equal(o Value) bool {
	if v.kind == Null || o.kind == Null {
		return v.kind == Null && o.kind == Null
	}
	if v.kind.Numeric() && o.kind.Numeric() {
		if v.kind == Integer && o.kind == Integer {
			return v.i == o.i
		}
		vf, _ := v.AsFloat()
		of, _ := o.AsFloat()
		return vf == of
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Boolean:
		return v.b == o.b
	case Text:
		return v.s == o.s
	case Array:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// kindRank orders kinds for cross-kind sorting: nulls first, then booleans,
// numbers, text, arrays.
func kindRank(k Kind) int {
	switch k {
	case Null:
		return 0
	case Boolean:
		return 1
	case Integer, Float:
		return 2
	case Text:
		return 3
	case Array:
		return 4
	default:
		return 5
	}
}

// Less defines a total order over values, used when sorting rows by key and
// when canonicalizing array cells.
func (v Value) Less(o Value) bool {
	vr, or := kindRank(v.kind), kindRank(o.kind)
	if vr != or {
		return vr < or
	}
	switch v.kind {
	case Null:
		return false
	case Boolean:
		return !v.b && o.b
	case Integer:
		if o.kind == Integer {
			return v.i < o.i
		}
		return float64(v.i) < o.f
	case Float:
		if o.kind == Integer {
			return v.f < float64(o.i)
		}
		return v.f < o.f
	case Text:
		return v.s < o.s
	case Array:
		n := len(v.elems)
		if len(o.elems) < n {
			n = len(o.elems)
		}
		for i := 0; i < n; i++ {
			if v.elems[i].Less(o.elems[i]) {
				return true
			}
			if o.elems[i].Less(v.elems[i]) {
				return false
			}
		}
		return len(v.elems) < len(o.elems)
	default:
		return false
	}
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Boolean:
		return strconv.FormatBool(v.b)
	case Integer:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case Text:
		return v.s
	case Array:
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

// MarshalJSON renders the value as its natural JSON type. Non-finite floats
// are rendered as strings since JSON has no representation for them.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Null:
		return []byte("null"), nil
	case Boolean:
		return json.Marshal(v.b)
	case Integer:
		return json.Marshal(v.i)
	case Float:
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			return json.Marshal(strconv.FormatFloat(v.f, 'g', -1, 64))
		}
		return json.Marshal(v.f)
	case Text:
		return json.Marshal(v.s)
	case Array:
		return json.Marshal(v.elems)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON rebuilds a value from its natural JSON type. Integral
// numbers come back as Integer, fractional ones as Float; strings holding
// non-finite float renderings come back as Float.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = fromJSON(raw)
	return nil
}

func fromJSON(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return IntValue(i)
		}
		f, _ := x.Float64()
		return FloatValue(f)
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil && (math.IsInf(f, 0) || math.IsNaN(f)) {
			return FloatValue(f)
		}
		return TextValue(x)
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			elems[i] = fromJSON(e)
		}
		return ArrayValue(elems...)
	default:
		return NullValue()
	}
}
