// Package compare implements the ordered-table comparison core: index
// reconciliation, duplicate-key detection, null-aware per-column diffing and
// numeric relative-mismatch quantification.
package compare

import (
	"encoding/json"
	"strings"

	"github.com/Taciones/parquet-comparison-job/pkg/table"
)

// Key is the composite identifier of a row, built from the values of the
// designated key columns. With no key columns it degrades to the row
// position.
type Key struct {
	parts []table.Value
}

// NewKey builds a key from its component values.
func NewKey(parts ...table.Value) Key {
	return Key{parts: parts}
}

// Parts returns the component values of the key.
func (k Key) Parts() []table.Value { return k.parts }

// Less orders keys part-by-part.
func (k Key) Less(o Key) bool {
	n := len(k.parts)
	if len(o.parts) < n {
		n = len(o.parts)
	}
	for i := 0; i < n; i++ {
		if k.parts[i].Less(o.parts[i]) {
			return true
		}
		if o.parts[i].Less(k.parts[i]) {
			return false
		}
	}
	return len(k.parts) < len(o.parts)
}

// canonical returns a collision-safe encoding used for map lookups.
func (k Key) canonical() string {
	var sb strings.Builder
	for i, p := range k.parts {
		if i > 0 {
			sb.WriteByte(0x1f)
		}
		sb.WriteByte(byte('0' + int(p.Kind())))
		sb.WriteByte(':')
		sb.WriteString(p.String())
	}
	return sb.String()
}

// String renders the key for display; composite keys are comma-joined.
func (k Key) String() string {
	if len(k.parts) == 1 {
		return k.parts[0].String()
	}
	parts := make([]string, len(k.parts))
	for i, p := range k.parts {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// MarshalJSON renders the key as its display string.
func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON rebuilds a key from its display string. The component
// values are not recoverable, so the key comes back as a single text part.
func (k *Key) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k = NewKey(table.TextValue(s))
	return nil
}

// MatchState is the three-state outcome of the data comparison stage. It
// distinguishes "verified equal" from "never checked", which happens when
// the two tables share no keys.
type MatchState uint8

const (
	// NotEvaluated means the data stage never ran.
	NotEvaluated MatchState = iota
	// Matched means every common column compared equal over the common keys.
	Matched
	// Mismatched means at least one common column differed, or the column
	// sets were unequal.
	Mismatched
)

// String returns the name of the state.
func (s MatchState) String() string {
	switch s {
	case Matched:
		return "matched"
	case Mismatched:
		return "mismatched"
	default:
		return "not_evaluated"
	}
}

// MarshalJSON renders the state as its name.
func (s MatchState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a state from its name.
func (s *MatchState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "matched":
		*s = Matched
	case "mismatched":
		*s = Mismatched
	default:
		*s = NotEvaluated
	}
	return nil
}

// MismatchRow is one materialized mismatch: the key plus both sides' values.
// RelPercent is the relative mismatch abs(left-right)/left*100 and is only
// set for numeric columns of matching declared kind where both sides are
// non-null.
type MismatchRow struct {
	Key        Key         `json:"key"`
	Left       table.Value `json:"left"`
	Right      table.Value `json:"right"`
	RelPercent *float64    `json:"relative_percent,omitempty"`
}

// DuplicateKey reports a key shared by two or more rows on one side.
type DuplicateKey struct {
	Key   Key `json:"key"`
	Count int `json:"count"`
}

// ColumnResult is the per-column diff outcome for a mismatched common column.
type ColumnResult struct {
	DtypeMatch      bool          `json:"dtype_match"`
	LeftDtype       table.Kind    `json:"left_dtype"`
	RightDtype      table.Kind    `json:"right_dtype"`
	MismatchCount   int           `json:"mismatch_count"`
	MismatchPercent float64       `json:"mismatch_percent"`
	Mismatches      []MismatchRow `json:"mismatches"`
}

// CompareResult is the aggregate report of one file-pair comparison. It is
// fully populated by a single Compare call and holds no references back to
// the source tables.
type CompareResult struct {
	FileName string `json:"file_name"`

	// Match is true only if columns, indices and data all match and neither
	// side held duplicate keys.
	Match     bool       `json:"match"`
	DataMatch MatchState `json:"data_match"`

	LeftOnlyColumns  []string `json:"left_only_columns"`
	RightOnlyColumns []string `json:"right_only_columns"`

	// LeftKeyColumnsMissing / RightKeyColumnsMissing record the degraded
	// path where requested key columns were absent from a side and that
	// side fell back to positional keys.
	LeftKeyColumnsMissing  bool `json:"left_key_columns_missing"`
	RightKeyColumnsMissing bool `json:"right_key_columns_missing"`

	LeftDuplicate        bool           `json:"left_duplicate"`
	RightDuplicate       bool           `json:"right_duplicate"`
	LeftIndexDuplicates  []DuplicateKey `json:"left_index_duplicates"`
	RightIndexDuplicates []DuplicateKey `json:"right_index_duplicates"`

	IndexMatch       bool  `json:"index_match"`
	LeftIndexCount   int   `json:"left_index_count"`
	RightIndexCount  int   `json:"right_index_count"`
	CommonIndexCount int   `json:"common_index_count"`
	LeftOnlyIndexes  []Key `json:"left_only_indexes"`
	RightOnlyIndexes []Key `json:"right_only_indexes"`

	// ColumnResults holds an entry for every common column that differed at
	// one or more common keys; fully matching columns are omitted.
	ColumnResults map[string]ColumnResult `json:"column_results"`
}

// newCompareResult builds a result with empty-by-default collections.
func newCompareResult(fileName string) *CompareResult {
	return &CompareResult{
		FileName:             fileName,
		Match:                true,
		DataMatch:            NotEvaluated,
		IndexMatch:           true,
		LeftOnlyColumns:      []string{},
		RightOnlyColumns:     []string{},
		LeftIndexDuplicates:  []DuplicateKey{},
		RightIndexDuplicates: []DuplicateKey{},
		LeftOnlyIndexes:      []Key{},
		RightOnlyIndexes:     []Key{},
		ColumnResults:        map[string]ColumnResult{},
	}
}
