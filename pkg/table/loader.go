package table

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// ErrUnsupportedFormat is returned when a file's extension maps to no known
// deserializer.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Load reads a dataset file into a Table, dispatching on file extension.
// Supported extensions are .parquet and .csv.
func Load(ctx context.Context, path string) (*Table, error) {
	rec, err := ReadRecord(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rec.Release()
	return FromRecord(filepath.Base(path), rec)
}

// ReadRecord reads a dataset file into a single Arrow record. Callers own
// the returned record and must Release it.
func ReadRecord(ctx context.Context, path string) (arrow.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return readParquet(ctx, path)
	case ".csv":
		return readCSV(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// readParquet reads an entire Parquet file into one record.
func readParquet(ctx context.Context, path string) (arrow.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Parquet file: %w", err)
	}
	defer f.Close()

	parquetReader, err := file.NewParquetReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create Parquet file reader: %w", err)
	}
	defer parquetReader.Close()

	alloc := memory.NewGoAllocator()
	arrowReader, err := pqarrow.NewFileReader(parquetReader, pqarrow.ArrowReadProperties{}, alloc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Arrow reader: %w", err)
	}

	tbl, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read Parquet file: %w", err)
	}
	defer tbl.Release()

	return tableToRecord(tbl)
}

// readCSV reads an entire CSV file into one record, inferring column types
// from the data. Empty fields are treated as nulls.
func readCSV(ctx context.Context, path string) (arrow.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewInferringReader(
		f,
		csv.WithChunk(-1),
		csv.WithHeader(true),
		csv.WithNullReader(true, ""),
		csv.WithAllocator(memory.NewGoAllocator()),
	)
	defer reader.Release()

	if !reader.Next() {
		if reader.Err() != nil && reader.Err() != io.EOF {
			return nil, fmt.Errorf("failed to read CSV: %w", reader.Err())
		}
		return nil, fmt.Errorf("CSV file %s holds no rows", path)
	}

	record := reader.Record()
	return cloneRecord(record), nil
}

// tableToRecord consolidates an Arrow table into a single owned record.
func tableToRecord(tbl arrow.Table) (arrow.Record, error) {
	rows := tbl.NumRows()
	if rows == 0 {
		rows = 1 // TableReader requires a positive chunk size
	}
	tableReader := array.NewTableReader(tbl, rows)
	defer tableReader.Release()

	var records []arrow.Record
	for tableReader.Next() {
		rec := tableReader.Record()
		records = append(records, cloneRecord(rec))
	}
	if tableReader.Err() != nil {
		for _, rec := range records {
			rec.Release()
		}
		return nil, fmt.Errorf("error reading from table: %w", tableReader.Err())
	}

	switch len(records) {
	case 0:
		return emptyRecord(tbl.Schema()), nil
	case 1:
		return records[0], nil
	}

	combined := array.NewTableFromRecords(tbl.Schema(), records)
	defer combined.Release()
	for _, rec := range records {
		rec.Release()
	}
	return tableToRecord(combined)
}

// cloneRecord deep-copies a record so the caller owns it independently of
// the producing reader.
func cloneRecord(record arrow.Record) arrow.Record {
	cols := make([]arrow.Array, record.NumCols())
	for i, col := range record.Columns() {
		cols[i] = array.MakeFromData(col.Data())
	}
	return array.NewRecord(record.Schema(), cols, record.NumRows())
}

// emptyRecord builds a zero-row record with the given schema.
func emptyRecord(schema *arrow.Schema) arrow.Record {
	alloc := memory.NewGoAllocator()
	cols := make([]arrow.Array, schema.NumFields())
	for i, field := range schema.Fields() {
		b := array.NewBuilder(alloc, field.Type)
		cols[i] = b.NewArray()
		b.Release()
	}
	record := array.NewRecord(schema, cols, 0)
	for _, col := range cols {
		col.Release()
	}
	return record
}

// FromRecord converts an Arrow record into a Table, mapping Arrow types onto
// the closed kind set. Element types outside the set degrade to their text
// rendering rather than failing the load.
func FromRecord(name string, record arrow.Record) (*Table, error) {
	cols := make([]Column, record.NumCols())
	for i, col := range record.Columns() {
		field := record.Schema().Field(i)
		cols[i] = Column{
			Name:   field.Name,
			Type:   kindOf(field.Type),
			Values: convertArray(col),
		}
	}
	return New(name, cols)
}

// kindOf maps an Arrow data type onto the closed kind set.
func kindOf(dt arrow.DataType) Kind {
	switch dt.ID() {
	case arrow.NULL:
		return Null
	case arrow.BOOL:
		return Boolean
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP,
		arrow.TIME32, arrow.TIME64, arrow.DURATION:
		return Integer
	case arrow.FLOAT32, arrow.FLOAT64:
		return Float
	case arrow.STRING, arrow.LARGE_STRING, arrow.BINARY, arrow.LARGE_BINARY:
		return Text
	case arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST:
		return Array
	default:
		return Text
	}
}

// convertArray materializes an Arrow array into tagged values.
func convertArray(col arrow.Array) []Value {
	n := col.Len()
	vals := make([]Value, n)

	set := func(f func(i int) Value) {
		for i := 0; i < n; i++ {
			if col.IsNull(i) {
				vals[i] = NullValue()
			} else {
				vals[i] = f(i)
			}
		}
	}

	switch a := col.(type) {
	case *array.Boolean:
		set(func(i int) Value { return BoolValue(a.Value(i)) })
	case *array.Int8:
		set(func(i int) Value { return IntValue(int64(a.Value(i))) })
	case *array.Int16:
		set(func(i int) Value { return IntValue(int64(a.Value(i))) })
	case *array.Int32:
		set(func(i int) Value { return IntValue(int64(a.Value(i))) })
	case *array.Int64:
		set(func(i int) Value { return IntValue(a.Value(i)) })
	case *array.Uint8:
		set(func(i int) Value { return IntValue(int64(a.Value(i))) })
	case *array.Uint16:
		set(func(i int) Value { return IntValue(int64(a.Value(i))) })
	case *array.Uint32:
		set(func(i int) Value { return IntValue(int64(a.Value(i))) })
	case *array.Uint64:
		set(func(i int) Value { return IntValue(int64(a.Value(i))) })
	case *array.Float32:
		set(func(i int) Value { return FloatValue(float64(a.Value(i))) })
	case *array.Float64:
		set(func(i int) Value { return FloatValue(a.Value(i)) })
	case *array.String:
		set(func(i int) Value { return TextValue(a.Value(i)) })
	case *array.LargeString:
		set(func(i int) Value { return TextValue(a.Value(i)) })
	case *array.Binary:
		set(func(i int) Value { return TextValue(string(a.Value(i))) })
	case *array.Timestamp:
		set(func(i int) Value { return IntValue(int64(a.Value(i))) })
	case *array.Date32:
		set(func(i int) Value { return IntValue(int64(a.Value(i))) })
	case *array.Date64:
		set(func(i int) Value { return IntValue(int64(a.Value(i))) })
	case array.ListLike:
		elems := convertArray(a.ListValues())
		set(func(i int) Value {
			start, end := a.ValueOffsets(i)
			return ArrayValue(elems[start:end]...)
		})
	default:
		set(func(i int) Value { return TextValue(col.ValueStr(i)) })
	}
	return vals
}
