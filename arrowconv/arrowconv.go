package arrowconv

import (
	"errors"
	"fmt"
	"slices"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hupe1980/datatable"
)

// ErrSchemaMismatch is returned when a record's column types do not match
// the requested table element type.
var ErrSchemaMismatch = errors.New("arrowconv: schema mismatch")

// TimeColumn is the field name used for the time axis of a time series
// record.
const TimeColumn = "time"

// Element enumerates the table element types with a direct Arrow mapping.
type Element interface {
	float32 | float64 | int32 | int64 | string | bool
}

// TimeAxis enumerates the timestamp types with a direct Arrow mapping.
type TimeAxis interface {
	int64 | float64
}

// Schema returns the Arrow schema describing t. Labeled columns keep their
// label as the field name; unlabeled columns are named "c<index>".
func Schema[E Element](t *datatable.Table[E]) *arrow.Schema {
	fields := make([]arrow.Field, t.NumColumns())
	for j := range fields {
		fields[j] = arrow.Field{Name: fieldName(t, j), Type: dataType[E]()}
	}

	return arrow.NewSchema(fields, nil)
}

// Record copies t into a freshly built arrow.Record. A nil allocator falls
// back to memory.DefaultAllocator. The caller owns the record and must
// Release it.
func Record[E Element](t *datatable.Table[E], mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	b := array.NewRecordBuilder(mem, Schema(t))
	defer b.Release()

	for j := 0; j < t.NumColumns(); j++ {
		vals, err := t.ColumnValues(j)
		if err != nil {
			return nil, err
		}
		appendColumn(b.Field(j), vals)
	}

	return b.NewRecord(), nil
}

// FromRecord copies rec into a new table. Every column must have the Arrow
// type corresponding to E; field names become column labels.
func FromRecord[E Element](rec arrow.Record, opts ...datatable.Option[E]) (*datatable.Table[E], error) {
	t, err := datatable.NewShaped(int(rec.NumRows()), int(rec.NumCols()), opts...)
	if err != nil {
		return nil, err
	}

	for j := 0; j < int(rec.NumCols()); j++ {
		if err := copyColumn(t, j, rec.Column(j)); err != nil {
			return nil, fmt.Errorf("column %q: %w", rec.ColumnName(j), err)
		}
		if name := rec.ColumnName(j); name != "" {
			if err := t.SetLabel(j, name); err != nil {
				return nil, err
			}
		}
	}

	return t, nil
}

// TimeSeriesSchema returns the Arrow schema describing t, with the time
// axis as a leading field named TimeColumn.
func TimeSeriesSchema[E Element, TS TimeAxis](t *datatable.TimeSeriesTable[E, TS]) *arrow.Schema {
	fields := make([]arrow.Field, t.NumColumns()+1)
	fields[0] = arrow.Field{Name: TimeColumn, Type: dataType[TS]()}
	for j := 1; j < len(fields); j++ {
		fields[j] = arrow.Field{Name: fieldName(t.Table, j-1), Type: dataType[E]()}
	}

	return arrow.NewSchema(fields, nil)
}

// TimeSeriesRecord copies t, time axis included, into a freshly built
// arrow.Record. Every row must be stamped.
func TimeSeriesRecord[E Element, TS TimeAxis](t *datatable.TimeSeriesTable[E, TS], mem memory.Allocator) (arrow.Record, error) {
	stamps, err := t.Timestamps()
	if err != nil {
		return nil, err
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	b := array.NewRecordBuilder(mem, TimeSeriesSchema(t))
	defer b.Release()

	appendColumn(b.Field(0), stamps)
	for j := 0; j < t.NumColumns(); j++ {
		vals, err := t.ColumnValues(j)
		if err != nil {
			return nil, err
		}
		appendColumn(b.Field(j+1), vals)
	}

	return b.NewRecord(), nil
}

// TimeSeriesFromRecord copies rec into a new time series table. The field
// named TimeColumn supplies the time axis; its values must be strictly
// increasing.
func TimeSeriesFromRecord[E Element, TS TimeAxis](rec arrow.Record, opts ...datatable.Option[E]) (*datatable.TimeSeriesTable[E, TS], error) {
	timeIdx := -1
	for j := 0; j < int(rec.NumCols()); j++ {
		if rec.ColumnName(j) == TimeColumn {
			timeIdx = j
			break
		}
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("no %q field: %w", TimeColumn, ErrSchemaMismatch)
	}

	if rec.Column(timeIdx).NullN() > 0 {
		return nil, fmt.Errorf("%q column has null cells: %w", TimeColumn, ErrSchemaMismatch)
	}
	stamps, err := columnValues[TS](rec.Column(timeIdx))
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", TimeColumn, err)
	}

	t := datatable.NewTimeSeries[E, TS](opts...)
	if rec.NumRows() == 0 {
		return t, nil
	}
	for j := 0; j < int(rec.NumCols()); j++ {
		if j == timeIdx {
			continue
		}
		vals, err := columnValuesFill(rec.Column(j), t.Fill())
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", rec.ColumnName(j), err)
		}
		if err := t.AddColumn(vals); err != nil {
			return nil, err
		}
		if name := rec.ColumnName(j); name != "" {
			if err := t.SetLabel(t.NumColumns()-1, name); err != nil {
				return nil, err
			}
		}
	}
	if t.NumRows() != len(stamps) {
		return nil, fmt.Errorf("%d timestamps for %d rows: %w", len(stamps), t.NumRows(), ErrSchemaMismatch)
	}
	if err := t.AddTimestamps(slices.Values(stamps)); err != nil {
		return nil, err
	}

	return t, nil
}

func fieldName[E any](t *datatable.Table[E], col int) string {
	if label, err := t.Label(col); err == nil {
		return label
	}

	return fmt.Sprintf("c%d", col)
}

func dataType[V Element | TimeAxis]() arrow.DataType {
	var zero V
	switch any(zero).(type) {
	case float32:
		return arrow.PrimitiveTypes.Float32
	case float64:
		return arrow.PrimitiveTypes.Float64
	case int32:
		return arrow.PrimitiveTypes.Int32
	case int64:
		return arrow.PrimitiveTypes.Int64
	case string:
		return arrow.BinaryTypes.String
	default:
		return arrow.FixedWidthTypes.Boolean
	}
}

func appendColumn[V Element | TimeAxis](b array.Builder, vals []V) {
	switch b := b.(type) {
	case *array.Float32Builder:
		for _, v := range vals {
			b.Append(any(v).(float32))
		}
	case *array.Float64Builder:
		for _, v := range vals {
			b.Append(any(v).(float64))
		}
	case *array.Int32Builder:
		for _, v := range vals {
			b.Append(any(v).(int32))
		}
	case *array.Int64Builder:
		for _, v := range vals {
			b.Append(any(v).(int64))
		}
	case *array.StringBuilder:
		for _, v := range vals {
			b.Append(any(v).(string))
		}
	case *array.BooleanBuilder:
		for _, v := range vals {
			b.Append(any(v).(bool))
		}
	}
}

// columnValues copies an Arrow array into a plain slice. Null cells become
// the zero value of V.
func columnValues[V Element | TimeAxis](arr arrow.Array) ([]V, error) {
	vals := make([]V, arr.Len())
	for i := range vals {
		if arr.IsNull(i) {
			continue
		}
		v, ok := cellValue(arr, i).(V)
		if !ok {
			return nil, fmt.Errorf("arrow type %s: %w", arr.DataType(), ErrSchemaMismatch)
		}
		vals[i] = v
	}

	return vals, nil
}

// columnValuesFill copies an Arrow array into a plain slice with null cells
// set to fill instead of the zero value.
func columnValuesFill[V Element | TimeAxis](arr arrow.Array, fill V) ([]V, error) {
	vals, err := columnValues[V](arr)
	if err != nil {
		return nil, err
	}
	for i := range vals {
		if arr.IsNull(i) {
			vals[i] = fill
		}
	}

	return vals, nil
}

func cellValue(arr arrow.Array, i int) any {
	switch a := arr.(type) {
	case *array.Float32:
		return a.Value(i)
	case *array.Float64:
		return a.Value(i)
	case *array.Int32:
		return a.Value(i)
	case *array.Int64:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.Boolean:
		return a.Value(i)
	default:
		return nil
	}
}

func copyColumn[E Element](t *datatable.Table[E], col int, arr arrow.Array) error {
	vals, err := columnValues[E](arr)
	if err != nil {
		return err
	}
	for i, v := range vals {
		if arr.IsNull(i) {
			continue // keep the fill sentinel
		}
		if err := t.SetAt(i, col, v); err != nil {
			return err
		}
	}

	return nil
}
