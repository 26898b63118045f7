// Package datatable provides an in-memory labeled tabular data container
// for Go.
//
// A Table is a dense rows×cols container of a single element type with
// partially labeled columns and a heterogeneous, type-checked metadata
// store. A TimeSeriesTable adds a strictly increasing time axis with exact
// and nearest-neighbor row lookup.
//
// # Quick Start
//
//	t := datatable.New[float64]()
//	_ = t.AddRow([]float64{1, 2, 3})
//	_ = t.AddRow([]float64{4, 5, 6})
//	_ = t.SetLabels([]datatable.ColumnLabel{
//		{Label: "fx", Column: 0},
//		{Label: "fy", Column: 1},
//		{Label: "fz", Column: 2},
//	})
//
//	v, _ := t.AtLabel(1, "fy") // 5
//
// Time-indexed data:
//
//	ts := datatable.NewTimeSeries[float64, float64]()
//	_ = ts.AddTimestampAndRow(0.01, []float64{1, 2})
//	_ = ts.AddTimestampAndRow(0.02, []float64{3, 4})
//
//	row, _ := ts.RowByTimestamp(0.02)
//	near, _ := ts.RowIndexNear(0.015, datatable.LessOrGreaterThanEqual)
//
// # Fill Sentinel
//
// Cells created by a growing resize, a shape-extending append, or an
// allowMissing append are set to the table's fill sentinel. For float64 and
// float32 tables the default sentinel is NaN; for every other element type
// it is the zero value unless WithFill overrides it.
//
// # Views
//
// Row, Column, and Block return non-owning views that read and write the
// table's storage directly. Any mutation that reallocates storage (append,
// resize, concatenate, clear) invalidates all outstanding views; a stale
// view fails with matrix.ErrStaleView instead of touching freed memory.
//
// # Errors
//
// All failures wrap package-level sentinels, so callers branch with
// errors.Is:
//
//	if _, err := t.ColumnIndex("missing"); errors.Is(err, datatable.ErrColumnDoesNotExist) {
//		// handle unknown label
//	}
//
// Tables are not safe for concurrent use. Wrap access in your own
// synchronization when sharing a table across goroutines.
package datatable
