package datatable_test

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/datatable"
	"github.com/hupe1980/datatable/metadata"
)

func TestNew(t *testing.T) {
	dt := datatable.New[float64]()
	assert.Equal(t, 0, dt.NumRows())
	assert.Equal(t, 0, dt.NumColumns())
	assert.True(t, math.IsNaN(dt.Fill()))
}

func TestNewShaped(t *testing.T) {
	t.Run("cells start at the fill sentinel", func(t *testing.T) {
		dt, err := datatable.NewShaped[float64](2, 3)
		require.NoError(t, err)

		assert.Equal(t, 2, dt.NumRows())
		assert.Equal(t, 3, dt.NumColumns())
		v, err := dt.At(1, 2)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(v))
	})

	t.Run("custom fill", func(t *testing.T) {
		dt, err := datatable.NewShaped(1, 2, datatable.WithFill(-1.0))
		require.NoError(t, err)

		v, err := dt.At(0, 0)
		require.NoError(t, err)
		assert.Equal(t, -1.0, v)
	})

	t.Run("non-float zero value fill", func(t *testing.T) {
		dt, err := datatable.NewShaped[int](1, 1)
		require.NoError(t, err)

		v, err := dt.At(0, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, v)
	})

	t.Run("negative shape", func(t *testing.T) {
		_, err := datatable.NewShaped[float64](-1, 2)
		assert.ErrorIs(t, err, datatable.ErrInvalidEntry)
	})
}

func TestFromSeq(t *testing.T) {
	t.Run("row major exact", func(t *testing.T) {
		dt, err := datatable.FromSeq(slices.Values([]float64{1, 2, 3, 4, 5, 6}), datatable.SeqLayout{
			Dim:             datatable.RowMajor,
			EntriesPerMajor: 3,
		})
		require.NoError(t, err)

		assert.Equal(t, 2, dt.NumRows())
		assert.Equal(t, 3, dt.NumColumns())
		row, err := dt.RowValues(1)
		require.NoError(t, err)
		assert.Equal(t, []float64{4, 5, 6}, row)
	})

	t.Run("column major exact", func(t *testing.T) {
		dt, err := datatable.FromSeq(slices.Values([]float64{1, 2, 3, 4, 5, 6}), datatable.SeqLayout{
			Dim:             datatable.ColumnMajor,
			EntriesPerMajor: 3,
		})
		require.NoError(t, err)

		assert.Equal(t, 3, dt.NumRows())
		assert.Equal(t, 2, dt.NumColumns())
		col, err := dt.ColumnValues(1)
		require.NoError(t, err)
		assert.Equal(t, []float64{4, 5, 6}, col)
	})

	t.Run("partial final major needs allowMissing", func(t *testing.T) {
		_, err := datatable.FromSeq(slices.Values([]float64{1, 2, 3, 4, 5}), datatable.SeqLayout{
			Dim:             datatable.RowMajor,
			EntriesPerMajor: 3,
		})
		assert.ErrorIs(t, err, datatable.ErrNotEnoughElements)

		dt, err := datatable.FromSeq(slices.Values([]float64{1, 2, 3, 4, 5}), datatable.SeqLayout{
			Dim:             datatable.RowMajor,
			EntriesPerMajor: 3,
			AllowMissing:    true,
		})
		require.NoError(t, err)

		v, err := dt.At(1, 2)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(v))
	})

	t.Run("too many elements for fixed majors", func(t *testing.T) {
		_, err := datatable.FromSeq(slices.Values([]float64{1, 2, 3, 4, 5}), datatable.SeqLayout{
			Dim:             datatable.RowMajor,
			EntriesPerMajor: 2,
			Majors:          2,
		})
		assert.ErrorIs(t, err, datatable.ErrTooManyElements)
	})

	t.Run("empty sequence", func(t *testing.T) {
		_, err := datatable.FromSeq(slices.Values([]float64{}), datatable.SeqLayout{
			Dim:             datatable.RowMajor,
			EntriesPerMajor: 2,
		})
		assert.ErrorIs(t, err, datatable.ErrZeroElements)
	})
}

func TestTable_AddRow(t *testing.T) {
	dt := datatable.New[float64]()

	require.NoError(t, dt.AddRow([]float64{1, 2, 3}))
	require.NoError(t, dt.AddRow([]float64{4, 5, 6}))

	assert.Equal(t, 2, dt.NumRows())
	assert.Equal(t, 3, dt.NumColumns())

	t.Run("column count mismatch", func(t *testing.T) {
		err := dt.AddRow([]float64{1, 2})
		assert.ErrorIs(t, err, datatable.ErrColumnCountMismatch)
		assert.Equal(t, 2, dt.NumRows())
	})

	t.Run("zero length input", func(t *testing.T) {
		assert.ErrorIs(t, dt.AddRow(nil), datatable.ErrZeroElements)
	})
}

func TestTable_AddRowSeq(t *testing.T) {
	t.Run("empty table uses the hint", func(t *testing.T) {
		dt := datatable.New[float64]()
		require.NoError(t, dt.AddRowSeq(slices.Values([]float64{1, 2, 3}), 3, false))
		assert.Equal(t, 3, dt.NumColumns())

		err := datatable.New[float64]().AddRowSeq(slices.Values([]float64{1}), 0, false)
		assert.ErrorIs(t, err, datatable.ErrInvalidEntry)
	})

	t.Run("short row is padded with allowMissing", func(t *testing.T) {
		dt := datatable.New[float64]()
		require.NoError(t, dt.AddRow([]float64{1, 2, 3}))

		require.NoError(t, dt.AddRowSeq(slices.Values([]float64{4}), 0, true))

		row, err := dt.RowValues(1)
		require.NoError(t, err)
		assert.Equal(t, 4.0, row[0])
		assert.True(t, math.IsNaN(row[1]))
		assert.True(t, math.IsNaN(row[2]))
	})

	t.Run("short row fails without allowMissing", func(t *testing.T) {
		dt := datatable.New[float64]()
		require.NoError(t, dt.AddRow([]float64{1, 2, 3}))

		err := dt.AddRowSeq(slices.Values([]float64{4}), 0, false)
		assert.ErrorIs(t, err, datatable.ErrNotEnoughElements)
		assert.Equal(t, 1, dt.NumRows())
	})

	t.Run("long row always fails", func(t *testing.T) {
		dt := datatable.New[float64]()
		require.NoError(t, dt.AddRow([]float64{1, 2}))

		err := dt.AddRowSeq(slices.Values([]float64{1, 2, 3}), 0, true)
		assert.ErrorIs(t, err, datatable.ErrTooManyElements)
		assert.Equal(t, 1, dt.NumRows())
	})
}

func TestTable_AddRows(t *testing.T) {
	t.Run("bulk load is exact", func(t *testing.T) {
		dt := datatable.New[float64]()
		require.NoError(t, dt.AddRows(slices.Values([]float64{1, 2, 3, 4, 5, 6}), 3, false))

		assert.Equal(t, 2, dt.NumRows())
		assert.Equal(t, 3, dt.NumColumns())
		for i := 0; i < 2; i++ {
			for j := 0; j < 3; j++ {
				v, err := dt.At(i, j)
				require.NoError(t, err)
				assert.Equal(t, float64(i*3+j+1), v)
			}
		}
	})

	t.Run("failed append leaves the table unmodified", func(t *testing.T) {
		dt := datatable.New[float64]()
		require.NoError(t, dt.AddRows(slices.Values([]float64{1, 2, 3, 4}), 2, false))

		err := dt.AddRows(slices.Values([]float64{5, 6, 7}), 0, false)
		assert.ErrorIs(t, err, datatable.ErrNotEnoughElements)
		assert.Equal(t, 2, dt.NumRows())
		assert.Equal(t, 2, dt.NumColumns())
	})

	t.Run("padding with allowMissing", func(t *testing.T) {
		dt := datatable.New[float64]()
		require.NoError(t, dt.AddRows(slices.Values([]float64{1, 2, 3}), 2, true))

		assert.Equal(t, 2, dt.NumRows())
		v, err := dt.At(1, 1)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(v))
	})
}

func TestTable_AddColumn(t *testing.T) {
	dt := datatable.New[float64]()

	require.NoError(t, dt.AddColumn([]float64{1, 2}))
	require.NoError(t, dt.AddColumn([]float64{3, 4}))

	assert.Equal(t, 2, dt.NumRows())
	assert.Equal(t, 2, dt.NumColumns())
	col, err := dt.ColumnValues(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, col)

	t.Run("row count mismatch", func(t *testing.T) {
		assert.ErrorIs(t, dt.AddColumn([]float64{1}), datatable.ErrRowCountMismatch)
	})
}

func TestTable_AddColumns(t *testing.T) {
	dt := datatable.New[float64]()
	require.NoError(t, dt.AddColumns(slices.Values([]float64{1, 2, 3, 4}), 2, false))

	assert.Equal(t, 2, dt.NumRows())
	assert.Equal(t, 2, dt.NumColumns())

	// column major fill
	col, err := dt.ColumnValues(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, col)
	col, err = dt.ColumnValues(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, col)
}

func TestTable_AtSet(t *testing.T) {
	dt := datatable.New[float64]()
	require.NoError(t, dt.AddRow([]float64{1, 2}))

	require.NoError(t, dt.SetAt(0, 1, 20.0))
	v, err := dt.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)

	t.Run("row out of range", func(t *testing.T) {
		_, err := dt.At(1, 0)
		assert.ErrorIs(t, err, datatable.ErrRowDoesNotExist)
	})

	t.Run("column out of range", func(t *testing.T) {
		_, err := dt.At(0, 2)
		assert.ErrorIs(t, err, datatable.ErrColumnDoesNotExist)
	})

	t.Run("by label", func(t *testing.T) {
		require.NoError(t, dt.SetLabel(0, "x"))

		require.NoError(t, dt.SetAtLabel(0, "x", 10.0))
		v, err := dt.AtLabel(0, "x")
		require.NoError(t, err)
		assert.Equal(t, 10.0, v)

		_, err = dt.AtLabel(0, "missing")
		assert.ErrorIs(t, err, datatable.ErrColumnDoesNotExist)
	})
}

func TestTable_Views(t *testing.T) {
	dt := datatable.New[float64]()
	require.NoError(t, dt.AddRow([]float64{1, 2, 3}))
	require.NoError(t, dt.AddRow([]float64{4, 5, 6}))

	t.Run("row view writes through", func(t *testing.T) {
		row, err := dt.Row(0)
		require.NoError(t, err)
		require.NoError(t, row.Set(0, -1.0))

		v, err := dt.At(0, 0)
		require.NoError(t, err)
		assert.Equal(t, -1.0, v)
	})

	t.Run("column by label", func(t *testing.T) {
		require.NoError(t, dt.SetLabel(1, "mid"))
		col, err := dt.ColumnByLabel("mid")
		require.NoError(t, err)

		vals, err := col.Values()
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 5}, vals)
	})

	t.Run("block window", func(t *testing.T) {
		b, err := dt.Block(0, 1, 2, 2)
		require.NoError(t, err)
		vals, err := b.Values()
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 3, 5, 6}, vals)

		_, err = dt.Block(1, 1, 2, 2)
		assert.ErrorIs(t, err, datatable.ErrRowDoesNotExist)
	})

	t.Run("appends invalidate outstanding views", func(t *testing.T) {
		row, err := dt.Row(0)
		require.NoError(t, err)

		require.NoError(t, dt.AddRow([]float64{7, 8, 9}))

		_, err = row.At(0)
		assert.Error(t, err)
	})
}

func TestTable_Iteration(t *testing.T) {
	dt := datatable.New[float64]()
	require.NoError(t, dt.AddRows(slices.Values([]float64{1, 2, 3, 4}), 2, false))

	t.Run("rows", func(t *testing.T) {
		rows, err := dt.Rows()
		require.NoError(t, err)

		var got [][]float64
		for _, row := range rows {
			got = append(got, row)
		}
		assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, got)
	})

	t.Run("columns", func(t *testing.T) {
		cols, err := dt.Columns()
		require.NoError(t, err)

		var got [][]float64
		for _, col := range cols {
			got = append(got, col)
		}
		assert.Equal(t, [][]float64{{1, 3}, {2, 4}}, got)
	})

	t.Run("empty table", func(t *testing.T) {
		_, err := datatable.New[float64]().Rows()
		assert.ErrorIs(t, err, datatable.ErrEmptyTable)
		_, err = datatable.New[float64]().Columns()
		assert.ErrorIs(t, err, datatable.ErrEmptyTable)
	})
}

func TestTable_Concatenate(t *testing.T) {
	newTable := func(t *testing.T, vals []float64, cols int) *datatable.Table[float64] {
		dt := datatable.New[float64]()
		require.NoError(t, dt.AddRows(slices.Values(vals), cols, false))
		return dt
	}

	t.Run("rows", func(t *testing.T) {
		a := newTable(t, []float64{1, 2, 3, 4}, 2)
		b := newTable(t, []float64{5, 6}, 2)

		require.NoError(t, a.ConcatenateRows(b))

		assert.Equal(t, 3, a.NumRows())
		row, err := a.RowValues(2)
		require.NoError(t, err)
		assert.Equal(t, []float64{5, 6}, row)
	})

	t.Run("columns", func(t *testing.T) {
		a := newTable(t, []float64{1, 2, 3, 4}, 2)
		b := newTable(t, []float64{5, 6}, 1)

		require.NoError(t, a.ConcatenateColumns(b))

		assert.Equal(t, 3, a.NumColumns())
		col, err := a.ColumnValues(2)
		require.NoError(t, err)
		assert.Equal(t, []float64{5, 6}, col)
	})

	t.Run("mismatched shape leaves both unmodified", func(t *testing.T) {
		a := newTable(t, []float64{1, 2, 3, 4}, 2)
		b := newTable(t, []float64{1, 2, 3}, 3)

		assert.ErrorIs(t, a.ConcatenateRows(b), datatable.ErrColumnCountMismatch)
		assert.Equal(t, 2, a.NumRows())
		assert.Equal(t, 2, a.NumColumns())
		assert.Equal(t, 1, b.NumRows())

		assert.ErrorIs(t, a.ConcatenateColumns(b), datatable.ErrRowCountMismatch)
		assert.Equal(t, 2, a.NumColumns())
	})

	t.Run("self concatenation is rejected", func(t *testing.T) {
		a := newTable(t, []float64{1, 2}, 2)
		assert.ErrorIs(t, a.ConcatenateRows(a), datatable.ErrInvalidEntry)
		assert.ErrorIs(t, a.ConcatenateColumns(a), datatable.ErrInvalidEntry)
	})

	t.Run("labels and metadata stay with the receiver", func(t *testing.T) {
		a := newTable(t, []float64{1, 2}, 2)
		require.NoError(t, a.SetLabel(0, "ax"))

		b := newTable(t, []float64{3, 4}, 2)
		require.NoError(t, b.SetLabel(0, "bx"))

		require.NoError(t, a.ConcatenateRows(b))
		assert.True(t, a.HasColumnLabel("ax"))
		assert.False(t, a.HasColumnLabel("bx"))
	})

	t.Run("free functions build a new table", func(t *testing.T) {
		a := newTable(t, []float64{1, 2}, 2)
		b := newTable(t, []float64{3, 4}, 2)

		c, err := datatable.ConcatenateRows(a, b)
		require.NoError(t, err)

		assert.Equal(t, 2, c.NumRows())
		assert.Equal(t, 1, a.NumRows())

		d, err := datatable.ConcatenateColumns(a, b)
		require.NoError(t, err)
		assert.Equal(t, 4, d.NumColumns())
	})
}

func TestTable_ResizeKeep(t *testing.T) {
	t.Run("grow fills new cells", func(t *testing.T) {
		dt := datatable.New[float64]()
		require.NoError(t, dt.AddRow([]float64{1, 2}))

		require.NoError(t, dt.ResizeKeep(2, 3))

		v, err := dt.At(0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1.0, v)
		v, err = dt.At(1, 2)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(v))
	})

	t.Run("shrink drops labels of removed columns", func(t *testing.T) {
		dt := datatable.New[float64]()
		require.NoError(t, dt.AddRow([]float64{1, 2, 3}))
		require.NoError(t, dt.SetLabel(0, "keep"))
		require.NoError(t, dt.SetLabel(2, "drop"))

		require.NoError(t, dt.ResizeKeep(1, 2))

		assert.True(t, dt.HasColumnLabel("keep"))
		assert.False(t, dt.HasColumnLabel("drop"))
		assert.Equal(t, 1, dt.NumLabels())
	})

	t.Run("zero dimension is rejected", func(t *testing.T) {
		dt := datatable.New[float64]()
		require.NoError(t, dt.AddRow([]float64{1}))

		assert.ErrorIs(t, dt.ResizeKeep(0, 1), datatable.ErrInvalidEntry)
		assert.ErrorIs(t, dt.ResizeKeep(1, 0), datatable.ErrInvalidEntry)
	})
}

func TestTable_Clear(t *testing.T) {
	dt := datatable.New[float64]()
	require.NoError(t, dt.AddRow([]float64{1, 2}))
	require.NoError(t, dt.SetLabel(0, "x"))
	require.NoError(t, metadata.Insert(dt.Meta(), "units", "meters"))

	dt.Clear()

	assert.Equal(t, 0, dt.NumRows())
	assert.Equal(t, 0, dt.NumColumns())
	assert.False(t, dt.HasColumnLabel("x"))

	// metadata survives a clear
	units, err := metadata.Get[string](dt.Meta(), "units")
	require.NoError(t, err)
	assert.Equal(t, "meters", units)
}

func TestTable_Clone(t *testing.T) {
	dt := datatable.New[float64]()
	require.NoError(t, dt.AddRow([]float64{1, 2}))
	require.NoError(t, dt.SetLabel(0, "x"))
	require.NoError(t, metadata.Insert(dt.Meta(), "rate", 100.0))

	c := dt.Clone()
	require.NoError(t, c.SetAt(0, 0, -1.0))
	c.ClearLabels()

	v, err := dt.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	assert.True(t, dt.HasColumnLabel("x"))

	rate, err := metadata.Get[float64](c.Meta(), "rate")
	require.NoError(t, err)
	assert.Equal(t, 100.0, rate)
}

func TestTable_CopyMatrix(t *testing.T) {
	dt := datatable.New[float64]()
	require.NoError(t, dt.AddRow([]float64{1, 2}))

	m := dt.CopyMatrix()
	require.NoError(t, m.Set(0, 0, 99.0))

	v, err := dt.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}
