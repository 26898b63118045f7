package matrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("fills every cell", func(t *testing.T) {
		m, err := New(2, 3, 7.5)
		require.NoError(t, err)

		assert.Equal(t, 2, m.Rows())
		assert.Equal(t, 3, m.Cols())
		for i := 0; i < 2; i++ {
			for j := 0; j < 3; j++ {
				v, err := m.At(i, j)
				require.NoError(t, err)
				assert.Equal(t, 7.5, v)
			}
		}
	})

	t.Run("zero dimensions are legal", func(t *testing.T) {
		m, err := New[int](0, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, m.Rows())
		assert.Equal(t, 0, m.Cols())
	})

	t.Run("negative dimension is rejected", func(t *testing.T) {
		_, err := New(-1, 3, 0.0)
		require.ErrorIs(t, err, ErrBadShape)

		_, err = New(3, -1, 0.0)
		require.ErrorIs(t, err, ErrBadShape)
	})
}

func TestDense_AtSet(t *testing.T) {
	m, err := New(2, 2, 0.0)
	require.NoError(t, err)

	require.NoError(t, m.Set(1, 0, 42.0))
	v, err := m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	t.Run("out of range", func(t *testing.T) {
		_, err := m.At(2, 0)
		assert.ErrorIs(t, err, ErrOutOfRange)

		_, err = m.At(0, -1)
		assert.ErrorIs(t, err, ErrOutOfRange)

		err = m.Set(0, 2, 1.0)
		assert.ErrorIs(t, err, ErrOutOfRange)
	})
}

func TestDense_ResizeKeep(t *testing.T) {
	t.Run("grow preserves data and fills the rest", func(t *testing.T) {
		m, err := New(2, 2, 0.0)
		require.NoError(t, err)
		require.NoError(t, m.Set(0, 0, 1.0))
		require.NoError(t, m.Set(1, 1, 4.0))

		require.NoError(t, m.ResizeKeep(3, 3, math.NaN()))

		v, _ := m.At(0, 0)
		assert.Equal(t, 1.0, v)
		v, _ = m.At(1, 1)
		assert.Equal(t, 4.0, v)
		v, _ = m.At(2, 2)
		assert.True(t, math.IsNaN(v))
	})

	t.Run("shrink drops trailing data", func(t *testing.T) {
		m, err := New(3, 3, 0.0)
		require.NoError(t, err)
		require.NoError(t, m.Set(0, 0, 1.0))

		require.NoError(t, m.ResizeKeep(1, 1, 0.0))
		assert.Equal(t, 1, m.Rows())
		assert.Equal(t, 1, m.Cols())
		v, _ := m.At(0, 0)
		assert.Equal(t, 1.0, v)
	})

	t.Run("bumps the generation", func(t *testing.T) {
		m, err := New(1, 1, 0.0)
		require.NoError(t, err)
		gen := m.Generation()

		require.NoError(t, m.ResizeKeep(2, 2, 0.0))
		assert.Greater(t, m.Generation(), gen)
	})

	t.Run("negative dimension is rejected", func(t *testing.T) {
		m, err := New(1, 1, 0.0)
		require.NoError(t, err)
		assert.ErrorIs(t, m.ResizeKeep(-1, 1, 0.0), ErrBadShape)
	})
}

func TestDense_Clear(t *testing.T) {
	m, err := New(2, 2, 1.0)
	require.NoError(t, err)
	gen := m.Generation()

	m.Clear()

	assert.Equal(t, 0, m.Rows())
	assert.Equal(t, 0, m.Cols())
	assert.Greater(t, m.Generation(), gen)
}

func TestDense_Clone(t *testing.T) {
	m, err := New(2, 2, 0.0)
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 1, 5.0))

	c := m.Clone()
	require.NoError(t, c.Set(0, 1, -5.0))

	v, _ := m.At(0, 1)
	assert.Equal(t, 5.0, v)
	v, _ = c.At(0, 1)
	assert.Equal(t, -5.0, v)
}

func TestDense_CopyBlockFrom(t *testing.T) {
	dst, err := New(3, 3, 0.0)
	require.NoError(t, err)
	src, err := New(2, 2, 9.0)
	require.NoError(t, err)

	require.NoError(t, dst.CopyBlockFrom(1, 1, src))

	v, _ := dst.At(0, 0)
	assert.Equal(t, 0.0, v)
	v, _ = dst.At(1, 1)
	assert.Equal(t, 9.0, v)
	v, _ = dst.At(2, 2)
	assert.Equal(t, 9.0, v)

	t.Run("block must fit", func(t *testing.T) {
		assert.ErrorIs(t, dst.CopyBlockFrom(2, 2, src), ErrOutOfRange)
	})
}

func TestViews(t *testing.T) {
	newMatrix := func(t *testing.T) *Dense[float64] {
		m, err := New(3, 3, 0.0)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				require.NoError(t, m.Set(i, j, float64(i*3+j)))
			}
		}
		return m
	}

	t.Run("row view reads and writes through", func(t *testing.T) {
		m := newMatrix(t)
		row, err := m.Row(1)
		require.NoError(t, err)

		assert.Equal(t, 3, row.Len())
		v, err := row.At(2)
		require.NoError(t, err)
		assert.Equal(t, 5.0, v)

		require.NoError(t, row.Set(0, -1.0))
		v, _ = m.At(1, 0)
		assert.Equal(t, -1.0, v)
	})

	t.Run("col view reads and writes through", func(t *testing.T) {
		m := newMatrix(t)
		col, err := m.Col(2)
		require.NoError(t, err)

		vals, err := col.Values()
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 5, 8}, vals)

		require.NoError(t, col.Set(1, 50.0))
		v, _ := m.At(1, 2)
		assert.Equal(t, 50.0, v)
	})

	t.Run("block view windows the matrix", func(t *testing.T) {
		m := newMatrix(t)
		b, err := m.Block(1, 1, 2, 2)
		require.NoError(t, err)

		assert.Equal(t, 2, b.Rows())
		assert.Equal(t, 2, b.Cols())
		v, err := b.At(0, 0)
		require.NoError(t, err)
		assert.Equal(t, 4.0, v)
		v, err = b.At(1, 1)
		require.NoError(t, err)
		assert.Equal(t, 8.0, v)
	})

	t.Run("views go stale after a resize", func(t *testing.T) {
		m := newMatrix(t)
		row, err := m.Row(0)
		require.NoError(t, err)
		col, err := m.Col(0)
		require.NoError(t, err)
		b, err := m.Block(0, 0, 2, 2)
		require.NoError(t, err)

		require.NoError(t, m.ResizeKeep(4, 4, 0.0))

		_, err = row.At(0)
		assert.ErrorIs(t, err, ErrStaleView)
		_, err = col.At(0)
		assert.ErrorIs(t, err, ErrStaleView)
		_, err = b.At(0, 0)
		assert.ErrorIs(t, err, ErrStaleView)
		assert.ErrorIs(t, row.Set(0, 1.0), ErrStaleView)
	})

	t.Run("out of range view index", func(t *testing.T) {
		m := newMatrix(t)
		_, err := m.Row(3)
		assert.ErrorIs(t, err, ErrOutOfRange)
		_, err = m.Col(-1)
		assert.ErrorIs(t, err, ErrOutOfRange)
		_, err = m.Block(2, 2, 2, 2)
		assert.ErrorIs(t, err, ErrBadShape)
	})
}
