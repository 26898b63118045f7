package matrix

import "fmt"

// This file implements non-owning windows over a Dense. Every view captures
// the owner's generation at creation time; once the owner reallocates, the
// view's accessors return ErrStaleView. Views alias the owner's storage, so
// writes through a view are visible to the owner and to overlapping views.

// RowView is a non-owning window over a single row.
type RowView[E any] struct {
	m   *Dense[E]
	row int
	gen uint64
}

// Row returns a view over row i.
func (m *Dense[E]) Row(i int) (*RowView[E], error) {
	if i < 0 || i >= m.rows {
		return nil, fmt.Errorf("row %d: %w", i, ErrOutOfRange)
	}

	return &RowView[E]{m: m, row: i, gen: m.gen}, nil
}

// Len returns the number of elements in the row.
func (v *RowView[E]) Len() int { return v.m.cols }

// At returns the element at position i of the row.
func (v *RowView[E]) At(i int) (E, error) {
	var zero E
	if v.gen != v.m.gen {
		return zero, ErrStaleView
	}
	if i < 0 || i >= v.m.cols {
		return zero, fmt.Errorf("col %d: %w", i, ErrOutOfRange)
	}

	return v.m.data[v.row*v.m.cols+i], nil
}

// Set stores val at position i of the row, writing through to the owner.
func (v *RowView[E]) Set(i int, val E) error {
	if v.gen != v.m.gen {
		return ErrStaleView
	}
	if i < 0 || i >= v.m.cols {
		return fmt.Errorf("col %d: %w", i, ErrOutOfRange)
	}
	v.m.data[v.row*v.m.cols+i] = val

	return nil
}

// Values returns a copy of the row. The copy stays valid across owner
// mutations.
func (v *RowView[E]) Values() ([]E, error) {
	if v.gen != v.m.gen {
		return nil, ErrStaleView
	}
	out := make([]E, v.m.cols)
	copy(out, v.m.data[v.row*v.m.cols:(v.row+1)*v.m.cols])

	return out, nil
}

// ColView is a non-owning window over a single column.
type ColView[E any] struct {
	m   *Dense[E]
	col int
	gen uint64
}

// Col returns a view over column j.
func (m *Dense[E]) Col(j int) (*ColView[E], error) {
	if j < 0 || j >= m.cols {
		return nil, fmt.Errorf("col %d: %w", j, ErrOutOfRange)
	}

	return &ColView[E]{m: m, col: j, gen: m.gen}, nil
}

// Len returns the number of elements in the column.
func (v *ColView[E]) Len() int { return v.m.rows }

// At returns the element at position i of the column.
func (v *ColView[E]) At(i int) (E, error) {
	var zero E
	if v.gen != v.m.gen {
		return zero, ErrStaleView
	}
	if i < 0 || i >= v.m.rows {
		return zero, fmt.Errorf("row %d: %w", i, ErrOutOfRange)
	}

	return v.m.data[i*v.m.cols+v.col], nil
}

// Set stores val at position i of the column, writing through to the owner.
func (v *ColView[E]) Set(i int, val E) error {
	if v.gen != v.m.gen {
		return ErrStaleView
	}
	if i < 0 || i >= v.m.rows {
		return fmt.Errorf("row %d: %w", i, ErrOutOfRange)
	}
	v.m.data[i*v.m.cols+v.col] = val

	return nil
}

// Values returns a copy of the column.
func (v *ColView[E]) Values() ([]E, error) {
	if v.gen != v.m.gen {
		return nil, ErrStaleView
	}
	out := make([]E, v.m.rows)
	for i := range out {
		out[i] = v.m.data[i*v.m.cols+v.col]
	}

	return out, nil
}

// BlockView is a non-owning rectangular window.
type BlockView[E any] struct {
	m          *Dense[E]
	r0, c0     int
	rows, cols int
	gen        uint64
}

// Block returns a view over the rows×cols window with top-left corner at
// (r0, c0). Zero-area windows are legal.
func (m *Dense[E]) Block(r0, c0, rows, cols int) (*BlockView[E], error) {
	if r0 < 0 || c0 < 0 || rows < 0 || cols < 0 || r0+rows > m.rows || c0+cols > m.cols {
		return nil, fmt.Errorf("block %dx%d at (%d,%d): %w", rows, cols, r0, c0, ErrBadShape)
	}

	return &BlockView[E]{m: m, r0: r0, c0: c0, rows: rows, cols: cols, gen: m.gen}, nil
}

// Rows returns the window height.
func (v *BlockView[E]) Rows() int { return v.rows }

// Cols returns the window width.
func (v *BlockView[E]) Cols() int { return v.cols }

// At returns the element at window-relative position (i, j).
func (v *BlockView[E]) At(i, j int) (E, error) {
	var zero E
	if v.gen != v.m.gen {
		return zero, ErrStaleView
	}
	if i < 0 || i >= v.rows || j < 0 || j >= v.cols {
		return zero, fmt.Errorf("cell (%d,%d): %w", i, j, ErrOutOfRange)
	}

	return v.m.data[(v.r0+i)*v.m.cols+v.c0+j], nil
}

// Set stores val at window-relative position (i, j), writing through to the
// owner.
func (v *BlockView[E]) Set(i, j int, val E) error {
	if v.gen != v.m.gen {
		return ErrStaleView
	}
	if i < 0 || i >= v.rows || j < 0 || j >= v.cols {
		return fmt.Errorf("cell (%d,%d): %w", i, j, ErrOutOfRange)
	}
	v.m.data[(v.r0+i)*v.m.cols+v.c0+j] = val

	return nil
}

// Values returns a row-major copy of the window.
func (v *BlockView[E]) Values() ([]E, error) {
	if v.gen != v.m.gen {
		return nil, ErrStaleView
	}
	out := make([]E, 0, v.rows*v.cols)
	for i := 0; i < v.rows; i++ {
		base := (v.r0 + i) * v.m.cols
		out = append(out, v.m.data[base+v.c0:base+v.c0+v.cols]...)
	}

	return out, nil
}
