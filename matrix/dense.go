// Package matrix provides the dense two-dimensional storage primitive used by
// the datatable package.
//
// Dense is a flat, row-major buffer with resize-with-retention semantics and
// non-owning row/column/block views. Views are generation-checked: any
// reallocating mutation on the owning Dense invalidates previously issued
// views, and their accessors fail with ErrStaleView instead of reading freed
// or relocated storage.
package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a requested shape or window is invalid.
	ErrBadShape = errors.New("invalid shape")

	// ErrOutOfRange is returned when a row or column index is outside the
	// current bounds.
	ErrOutOfRange = errors.New("index out of range")

	// ErrStaleView is returned when a view is accessed after the owning
	// Dense has been reallocated.
	ErrStaleView = errors.New("view invalidated by resize")
)

// Dense is a row-major rows×cols buffer of elements of type E.
//
// Dense is not safe for concurrent use. It exclusively owns its storage; all
// sharing happens through views, which the generation counter keeps honest.
type Dense[E any] struct {
	rows, cols int
	data       []E // flat row-major storage, len == rows*cols
	gen        uint64
}

// New creates a rows×cols Dense with every cell set to fill.
// Zero dimensions are legal and produce an empty matrix.
func New[E any](rows, cols int, fill E) (*Dense[E], error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%dx%d: %w", rows, cols, ErrBadShape)
	}

	m := &Dense[E]{rows: rows, cols: cols, data: make([]E, rows*cols)}
	m.fillAll(m.data, fill)

	return m, nil
}

// Rows returns the number of rows.
func (m *Dense[E]) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Dense[E]) Cols() int { return m.cols }

// Generation returns the current reallocation generation. It increases every
// time the backing storage is reallocated.
func (m *Dense[E]) Generation() uint64 { return m.gen }

// At returns the element at (row, col).
func (m *Dense[E]) At(row, col int) (E, error) {
	off, err := m.offset(row, col)
	if err != nil {
		var zero E
		return zero, err
	}

	return m.data[off], nil
}

// Set stores v at (row, col).
func (m *Dense[E]) Set(row, col int, v E) error {
	off, err := m.offset(row, col)
	if err != nil {
		return err
	}
	m.data[off] = v

	return nil
}

// ResizeKeep reallocates to rows×cols, preserving the overlapping region.
// Cells outside the overlap are set to fill. All outstanding views are
// invalidated.
func (m *Dense[E]) ResizeKeep(rows, cols int, fill E) error {
	if rows < 0 || cols < 0 {
		return fmt.Errorf("%dx%d: %w", rows, cols, ErrBadShape)
	}

	next := make([]E, rows*cols)
	m.fillAll(next, fill)

	keepRows := min(rows, m.rows)
	keepCols := min(cols, m.cols)
	for i := 0; i < keepRows; i++ {
		copy(next[i*cols:i*cols+keepCols], m.data[i*m.cols:i*m.cols+keepCols])
	}

	m.rows, m.cols, m.data = rows, cols, next
	m.gen++

	return nil
}

// Clear resets the matrix to 0×0 and invalidates all views.
func (m *Dense[E]) Clear() {
	m.rows, m.cols, m.data = 0, 0, nil
	m.gen++
}

// Fill sets every cell to v.
func (m *Dense[E]) Fill(v E) {
	m.fillAll(m.data, v)
}

// Clone returns an independent deep copy. The clone starts at generation zero.
func (m *Dense[E]) Clone() *Dense[E] {
	cp := make([]E, len(m.data))
	copy(cp, m.data)

	return &Dense[E]{rows: m.rows, cols: m.cols, data: cp}
}

// CopyBlockFrom copies the entire contents of src into the window whose
// top-left corner is (row, col). The window must fit inside m.
func (m *Dense[E]) CopyBlockFrom(row, col int, src *Dense[E]) error {
	if row < 0 || col < 0 || row+src.rows > m.rows || col+src.cols > m.cols {
		return fmt.Errorf("block %dx%d at (%d,%d): %w", src.rows, src.cols, row, col, ErrOutOfRange)
	}

	for i := 0; i < src.rows; i++ {
		copy(m.data[(row+i)*m.cols+col:], src.data[i*src.cols:(i+1)*src.cols])
	}

	return nil
}

func (m *Dense[E]) offset(row, col int) (int, error) {
	if row < 0 || row >= m.rows {
		return 0, fmt.Errorf("row %d: %w", row, ErrOutOfRange)
	}
	if col < 0 || col >= m.cols {
		return 0, fmt.Errorf("col %d: %w", col, ErrOutOfRange)
	}

	return row*m.cols + col, nil
}

func (m *Dense[E]) fillAll(buf []E, v E) {
	for i := range buf {
		buf[i] = v
	}
}
