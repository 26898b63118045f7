package datatable

import (
	"fmt"
	"iter"

	"github.com/hupe1980/datatable/internal/seqbuf"
	"github.com/hupe1980/datatable/matrix"
	"github.com/hupe1980/datatable/metadata"
)

// Dim specifies the traversal order used when filling a table from a flat
// element sequence.
type Dim uint8

const (
	// RowMajor fills whole rows before advancing to the next row.
	RowMajor Dim = iota
	// ColumnMajor fills whole columns before advancing to the next column.
	ColumnMajor
)

// SeqLayout describes how a flat element sequence maps onto a table shape.
type SeqLayout struct {
	// Dim is the traversal order.
	Dim Dim

	// EntriesPerMajor is the length of each major: the row length for
	// RowMajor, the column length for ColumnMajor. Must be positive.
	EntriesPerMajor int

	// Majors is the number of majors, when known in advance. Zero means
	// unknown: the staging buffer grows by doubling instead of being
	// pre-sized, and the sequence may produce any number of majors.
	// When set, producing more elements than Majors*EntriesPerMajor fails
	// with ErrTooManyElements.
	Majors int

	// AllowMissing pads a partially filled final major with the fill
	// sentinel instead of failing with ErrNotEnoughElements.
	AllowMissing bool
}

// Table is an in-memory rows×cols container of elements of type E with
// partially labeled columns and a heterogeneous metadata store.
//
// A Table exclusively owns its storage, label registry, and metadata store.
// It is not safe for concurrent use; row/column/block views are non-owning
// references into the storage, invalidated by any reallocating mutation
// (append, resize, concatenate) and guarded by generation counters.
type Table[E any] struct {
	data   *matrix.Dense[E]
	labels *labelIndex
	meta   *metadata.Store
	fill   E
	logger *Logger
}

// New creates an empty 0x0 table.
func New[E any](opts ...Option[E]) *Table[E] {
	cfg := applyOptions(opts)
	m, _ := matrix.New[E](0, 0, cfg.fill) // 0x0 is always a legal shape

	return &Table[E]{
		data:   m,
		labels: newLabelIndex(),
		meta:   metadata.NewStore(),
		fill:   cfg.fill,
		logger: cfg.logger,
	}
}

// NewShaped creates a rows×cols table with every cell set to the fill
// sentinel.
func NewShaped[E any](rows, cols int, opts ...Option[E]) (*Table[E], error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("shape %dx%d: %w", rows, cols, ErrInvalidEntry)
	}

	t := New(opts...)
	if err := t.data.ResizeKeep(rows, cols, t.fill); err != nil {
		return nil, err
	}

	return t, nil
}

// FromSeq creates a table from a single-pass element sequence, filling
// major-by-major according to layout.
func FromSeq[E any](seq iter.Seq[E], layout SeqLayout, opts ...Option[E]) (*Table[E], error) {
	if layout.EntriesPerMajor <= 0 {
		return nil, fmt.Errorf("entries per major %d: %w", layout.EntriesPerMajor, ErrInvalidEntry)
	}
	if layout.Majors < 0 {
		return nil, fmt.Errorf("majors %d: %w", layout.Majors, ErrInvalidEntry)
	}

	var (
		vals     []E
		overflow bool
	)
	if layout.Majors > 0 {
		limit := layout.Majors * layout.EntriesPerMajor
		vals, overflow = seqbuf.CollectLimit(seq, limit, limit)
		if overflow {
			return nil, countErr(ErrTooManyElements, limit, limit+1)
		}
	} else {
		vals = seqbuf.Collect(seq, layout.EntriesPerMajor)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("sequence produced no elements: %w", ErrZeroElements)
	}

	majors := ceilDiv(len(vals), layout.EntriesPerMajor)
	if layout.Majors > 0 {
		majors = layout.Majors
	}
	if !layout.AllowMissing && len(vals) != majors*layout.EntriesPerMajor {
		return nil, countErr(ErrNotEnoughElements, majors*layout.EntriesPerMajor, len(vals))
	}

	rows, cols := majors, layout.EntriesPerMajor
	if layout.Dim == ColumnMajor {
		rows, cols = layout.EntriesPerMajor, majors
	}

	t, err := NewShaped(rows, cols, opts...)
	if err != nil {
		return nil, err
	}
	for k, v := range vals {
		r, c := k/layout.EntriesPerMajor, k%layout.EntriesPerMajor
		if layout.Dim == ColumnMajor {
			r, c = c, r
		}
		if err := t.data.Set(r, c, v); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// NumRows returns the number of rows.
func (t *Table[E]) NumRows() int { return t.data.Rows() }

// NumColumns returns the number of columns.
func (t *Table[E]) NumColumns() int { return t.data.Cols() }

// HasRow reports whether row index is within bounds.
func (t *Table[E]) HasRow(index int) bool {
	return index >= 0 && index < t.data.Rows()
}

// HasColumn reports whether column index is within bounds.
func (t *Table[E]) HasColumn(index int) bool {
	return index >= 0 && index < t.data.Cols()
}

// At returns the element at (row, col).
func (t *Table[E]) At(row, col int) (E, error) {
	var zero E
	if !t.HasRow(row) {
		return zero, rowErr(row)
	}
	if !t.HasColumn(col) {
		return zero, colErr(col)
	}

	return t.data.At(row, col)
}

// AtLabel returns the element at (row, label).
func (t *Table[E]) AtLabel(row int, label string) (E, error) {
	col, err := t.ColumnIndex(label)
	if err != nil {
		var zero E
		return zero, err
	}

	return t.At(row, col)
}

// SetAt stores v at (row, col).
func (t *Table[E]) SetAt(row, col int, v E) error {
	if !t.HasRow(row) {
		return rowErr(row)
	}
	if !t.HasColumn(col) {
		return colErr(col)
	}

	return t.data.Set(row, col, v)
}

// SetAtLabel stores v at (row, label).
func (t *Table[E]) SetAtLabel(row int, label string, v E) error {
	col, err := t.ColumnIndex(label)
	if err != nil {
		return err
	}

	return t.SetAt(row, col, v)
}

// Row returns a non-owning view over row index. The view writes through to
// the table and is invalidated by any reallocating mutation.
func (t *Table[E]) Row(index int) (*matrix.RowView[E], error) {
	if !t.HasRow(index) {
		return nil, rowErr(index)
	}

	return t.data.Row(index)
}

// RowValues returns a copy of row index.
func (t *Table[E]) RowValues(index int) ([]E, error) {
	v, err := t.Row(index)
	if err != nil {
		return nil, err
	}

	return v.Values()
}

// Column returns a non-owning view over column index.
func (t *Table[E]) Column(index int) (*matrix.ColView[E], error) {
	if !t.HasColumn(index) {
		return nil, colErr(index)
	}

	return t.data.Col(index)
}

// ColumnByLabel returns a non-owning view over the column carrying label.
func (t *Table[E]) ColumnByLabel(label string) (*matrix.ColView[E], error) {
	col, err := t.ColumnIndex(label)
	if err != nil {
		return nil, err
	}

	return t.Column(col)
}

// ColumnValues returns a copy of column index.
func (t *Table[E]) ColumnValues(index int) ([]E, error) {
	v, err := t.Column(index)
	if err != nil {
		return nil, err
	}

	return v.Values()
}

// Block returns a non-owning view over the rows×cols window with top-left
// corner at (row, col).
func (t *Table[E]) Block(row, col, rows, cols int) (*matrix.BlockView[E], error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("block %dx%d: %w", rows, cols, ErrInvalidEntry)
	}
	if !t.HasRow(row) {
		return nil, rowErr(row)
	}
	if !t.HasRow(row + rows - 1) {
		return nil, rowErr(row + rows - 1)
	}
	if !t.HasColumn(col) {
		return nil, colErr(col)
	}
	if !t.HasColumn(col + cols - 1) {
		return nil, colErr(col + cols - 1)
	}

	return t.data.Block(row, col, rows, cols)
}

// Rows returns an iterator over (index, row copy) pairs, in row order.
// The copies stay valid across table mutations.
func (t *Table[E]) Rows() (iter.Seq2[int, []E], error) {
	if t.NumRows() == 0 || t.NumColumns() == 0 {
		return nil, ErrEmptyTable
	}

	return func(yield func(int, []E) bool) {
		for i := 0; i < t.NumRows(); i++ {
			vals, err := t.RowValues(i)
			if err != nil {
				return
			}
			if !yield(i, vals) {
				return
			}
		}
	}, nil
}

// Columns returns an iterator over (index, column copy) pairs, in column
// order.
func (t *Table[E]) Columns() (iter.Seq2[int, []E], error) {
	if t.NumRows() == 0 || t.NumColumns() == 0 {
		return nil, ErrEmptyTable
	}

	return func(yield func(int, []E) bool) {
		for j := 0; j < t.NumColumns(); j++ {
			vals, err := t.ColumnValues(j)
			if err != nil {
				return
			}
			if !yield(j, vals) {
				return
			}
		}
	}, nil
}

// CopyMatrix returns an independent copy of the underlying dense storage.
func (t *Table[E]) CopyMatrix() *matrix.Dense[E] {
	return t.data.Clone()
}

// Fill returns the table's fill sentinel.
func (t *Table[E]) Fill() E { return t.fill }

// Meta returns the table's metadata store. The store's lifecycle is
// independent of the table shape.
func (t *Table[E]) Meta() *metadata.Store { return t.meta }

// Clone returns an independent deep copy of the table, including labels and
// metadata.
func (t *Table[E]) Clone() *Table[E] {
	return &Table[E]{
		data:   t.data.Clone(),
		labels: t.labels.clone(),
		meta:   t.meta.Clone(),
		fill:   t.fill,
		logger: t.logger,
	}
}

// AddRow appends one row from a fixed-size input. On an empty table the
// input defines the column count.
func (t *Table[E]) AddRow(row []E) error {
	if len(row) == 0 {
		return fmt.Errorf("input row has zero length: %w", ErrZeroElements)
	}
	if t.NumColumns() > 0 && len(row) != t.NumColumns() {
		return countErr(ErrColumnCountMismatch, t.NumColumns(), len(row))
	}

	rows := t.NumRows()
	if err := t.data.ResizeKeep(rows+1, len(row), t.fill); err != nil {
		return err
	}
	for j, v := range row {
		if err := t.data.Set(rows, j, v); err != nil {
			return err
		}
	}
	t.logger.LogAppend("rows", 1, t.NumRows(), t.NumColumns())

	return nil
}

// AddRowSeq appends one row from a single-pass element sequence. On an empty
// table, columnsHint pre-sizes the staging buffer and the produced elements
// define the column count; columnsHint must then be positive. On a non-empty
// table the sequence must produce exactly NumColumns elements, or fewer when
// allowMissing is set (the rest is padded with the fill sentinel).
func (t *Table[E]) AddRowSeq(seq iter.Seq[E], columnsHint int, allowMissing bool) error {
	if t.isEmpty() {
		if columnsHint <= 0 {
			return fmt.Errorf("columns hint %d on empty table: %w", columnsHint, ErrInvalidEntry)
		}
		vals := seqbuf.Collect(seq, columnsHint)
		if len(vals) == 0 {
			return fmt.Errorf("sequence produced no elements: %w", ErrZeroElements)
		}

		return t.AddRow(vals)
	}

	cols := t.NumColumns()
	vals, overflow := seqbuf.CollectLimit(seq, cols, cols)
	if overflow {
		return countErr(ErrTooManyElements, cols, cols+1)
	}
	if len(vals) == 0 {
		return fmt.Errorf("sequence produced no elements: %w", ErrZeroElements)
	}
	if !allowMissing && len(vals) < cols {
		return countErr(ErrNotEnoughElements, cols, len(vals))
	}

	rows := t.NumRows()
	if err := t.data.ResizeKeep(rows+1, cols, t.fill); err != nil {
		return err
	}
	for j, v := range vals {
		if err := t.data.Set(rows, j, v); err != nil {
			return err
		}
	}
	t.logger.LogAppend("rows", 1, t.NumRows(), t.NumColumns())

	return nil
}

// AddRows appends one or more rows from a single-pass element sequence,
// filling row-major. On an empty table, numColumns defines the column count
// and must be positive; it is ignored otherwise. The sequence is staged and
// validated before storage is touched, so a failed call leaves the table
// unmodified.
func (t *Table[E]) AddRows(seq iter.Seq[E], numColumns int, allowMissing bool) error {
	cols := t.NumColumns()
	if t.isEmpty() {
		if numColumns <= 0 {
			return fmt.Errorf("column count %d on empty table: %w", numColumns, ErrInvalidEntry)
		}
		cols = numColumns
	}

	vals := seqbuf.Collect(seq, cols)
	if len(vals) == 0 {
		return fmt.Errorf("sequence produced no elements: %w", ErrZeroElements)
	}
	added := ceilDiv(len(vals), cols)
	if !allowMissing && len(vals) != added*cols {
		return countErr(ErrNotEnoughElements, added*cols, len(vals))
	}

	rows := t.NumRows()
	if err := t.data.ResizeKeep(rows+added, cols, t.fill); err != nil {
		return err
	}
	for k, v := range vals {
		if err := t.data.Set(rows+k/cols, k%cols, v); err != nil {
			return err
		}
	}
	t.logger.LogAppend("rows", added, t.NumRows(), t.NumColumns())

	return nil
}

// AddColumn appends one column from a fixed-size input. On an empty table
// the input defines the row count.
func (t *Table[E]) AddColumn(column []E) error {
	if len(column) == 0 {
		return fmt.Errorf("input column has zero length: %w", ErrZeroElements)
	}
	if t.NumRows() > 0 && len(column) != t.NumRows() {
		return countErr(ErrRowCountMismatch, t.NumRows(), len(column))
	}

	cols := t.NumColumns()
	if err := t.data.ResizeKeep(len(column), cols+1, t.fill); err != nil {
		return err
	}
	for i, v := range column {
		if err := t.data.Set(i, cols, v); err != nil {
			return err
		}
	}
	t.logger.LogAppend("columns", 1, t.NumRows(), t.NumColumns())

	return nil
}

// AddColumnSeq appends one column from a single-pass element sequence. It is
// the column mirror of AddRowSeq.
func (t *Table[E]) AddColumnSeq(seq iter.Seq[E], rowsHint int, allowMissing bool) error {
	if t.isEmpty() {
		if rowsHint <= 0 {
			return fmt.Errorf("rows hint %d on empty table: %w", rowsHint, ErrInvalidEntry)
		}
		vals := seqbuf.Collect(seq, rowsHint)
		if len(vals) == 0 {
			return fmt.Errorf("sequence produced no elements: %w", ErrZeroElements)
		}

		return t.AddColumn(vals)
	}

	rows := t.NumRows()
	vals, overflow := seqbuf.CollectLimit(seq, rows, rows)
	if overflow {
		return countErr(ErrTooManyElements, rows, rows+1)
	}
	if len(vals) == 0 {
		return fmt.Errorf("sequence produced no elements: %w", ErrZeroElements)
	}
	if !allowMissing && len(vals) < rows {
		return countErr(ErrNotEnoughElements, rows, len(vals))
	}

	cols := t.NumColumns()
	if err := t.data.ResizeKeep(rows, cols+1, t.fill); err != nil {
		return err
	}
	for i, v := range vals {
		if err := t.data.Set(i, cols, v); err != nil {
			return err
		}
	}
	t.logger.LogAppend("columns", 1, t.NumRows(), t.NumColumns())

	return nil
}

// AddColumns appends one or more columns from a single-pass element
// sequence, filling column-major. It is the column mirror of AddRows.
func (t *Table[E]) AddColumns(seq iter.Seq[E], numRows int, allowMissing bool) error {
	rows := t.NumRows()
	if t.isEmpty() {
		if numRows <= 0 {
			return fmt.Errorf("row count %d on empty table: %w", numRows, ErrInvalidEntry)
		}
		rows = numRows
	}

	vals := seqbuf.Collect(seq, rows)
	if len(vals) == 0 {
		return fmt.Errorf("sequence produced no elements: %w", ErrZeroElements)
	}
	added := ceilDiv(len(vals), rows)
	if !allowMissing && len(vals) != added*rows {
		return countErr(ErrNotEnoughElements, added*rows, len(vals))
	}

	cols := t.NumColumns()
	if err := t.data.ResizeKeep(rows, cols+added, t.fill); err != nil {
		return err
	}
	for k, v := range vals {
		if err := t.data.Set(k%rows, cols+k/rows, v); err != nil {
			return err
		}
	}
	t.logger.LogAppend("columns", added, t.NumRows(), t.NumColumns())

	return nil
}

// ConcatenateRows appends the rows of other to this table. Only raw data
// moves: labels and metadata are never copied. Self-concatenation is
// rejected.
func (t *Table[E]) ConcatenateRows(other *Table[E]) error {
	if t == other || t.data == other.data {
		return fmt.Errorf("cannot concatenate a table with itself: %w", ErrInvalidEntry)
	}
	if t.NumColumns() != other.NumColumns() {
		return countErr(ErrColumnCountMismatch, t.NumColumns(), other.NumColumns())
	}

	rows := t.NumRows()
	if err := t.data.ResizeKeep(rows+other.NumRows(), t.NumColumns(), t.fill); err != nil {
		return err
	}
	if err := t.data.CopyBlockFrom(rows, 0, other.data); err != nil {
		return err
	}
	t.logger.LogConcatenate("rows", other.NumRows())

	return nil
}

// ConcatenateColumns appends the columns of other to this table. Only raw
// data moves: labels and metadata are never copied. Self-concatenation is
// rejected.
func (t *Table[E]) ConcatenateColumns(other *Table[E]) error {
	if t == other || t.data == other.data {
		return fmt.Errorf("cannot concatenate a table with itself: %w", ErrInvalidEntry)
	}
	if t.NumRows() != other.NumRows() {
		return countErr(ErrRowCountMismatch, t.NumRows(), other.NumRows())
	}

	cols := t.NumColumns()
	if err := t.data.ResizeKeep(t.NumRows(), cols+other.NumColumns(), t.fill); err != nil {
		return err
	}
	if err := t.data.CopyBlockFrom(0, cols, other.data); err != nil {
		return err
	}
	t.logger.LogConcatenate("columns", other.NumColumns())

	return nil
}

// ConcatenateRows returns a new table holding the rows of a followed by the
// rows of b. Labels and metadata are taken from a.
func ConcatenateRows[E any](a, b *Table[E]) (*Table[E], error) {
	t := a.Clone()
	if err := t.ConcatenateRows(b); err != nil {
		return nil, err
	}

	return t, nil
}

// ConcatenateColumns returns a new table holding the columns of a followed
// by the columns of b. Labels and metadata are taken from a.
func ConcatenateColumns[E any](a, b *Table[E]) (*Table[E], error) {
	t := a.Clone()
	if err := t.ConcatenateColumns(b); err != nil {
		return nil, err
	}

	return t, nil
}

// ResizeKeep reallocates to rows×cols, preserving the overlapping region.
// New cells are set to the fill sentinel; labels of columns dropped by a
// shrinking resize are silently removed. Zero in either dimension is
// rejected; use Clear instead.
func (t *Table[E]) ResizeKeep(rows, cols int) error {
	if rows <= 0 {
		return fmt.Errorf("row count %d (use Clear to empty the table): %w", rows, ErrInvalidEntry)
	}
	if cols <= 0 {
		return fmt.Errorf("column count %d (use Clear to empty the table): %w", cols, ErrInvalidEntry)
	}

	if cols < t.NumColumns() {
		t.labels.dropFrom(cols)
	}
	if err := t.data.ResizeKeep(rows, cols, t.fill); err != nil {
		return err
	}
	t.logger.LogResize(rows, cols)

	return nil
}

// Clear resets the table to 0x0 and wipes all column labels. Metadata is
// untouched.
func (t *Table[E]) Clear() {
	t.data.Clear()
	t.labels.clear()
	t.logger.LogClear()
}

func (t *Table[E]) isEmpty() bool {
	return t.NumRows() == 0 || t.NumColumns() == 0
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
