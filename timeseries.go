package datatable

import (
	"fmt"
	"iter"
	"slices"

	"golang.org/x/exp/constraints"

	"github.com/hupe1980/datatable/internal/seqbuf"
)

// Timestamp constrains the ordered numeric types usable as a time axis.
type Timestamp interface {
	constraints.Integer | constraints.Float
}

// Direction selects which neighbor a near-lookup may resolve to when the
// requested timestamp falls between two stored ones.
type Direction uint8

const (
	// LessOrGreaterThanEqual resolves to the nearest timestamp on either
	// side, preferring the lower one on a tie.
	LessOrGreaterThanEqual Direction = iota
	// LessThanEqual resolves to the greatest stored timestamp that does
	// not exceed the requested one.
	LessThanEqual
	// GreaterThanEqual resolves to the smallest stored timestamp that is
	// not below the requested one.
	GreaterThanEqual
)

// TimeSeriesTable is a Table whose rows carry strictly increasing
// timestamps. Every data row must be stamped before timestamps are read, and
// the timestamp column can never outgrow the row count.
type TimeSeriesTable[E any, TS Timestamp] struct {
	*Table[E]

	stamps []TS
}

// NewTimeSeries creates an empty time series table.
func NewTimeSeries[E any, TS Timestamp](opts ...Option[E]) *TimeSeriesTable[E, TS] {
	return &TimeSeriesTable[E, TS]{Table: New(opts...)}
}

// NumTimestamps returns the number of stamped rows.
func (t *TimeSeriesTable[E, TS]) NumTimestamps() int { return len(t.stamps) }

// FullyStamped reports whether every row carries a timestamp.
func (t *TimeSeriesTable[E, TS]) FullyStamped() bool {
	return len(t.stamps) == t.NumRows()
}

// Clone returns an independent deep copy, timestamps included.
func (t *TimeSeriesTable[E, TS]) Clone() *TimeSeriesTable[E, TS] {
	return &TimeSeriesTable[E, TS]{
		Table:  t.Table.Clone(),
		stamps: slices.Clone(t.stamps),
	}
}

// Clear resets the table to 0x0, wiping labels and timestamps. Metadata is
// untouched.
func (t *TimeSeriesTable[E, TS]) Clear() {
	t.Table.Clear()
	t.stamps = t.stamps[:0]
}

// AddTimestamp stamps the next unstamped row. The table must already hold an
// unstamped row, and ts must exceed the last stored timestamp.
func (t *TimeSeriesTable[E, TS]) AddTimestamp(ts TS) error {
	if t.NumRows() == 0 {
		return fmt.Errorf("cannot timestamp an empty table: %w", ErrZeroRows)
	}
	if len(t.stamps) == t.NumRows() {
		return fmt.Errorf("all %d rows already stamped: %w", t.NumRows(), ErrTimestampsFull)
	}
	if !orderable(ts) {
		return fmt.Errorf("timestamp %v: %w", ts, ErrTimestampOrder)
	}
	if len(t.stamps) > 0 && !(ts > t.stamps[len(t.stamps)-1]) {
		return fmt.Errorf("timestamp %v not after %v: %w", ts, t.stamps[len(t.stamps)-1], ErrTimestampOrder)
	}

	t.stamps = append(t.stamps, ts)

	return nil
}

// AddTimestamps stamps rows from a single-pass sequence. The whole batch is
// staged and validated before any timestamp is stored, so a failed call
// leaves the table unmodified.
func (t *TimeSeriesTable[E, TS]) AddTimestamps(seq iter.Seq[TS]) error {
	if t.NumRows() == 0 {
		return fmt.Errorf("cannot timestamp an empty table: %w", ErrZeroRows)
	}

	free := t.NumRows() - len(t.stamps)
	if free == 0 {
		return fmt.Errorf("all %d rows already stamped: %w", t.NumRows(), ErrTimestampsFull)
	}
	vals, overflow := seqbuf.CollectLimit(seq, free, free)
	if overflow {
		return fmt.Errorf("only %d rows left to stamp: %w", free, ErrTimestampsFull)
	}
	if len(vals) == 0 {
		return fmt.Errorf("sequence produced no timestamps: %w", ErrZeroElements)
	}

	prev := vals[0]
	if !orderable(prev) {
		return fmt.Errorf("timestamp %v: %w", prev, ErrTimestampOrder)
	}
	if len(t.stamps) > 0 && !(prev > t.stamps[len(t.stamps)-1]) {
		return fmt.Errorf("timestamp %v not after %v: %w", prev, t.stamps[len(t.stamps)-1], ErrTimestampOrder)
	}
	for _, ts := range vals[1:] {
		if !(ts > prev) {
			return fmt.Errorf("timestamp %v not after %v: %w", ts, prev, ErrTimestampOrder)
		}
		prev = ts
	}

	t.stamps = append(t.stamps, vals...)

	return nil
}

// TimestampAt returns the timestamp of row index. Every row must be stamped.
func (t *TimeSeriesTable[E, TS]) TimestampAt(index int) (TS, error) {
	var zero TS
	if err := t.requireFullyStamped(); err != nil {
		return zero, err
	}
	if !t.HasRow(index) {
		return zero, rowErr(index)
	}

	return t.stamps[index], nil
}

// Timestamps returns a copy of the timestamp column. Every row must be
// stamped.
func (t *TimeSeriesTable[E, TS]) Timestamps() ([]TS, error) {
	if err := t.requireFullyStamped(); err != nil {
		return nil, err
	}

	return slices.Clone(t.stamps), nil
}

// ChangeTimestampOfRow replaces the timestamp of row index. The new value
// must keep the column strictly increasing against both neighbors.
func (t *TimeSeriesTable[E, TS]) ChangeTimestampOfRow(index int, ts TS) error {
	if err := t.requireFullyStamped(); err != nil {
		return err
	}
	if !t.HasRow(index) {
		return rowErr(index)
	}
	if !orderable(ts) {
		return fmt.Errorf("timestamp %v: %w", ts, ErrTimestampOrder)
	}
	if index > 0 && !(ts > t.stamps[index-1]) {
		return fmt.Errorf("timestamp %v not after %v: %w", ts, t.stamps[index-1], ErrTimestampOrder)
	}
	if index < len(t.stamps)-1 && !(ts < t.stamps[index+1]) {
		return fmt.Errorf("timestamp %v not before %v: %w", ts, t.stamps[index+1], ErrTimestampOrder)
	}

	t.stamps[index] = ts

	return nil
}

// ChangeTimestamp replaces the exact stored timestamp old with ts.
func (t *TimeSeriesTable[E, TS]) ChangeTimestamp(old, ts TS) error {
	index, err := t.RowIndexOf(old)
	if err != nil {
		return err
	}

	return t.ChangeTimestampOfRow(index, ts)
}

// RowIndexOf returns the index of the row stamped exactly ts.
func (t *TimeSeriesTable[E, TS]) RowIndexOf(ts TS) (int, error) {
	if err := t.requireFullyStamped(); err != nil {
		return 0, err
	}

	index, found := slices.BinarySearch(t.stamps, ts)
	if !found {
		return 0, fmt.Errorf("timestamp %v: %w", ts, ErrTimestampNotFound)
	}

	return index, nil
}

// RowIndexNear returns the index of the row whose timestamp is nearest ts in
// the given direction. LessThanEqual fails when ts precedes the first
// timestamp; GreaterThanEqual fails when ts exceeds the last.
func (t *TimeSeriesTable[E, TS]) RowIndexNear(ts TS, dir Direction) (int, error) {
	if err := t.requireFullyStamped(); err != nil {
		return 0, err
	}

	hi, found := slices.BinarySearch(t.stamps, ts)
	if found {
		return hi, nil
	}
	lo := hi - 1

	switch dir {
	case LessThanEqual:
		if lo < 0 {
			return 0, fmt.Errorf("no timestamp at or below %v: %w", ts, ErrTimestampNotFound)
		}

		return lo, nil
	case GreaterThanEqual:
		if hi >= len(t.stamps) {
			return 0, fmt.Errorf("no timestamp at or above %v: %w", ts, ErrTimestampNotFound)
		}

		return hi, nil
	default:
		if lo < 0 {
			return hi, nil
		}
		if hi >= len(t.stamps) {
			return lo, nil
		}
		if ts-t.stamps[lo] <= t.stamps[hi]-ts {
			return lo, nil
		}

		return hi, nil
	}
}

// TimestampNear returns the stored timestamp nearest ts in the given
// direction.
func (t *TimeSeriesTable[E, TS]) TimestampNear(ts TS, dir Direction) (TS, error) {
	index, err := t.RowIndexNear(ts, dir)
	if err != nil {
		var zero TS
		return zero, err
	}

	return t.stamps[index], nil
}

// RowByTimestamp returns a copy of the row stamped exactly ts.
func (t *TimeSeriesTable[E, TS]) RowByTimestamp(ts TS) ([]E, error) {
	index, err := t.RowIndexOf(ts)
	if err != nil {
		return nil, err
	}

	return t.RowValues(index)
}

// AddTimestampAndRow appends one row and stamps it in a single call. When
// the timestamp is rejected the freshly appended row is rolled back, leaving
// the table unmodified.
func (t *TimeSeriesTable[E, TS]) AddTimestampAndRow(ts TS, row []E) error {
	if !t.FullyStamped() {
		return fmt.Errorf("have %d timestamps for %d rows: %w", len(t.stamps), t.NumRows(), ErrTimestampsIncomplete)
	}

	if err := t.AddRow(row); err != nil {
		return err
	}
	if err := t.AddTimestamp(ts); err != nil {
		t.rollbackLastRow()
		return err
	}

	return nil
}

// AddTimestampsAndRows appends multiple rows and their timestamps in a
// single call, filling row-major. On an empty table the column count is
// inferred from the element and timestamp counts, which must then divide
// evenly. A failed call leaves the table unmodified.
func (t *TimeSeriesTable[E, TS]) AddTimestampsAndRows(stamps iter.Seq[TS], data iter.Seq[E], allowMissing bool) error {
	if !t.FullyStamped() {
		return fmt.Errorf("have %d timestamps for %d rows: %w", len(t.stamps), t.NumRows(), ErrTimestampsIncomplete)
	}

	tsVals := seqbuf.Collect(stamps, 8)
	if len(tsVals) == 0 {
		return fmt.Errorf("sequence produced no timestamps: %w", ErrTimestampsEmpty)
	}

	cols := t.NumColumns()
	if t.isEmpty() {
		vals := seqbuf.Collect(data, len(tsVals))
		if len(vals) == 0 {
			return fmt.Errorf("sequence produced no elements: %w", ErrZeroElements)
		}
		if len(vals)%len(tsVals) != 0 {
			return fmt.Errorf("%d elements do not divide into %d rows: %w", len(vals), len(tsVals), ErrInvalidEntry)
		}
		cols = len(vals) / len(tsVals)
		data = slices.Values(vals)
	}

	rows := t.NumRows()
	if err := t.AddRows(data, cols, allowMissing); err != nil {
		return err
	}
	if t.NumRows()-rows != len(tsVals) {
		t.truncateRows(rows, cols)
		return countErr(ErrRowCountMismatch, len(tsVals), t.NumRows()-rows)
	}
	if err := t.AddTimestamps(slices.Values(tsVals)); err != nil {
		t.truncateRows(rows, cols)
		return err
	}

	return nil
}

func (t *TimeSeriesTable[E, TS]) rollbackLastRow() {
	t.truncateRows(t.NumRows()-1, t.NumColumns())
}

func (t *TimeSeriesTable[E, TS]) truncateRows(rows, cols int) {
	if rows == 0 {
		labels := t.labelSnapshot()
		t.Table.Clear()
		t.stamps = t.stamps[:0]
		if len(labels) > 0 {
			// Clear wipes labels; a rollback must not
			_ = t.restoreShape(cols, labels)
		}
		return
	}

	_ = t.data.ResizeKeep(rows, cols, t.fill)
}

func (t *TimeSeriesTable[E, TS]) labelSnapshot() []ColumnLabel {
	var labels []ColumnLabel
	for label, col := range t.Labels() {
		labels = append(labels, ColumnLabel{Label: label, Column: col})
	}

	return labels
}

func (t *TimeSeriesTable[E, TS]) restoreShape(cols int, labels []ColumnLabel) error {
	if err := t.data.ResizeKeep(0, cols, t.fill); err != nil {
		return err
	}

	return t.SetLabels(labels)
}

// orderable reports whether ts can participate in the strictly increasing
// order. NaN compares false against everything, so it would slip past a
// require-negative guard and poison every binary search.
func orderable[TS Timestamp](ts TS) bool {
	return ts == ts
}

func (t *TimeSeriesTable[E, TS]) requireFullyStamped() error {
	switch {
	case len(t.stamps) == 0:
		return fmt.Errorf("no timestamps stored: %w", ErrTimestampsEmpty)
	case len(t.stamps) != t.NumRows():
		return fmt.Errorf("have %d timestamps for %d rows: %w", len(t.stamps), t.NumRows(), ErrTimestampsIncomplete)
	}

	return nil
}
