package datatable

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the datatable package. Every violated
// precondition fails synchronously at the point of detection and is
// recoverable by the caller. Context is added with fmt.Errorf("%w"), so
// callers match with errors.Is.
var (
	// ErrRowDoesNotExist is returned when a row index is outside the current
	// bounds.
	ErrRowDoesNotExist = errors.New("row does not exist")

	// ErrColumnDoesNotExist is returned when a column index is outside the
	// current bounds, or a column label is unknown.
	ErrColumnDoesNotExist = errors.New("column does not exist")

	// ErrColumnHasLabel is returned when labeling a column that is already
	// labeled.
	ErrColumnHasLabel = errors.New("column already has a label")

	// ErrColumnHasNoLabel is returned when a label is requested for an
	// unlabeled column.
	ErrColumnHasNoLabel = errors.New("column has no label")

	// ErrColumnLabelExists is returned when a label is already in use by
	// another column. Labels are unique across the whole table.
	ErrColumnLabelExists = errors.New("column label exists")

	// ErrZeroElements is returned when a producer sequence or fixed-size
	// input yields no elements.
	ErrZeroElements = errors.New("zero elements")

	// ErrNotEnoughElements is returned when a producer sequence fills the
	// final row or column only partially and missing values are disallowed.
	ErrNotEnoughElements = errors.New("not enough elements")

	// ErrTooManyElements is returned when a producer sequence yields more
	// elements than the declared shape can hold.
	ErrTooManyElements = errors.New("too many elements")

	// ErrRowCountMismatch is returned when an input's row count disagrees
	// with the table's.
	ErrRowCountMismatch = errors.New("number of rows mismatch")

	// ErrColumnCountMismatch is returned when an input's column count
	// disagrees with the table's.
	ErrColumnCountMismatch = errors.New("number of columns mismatch")

	// ErrInvalidEntry is returned when a caller supplies a structurally
	// invalid argument, e.g. a zero size hint on an empty table or a
	// self-concatenation.
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrEmptyTable is returned when row or column iteration is requested on
	// a 0x0 table.
	ErrEmptyTable = errors.New("empty table")
)

// Time-series sentinel errors.
var (
	// ErrZeroRows is returned when a timestamp is added to a table without
	// rows.
	ErrZeroRows = errors.New("table has zero rows")

	// ErrTimestampsEmpty is returned when a timestamp lookup is attempted
	// and no timestamps exist.
	ErrTimestampsEmpty = errors.New("timestamps empty")

	// ErrTimestampsIncomplete is returned when an operation requires every
	// row to carry a timestamp and some rows do not.
	ErrTimestampsIncomplete = errors.New("timestamps incomplete")

	// ErrTimestampNotFound is returned when a timestamp lookup has no
	// admissible result.
	ErrTimestampNotFound = errors.New("timestamp does not exist")

	// ErrTimestampOrder is returned when a timestamp mutation would break
	// the strictly increasing order.
	ErrTimestampOrder = errors.New("timestamp breaks increasing order")

	// ErrTimestampsFull is returned when a timestamp is added to a fully
	// stamped table.
	ErrTimestampsFull = errors.New("timestamps column full")
)

func rowErr(index int) error {
	return fmt.Errorf("row %d: %w", index, ErrRowDoesNotExist)
}

func colErr(index int) error {
	return fmt.Errorf("column %d: %w", index, ErrColumnDoesNotExist)
}

func labelErr(label string) error {
	return fmt.Errorf("label %q: %w", label, ErrColumnDoesNotExist)
}

func countErr(sentinel error, expected, received int) error {
	return fmt.Errorf("expected %d, received %d: %w", expected, received, sentinel)
}
