package datatable

import (
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// ColumnLabel pairs a label with the column index carrying it.
type ColumnLabel struct {
	Label  string
	Column int
}

// labelIndex tracks the partial column->label assignment. byLabel maps each
// label to its column; labeled marks which columns carry a label, so
// has-label checks and shrink cleanup avoid scanning the map.
type labelIndex struct {
	byLabel map[string]int
	labeled *roaring.Bitmap
}

func newLabelIndex() *labelIndex {
	return &labelIndex{
		byLabel: make(map[string]int),
		labeled: roaring.New(),
	}
}

func (li *labelIndex) clone() *labelIndex {
	c := newLabelIndex()
	for label, col := range li.byLabel {
		c.byLabel[label] = col
	}
	c.labeled = li.labeled.Clone()

	return c
}

func (li *labelIndex) clear() {
	clear(li.byLabel)
	li.labeled.Clear()
}

// dropFrom removes every label on columns at index cols or beyond.
func (li *labelIndex) dropFrom(cols int) {
	for label, col := range li.byLabel {
		if col >= cols {
			delete(li.byLabel, label)
			li.labeled.Remove(uint32(col))
		}
	}
}

// SetLabel assigns label to column col. The column must exist, must not
// already carry a label, and the label must not be in use elsewhere.
func (t *Table[E]) SetLabel(col int, label string) error {
	if !t.HasColumn(col) {
		return colErr(col)
	}
	if t.labels.labeled.Contains(uint32(col)) {
		return fmt.Errorf("column %d: %w", col, ErrColumnHasLabel)
	}
	if have, ok := t.labels.byLabel[label]; ok {
		return fmt.Errorf("label %q already names column %d: %w", label, have, ErrColumnLabelExists)
	}

	t.labels.byLabel[label] = col
	t.labels.labeled.Add(uint32(col))

	return nil
}

// SetLabels assigns a batch of labels. The whole batch is validated,
// including collisions within the batch itself, before any assignment takes
// effect: a failed call leaves the registry unmodified.
func (t *Table[E]) SetLabels(labels []ColumnLabel) error {
	if len(labels) == 0 {
		return fmt.Errorf("no labels given: %w", ErrZeroElements)
	}

	seenCols := roaring.New()
	seenLabels := make(map[string]struct{}, len(labels))
	for _, cl := range labels {
		if !t.HasColumn(cl.Column) {
			return colErr(cl.Column)
		}
		if t.labels.labeled.Contains(uint32(cl.Column)) || seenCols.Contains(uint32(cl.Column)) {
			return fmt.Errorf("column %d: %w", cl.Column, ErrColumnHasLabel)
		}
		if _, ok := t.labels.byLabel[cl.Label]; ok {
			return fmt.Errorf("label %q: %w", cl.Label, ErrColumnLabelExists)
		}
		if _, ok := seenLabels[cl.Label]; ok {
			return fmt.Errorf("label %q: %w", cl.Label, ErrColumnLabelExists)
		}
		seenCols.Add(uint32(cl.Column))
		seenLabels[cl.Label] = struct{}{}
	}

	for _, cl := range labels {
		t.labels.byLabel[cl.Label] = cl.Column
		t.labels.labeled.Add(uint32(cl.Column))
	}

	return nil
}

// Label returns the label carried by column col.
func (t *Table[E]) Label(col int) (string, error) {
	if !t.HasColumn(col) {
		return "", colErr(col)
	}
	if !t.labels.labeled.Contains(uint32(col)) {
		return "", fmt.Errorf("column %d: %w", col, ErrColumnHasNoLabel)
	}
	for label, c := range t.labels.byLabel {
		if c == col {
			return label, nil
		}
	}

	// labeled bitmap and byLabel map always move together
	return "", fmt.Errorf("column %d: %w", col, ErrColumnHasNoLabel)
}

// ColumnIndex returns the index of the column carrying label.
func (t *Table[E]) ColumnIndex(label string) (int, error) {
	col, ok := t.labels.byLabel[label]
	if !ok {
		return 0, labelErr(label)
	}

	return col, nil
}

// HasColumnLabel reports whether any column carries label.
func (t *Table[E]) HasColumnLabel(label string) bool {
	_, ok := t.labels.byLabel[label]

	return ok
}

// HasLabelAt reports whether column col carries a label. Out-of-range
// columns report false.
func (t *Table[E]) HasLabelAt(col int) bool {
	return t.HasColumn(col) && t.labels.labeled.Contains(uint32(col))
}

// NumLabels returns the number of labeled columns.
func (t *Table[E]) NumLabels() int {
	return len(t.labels.byLabel)
}

// RenameLabel reassigns the column carrying old to carry newLabel instead.
// Renaming a label to itself is a no-op.
func (t *Table[E]) RenameLabel(old, newLabel string) error {
	col, ok := t.labels.byLabel[old]
	if !ok {
		return labelErr(old)
	}
	if newLabel == old {
		return nil
	}
	if have, ok := t.labels.byLabel[newLabel]; ok {
		return fmt.Errorf("label %q already names column %d: %w", newLabel, have, ErrColumnLabelExists)
	}

	delete(t.labels.byLabel, old)
	t.labels.byLabel[newLabel] = col

	return nil
}

// RenameLabelAt replaces the label carried by column col.
func (t *Table[E]) RenameLabelAt(col int, newLabel string) error {
	old, err := t.Label(col)
	if err != nil {
		return err
	}

	return t.RenameLabel(old, newLabel)
}

// RemoveLabel removes label from the registry. It reports whether the label
// was present; removing an absent label is not an error.
func (t *Table[E]) RemoveLabel(label string) bool {
	col, ok := t.labels.byLabel[label]
	if !ok {
		return false
	}

	delete(t.labels.byLabel, label)
	t.labels.labeled.Remove(uint32(col))

	return true
}

// RemoveLabelAt removes the label carried by column col, reporting whether
// the column was labeled. The column itself must exist.
func (t *Table[E]) RemoveLabelAt(col int) (bool, error) {
	if !t.HasColumn(col) {
		return false, colErr(col)
	}
	label, err := t.Label(col)
	if err != nil {
		return false, nil
	}

	return t.RemoveLabel(label), nil
}

// ClearLabels removes all column labels.
func (t *Table[E]) ClearLabels() {
	t.labels.clear()
}

// Labels returns an iterator over (label, column) pairs. Iteration order is
// unspecified.
func (t *Table[E]) Labels() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for label, col := range t.labels.byLabel {
			if !yield(label, col) {
				return
			}
		}
	}
}
