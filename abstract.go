package datatable

import (
	"iter"

	"github.com/hupe1980/datatable/metadata"
)

// AbstractTable is the element-type-independent surface of a table. It
// exposes shape, the column label registry, and the metadata store, so
// heterogeneous collections of tables can be inspected and relabeled without
// knowing their element types.
type AbstractTable interface {
	NumRows() int
	NumColumns() int
	HasRow(index int) bool
	HasColumn(index int) bool

	SetLabel(col int, label string) error
	SetLabels(labels []ColumnLabel) error
	Label(col int) (string, error)
	ColumnIndex(label string) (int, error)
	HasColumnLabel(label string) bool
	HasLabelAt(col int) bool
	NumLabels() int
	RenameLabel(old, newLabel string) error
	RenameLabelAt(col int, newLabel string) error
	RemoveLabel(label string) bool
	RemoveLabelAt(col int) (bool, error)
	ClearLabels()
	Labels() iter.Seq2[string, int]

	Meta() *metadata.Store

	CloneAbstract() AbstractTable
}

// CloneAbstract returns an independent deep copy behind the type-erased
// interface.
func (t *Table[E]) CloneAbstract() AbstractTable { return t.Clone() }

// CloneAbstract returns an independent deep copy behind the type-erased
// interface.
func (t *TimeSeriesTable[E, TS]) CloneAbstract() AbstractTable { return t.Clone() }

var (
	_ AbstractTable = (*Table[float64])(nil)
	_ AbstractTable = (*TimeSeriesTable[float64, float64])(nil)
)
