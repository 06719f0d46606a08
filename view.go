package tableview

import (
	"reflect"
)

// View is the read interface of a table with
// a title, named columns and rows of cells.
type View interface {
	Title() string
	Columns() []string
	NumRows() int

	// Cell returns the value of a cell or nil
	// if row or col are out of range.
	Cell(row, col int) any
}

// Model is a View that declares the value types of its columns
// and optionally allows cells to be edited.
// It is the source that a SortedView decorates.
type Model interface {
	View

	// ColumnType returns the declared type of the values
	// in the column or nil if the type is unknown.
	ColumnType(col int) reflect.Type

	IsCellEditable(row, col int) bool

	// SetCell sets the value of a cell.
	// Models that implement Notifier have to notify
	// their listeners about the change.
	SetCell(row, col int, value any) error
}

// ComparableModel is an optional interface of a Model
// that provides separate values for comparison
// when sorting, for example to sort a formatted
// display value by its underlying number.
type ComparableModel interface {
	Model

	ComparisonColumnType(col int) reflect.Type
	ComparisonCell(row, col int) any
}

// CustomSearchModel is an optional interface of a Model
// that replaces the default free text search
// that matches the string representations of all cells.
type CustomSearchModel interface {
	Model

	// IsSearchMatch returns if the source row
	// matches the passed search parameters.
	IsSearchMatch(params *SearchParams, row int) bool
}

// NumColumns returns the number of columns of a View.
func NumColumns(view View) int {
	return len(view.Columns())
}

// ColumnIndex returns the index of the column with the passed name
// or -1 if there is no such column.
func ColumnIndex(view View, name string) int {
	for i, col := range view.Columns() {
		if col == name {
			return i
		}
	}
	return -1
}
