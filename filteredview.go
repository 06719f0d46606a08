package tableview

import (
	"fmt"
)

var _ View = new(FilteredView)

// FilteredView is a window of rows and a selection
// of columns of a Source view.
type FilteredView struct {
	Source View
	// Offset index of the first row from Source, must be positive.
	RowOffset int
	// Limits the number of rows, only used if > 0.
	RowLimit int
	// If not nil then the view has as many
	// columns as ColumnMapping has elements and
	// every element is a column index into the Source view.
	// If nil then the view has as many columns as the Source view.
	ColumnMapping []int
}

// NewColumnsView returns a FilteredView with the named columns of source.
func NewColumnsView(source View, columns ...string) (*FilteredView, error) {
	mapping, err := ColumnMapping(source, columns...)
	if err != nil {
		return nil, err
	}
	return &FilteredView{Source: source, ColumnMapping: mapping}, nil
}

// ColumnMapping returns the indices of the named columns of view.
func ColumnMapping(view View, columns ...string) ([]int, error) {
	mapping := make([]int, len(columns))
	for i, name := range columns {
		mapping[i] = ColumnIndex(view, name)
		if mapping[i] == -1 {
			return nil, fmt.Errorf("column %q not found in %q", name, view.Title())
		}
	}
	return mapping, nil
}

func (view *FilteredView) Title() string {
	return view.Source.Title()
}

func (view *FilteredView) Columns() []string {
	sourceCols := view.Source.Columns()
	if view.ColumnMapping == nil {
		return sourceCols
	}
	mappedCols := make([]string, len(view.ColumnMapping))
	for i, iSource := range view.ColumnMapping {
		mappedCols[i] = sourceCols[iSource]
	}
	return mappedCols
}

func (view *FilteredView) NumCols() int {
	if view.ColumnMapping != nil {
		return len(view.ColumnMapping)
	}
	return len(view.Source.Columns())
}

func (view *FilteredView) NumRows() int {
	n := view.Source.NumRows() - max(view.RowOffset, 0)
	if n < 0 {
		return 0
	}
	if view.RowLimit > 0 && n > view.RowLimit {
		return view.RowLimit
	}
	return n
}

func (view *FilteredView) Cell(row, col int) any {
	numRows := view.NumRows()
	numCols := view.NumCols()
	if row < 0 || col < 0 || row >= numRows || col >= numCols {
		return nil
	}
	row += max(view.RowOffset, 0)
	if view.ColumnMapping != nil {
		col = view.ColumnMapping[col]
	}
	return view.Source.Cell(row, col)
}
