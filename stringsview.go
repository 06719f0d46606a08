package tableview

import (
	"fmt"
	"reflect"
	"strings"
)

// StringsView is a View implementation that uses strings as cell values.
//
// The Cols field defines the column names and determines the number of columns.
// A row within Rows can have fewer slice elements than Cols,
// in which case empty strings are returned as values for missing cells.
//
// Example:
//
//	view := tableview.NewStringsView(
//	    "Products",
//	    [][]string{
//	        {"ID", "Name", "Price"},
//	        {"1", "Widget", "9.99"},
//	        {"2", "Gadget", "19.99"},
//	    },
//	)
//	fmt.Println(view.Cell(0, 1)) // Output: Widget
type StringsView struct {
	Tit  string
	Cols []string
	Rows [][]string
}

var _ View = new(StringsView)

// NewStringsView returns a StringsView with the passed columns
// or uses the first row as column names if no cols are passed.
// Column names are trimmed.
func NewStringsView(title string, rows [][]string, cols ...string) *StringsView {
	if len(cols) == 0 && len(rows) > 0 {
		cols = rows[0]
		rows = rows[1:]
	}
	for i, col := range cols {
		cols[i] = strings.TrimSpace(col)
	}
	return &StringsView{Tit: title, Cols: cols, Rows: rows}
}

func (view *StringsView) Title() string     { return view.Tit }
func (view *StringsView) Columns() []string { return view.Cols }
func (view *StringsView) NumRows() int      { return len(view.Rows) }

// Cell returns the string at row and col,
// an empty string for missing cells of sparse rows,
// or nil if row or col are out of bounds.
func (view *StringsView) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(view.Rows) || col >= len(view.Cols) {
		return nil
	}
	if col >= len(view.Rows[row]) {
		return ""
	}
	return view.Rows[row][col]
}

// NewHeaderViewFrom returns a HeaderView with the title and columns of source.
func NewHeaderViewFrom(source View) *HeaderView {
	return &HeaderView{Tit: source.Title(), Cols: source.Columns()}
}

// HeaderView is a View with a single row
// containing the column names.
// Writers use it to write header rows.
type HeaderView struct {
	Tit  string
	Cols []string
}

func (view *HeaderView) Title() string     { return view.Tit }
func (view *HeaderView) Columns() []string { return view.Cols }
func (view *HeaderView) NumRows() int      { return 1 }

func (view *HeaderView) Cell(row, col int) any {
	if row != 0 || col < 0 || col >= len(view.Cols) {
		return nil
	}
	return view.Cols[col]
}

// ReadOnlyModel returns a Model for a View
// with column types inferred by InferColumnTypes.
// If view already is a Model then it is returned unchanged.
func ReadOnlyModel(view View) Model {
	if model, ok := view.(Model); ok {
		return model
	}
	return &readOnlyModel{View: view, types: InferColumnTypes(view)}
}

type readOnlyModel struct {
	View
	types []reflect.Type
}

func (m *readOnlyModel) ColumnType(col int) reflect.Type {
	if col < 0 || col >= len(m.types) {
		return nil
	}
	return m.types[col]
}

func (m *readOnlyModel) IsCellEditable(row, col int) bool { return false }

func (m *readOnlyModel) SetCell(row, col int, value any) error {
	return fmt.Errorf("%w: %s row %d column %d", ErrReadOnly, m.Title(), row, col)
}

// InferStringColumnTypes returns the most specific type
// that all non nil strings of a column can be parsed as.
// Tried in order are int64, float64, bool and time.Time,
// columns that match none of those or
// contain only nil strings are of type string.
func InferStringColumnTypes(rows [][]string, numCols int, parser Parser) []reflect.Type {
	if parser == nil {
		parser = DefaultParser
	}
	candidates := []struct {
		typ   reflect.Type
		parse func(string) error
	}{
		{typeOfInt64, func(s string) error { _, err := parser.ParseInt(s); return err }},
		{typeOfFloat64, func(s string) error { _, err := parser.ParseFloat(s); return err }},
		{typeOfBool, func(s string) error { _, err := parser.ParseBool(s); return err }},
		{typeOfTime, func(s string) error { _, err := parser.ParseTime(s); return err }},
	}
	types := make([]reflect.Type, numCols)
	for col := range types {
		types[col] = typeOfString
		hasValues := false
		matches := make([]bool, len(candidates))
		for i := range matches {
			matches[i] = true
		}
		for _, row := range rows {
			if col >= len(row) || parser.IsNil(row[col]) {
				continue
			}
			hasValues = true
			for i, c := range candidates {
				if matches[i] && c.parse(row[col]) != nil {
					matches[i] = false
				}
			}
		}
		if !hasValues {
			continue
		}
		for i, c := range candidates {
			if matches[i] {
				types[col] = c.typ
				break
			}
		}
	}
	return types
}

// NewRowsModelFromStrings returns a RowsModel with the values
// of rows converted to the column types inferred
// by InferStringColumnTypes.
func NewRowsModelFromStrings(title string, cols []string, rows [][]string, parser Parser) (*RowsModel, error) {
	if parser == nil {
		parser = DefaultParser
	}
	model := &RowsModel{
		Tit:    title,
		Cols:   cols,
		Types:  InferStringColumnTypes(rows, len(cols), parser),
		Rows:   make([][]any, len(rows)),
		Parser: parser,
	}
	for i, strs := range rows {
		row, err := model.ConvertStrings(strs)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		model.Rows[i] = row
	}
	return model, nil
}
