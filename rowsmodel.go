package tableview

import (
	"fmt"
	"reflect"
	"slices"
)

var (
	_ Model    = new(RowsModel)
	_ Notifier = new(RowsModel)
)

// RowsModel is a mutable in-memory Model
// that holds its rows as slices of values with any type
// and notifies its listeners about changes.
//
// Values set with SetCell are converted to
// the column type declared in Types using SmartAssign.
// RowsModel is not safe for concurrent use.
type RowsModel struct {
	Tit   string
	Cols  []string
	Types []reflect.Type
	Rows  [][]any

	// Editable decides if a cell can be edited.
	// If nil then all cells are editable.
	Editable func(row, col int) bool

	// Parser is used to convert strings to column types,
	// DefaultParser is used if nil.
	Parser Parser

	listeners Listeners
}

// NewRowsModel returns an empty RowsModel.
// types may be nil or contain nil for columns with unknown type.
func NewRowsModel(title string, cols []string, types []reflect.Type) *RowsModel {
	return &RowsModel{Tit: title, Cols: cols, Types: types}
}

// NewRowsModelFrom reads and caches all cells of the source View.
// Column types are taken from source if it is a Model,
// or else inferred from the first non nil value of every column.
func NewRowsModelFrom(source View) *RowsModel {
	m := &RowsModel{
		Tit:  source.Title(),
		Cols: slices.Clone(source.Columns()),
		Rows: make([][]any, source.NumRows()),
	}
	for row := range m.Rows {
		m.Rows[row] = make([]any, len(m.Cols))
		for col := range m.Rows[row] {
			m.Rows[row][col] = source.Cell(row, col)
		}
	}
	if model, ok := source.(Model); ok {
		m.Types = make([]reflect.Type, len(m.Cols))
		for col := range m.Types {
			m.Types[col] = model.ColumnType(col)
		}
	} else {
		m.Types = InferColumnTypes(source)
	}
	return m
}

func (m *RowsModel) Title() string     { return m.Tit }
func (m *RowsModel) Columns() []string { return m.Cols }
func (m *RowsModel) NumRows() int      { return len(m.Rows) }

func (m *RowsModel) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(m.Rows) || col >= len(m.Rows[row]) {
		return nil
	}
	return m.Rows[row][col]
}

func (m *RowsModel) ColumnType(col int) reflect.Type {
	if col < 0 || col >= len(m.Types) {
		return nil
	}
	return m.Types[col]
}

func (m *RowsModel) IsCellEditable(row, col int) bool {
	if row < 0 || col < 0 || row >= len(m.Rows) || col >= len(m.Cols) {
		return false
	}
	return m.Editable == nil || m.Editable(row, col)
}

// SetCell converts value to the type of the column,
// sets it and notifies listeners with a DataChanged event.
func (m *RowsModel) SetCell(row, col int, value any) error {
	if row < 0 || row >= len(m.Rows) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	if col < 0 || col >= len(m.Cols) {
		return fmt.Errorf("%w: %d", ErrColumnOutOfRange, col)
	}
	if !m.IsCellEditable(row, col) {
		return fmt.Errorf("%w: row %d, column %q", ErrReadOnly, row, m.Cols[col])
	}
	value, err := ConvertTo(value, m.ColumnType(col), m.Parser)
	if err != nil {
		return fmt.Errorf("column %q: %w", m.Cols[col], err)
	}
	if len(m.Rows[row]) < len(m.Cols) {
		m.Rows[row] = append(m.Rows[row], make([]any, len(m.Cols)-len(m.Rows[row]))...)
	}
	m.Rows[row][col] = value
	m.listeners.Notify(NewDataChangedEvent(m, row, col))
	return nil
}

// AppendRows appends rows and notifies listeners
// with a StructureChanged event.
func (m *RowsModel) AppendRows(rows ...[]any) {
	if len(rows) == 0 {
		return
	}
	first := len(m.Rows)
	m.Rows = append(m.Rows, rows...)
	m.listeners.Notify(ChangeEvent{Source: m, Kind: StructureChanged, FirstRow: first, LastRow: len(m.Rows) - 1, Column: AllColumns})
}

// AppendStrings converts the strings to the column types
// and appends them as row.
func (m *RowsModel) AppendStrings(strs ...[]string) error {
	rows := make([][]any, len(strs))
	for i, str := range strs {
		row, err := m.ConvertStrings(str)
		if err != nil {
			return err
		}
		rows[i] = row
	}
	m.AppendRows(rows...)
	return nil
}

// ConvertStrings converts the strings to the column types
// without appending them, for batching rows with AppendRows.
func (m *RowsModel) ConvertStrings(strs []string) ([]any, error) {
	row := make([]any, len(m.Cols))
	for col := range row {
		if col >= len(strs) {
			break
		}
		val, err := ConvertTo(strs[col], m.ColumnType(col), m.Parser)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", m.Cols[col], err)
		}
		row[col] = val
	}
	return row, nil
}

// RemoveRow removes a row and notifies listeners
// with a StructureChanged event.
func (m *RowsModel) RemoveRow(row int) error {
	if row < 0 || row >= len(m.Rows) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	m.Rows = slices.Delete(m.Rows, row, row+1)
	m.listeners.Notify(ChangeEvent{Source: m, Kind: StructureChanged, FirstRow: row, LastRow: row, Column: AllColumns})
	return nil
}

// SetRows replaces all rows and notifies listeners
// with a StructureChanged event.
func (m *RowsModel) SetRows(rows [][]any) {
	m.Rows = rows
	m.listeners.Notify(NewStructureChangedEvent(m))
}

// SetColumns replaces the columns and their types
// and notifies listeners with a StructureChanged event.
// Rows with more cells than columns are truncated.
func (m *RowsModel) SetColumns(cols []string, types []reflect.Type) {
	m.Cols = cols
	m.Types = types
	for i, row := range m.Rows {
		if len(row) > len(cols) {
			m.Rows[i] = row[:len(cols)]
		}
	}
	m.listeners.Notify(NewStructureChangedEvent(m))
}

func (m *RowsModel) AddListener(listener Listener) (remove func()) {
	return m.listeners.AddListener(listener)
}

// FireTableChanged notifies all listeners about an event.
// Use it after modifying Rows directly.
func (m *RowsModel) FireTableChanged(event ChangeEvent) {
	if event.Source == nil {
		event.Source = m
	}
	m.listeners.Notify(event)
}

// InferColumnTypes returns for every column of view
// the type of the first non nil value,
// or nil if the column has only nil values.
func InferColumnTypes(view View) []reflect.Type {
	types := make([]reflect.Type, NumColumns(view))
	for col := range types {
		for row := 0; row < view.NumRows(); row++ {
			if v := view.Cell(row, col); !IsNil(v) {
				types[col] = reflect.TypeOf(v)
				break
			}
		}
	}
	return types
}
