package tableview

import "errors"

var (
	// ErrRowOutOfRange is returned for row indices
	// that don't address a row of a table.
	ErrRowOutOfRange = errors.New("row index out of range")

	// ErrColumnOutOfRange is returned for column indices
	// that don't address a column of a table.
	ErrColumnOutOfRange = errors.New("column index out of range")

	// ErrReadOnly is returned when setting cells
	// that are not editable.
	ErrReadOnly = errors.New("cell is read-only")
)
