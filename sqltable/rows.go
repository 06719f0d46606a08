package sqltable

import "database/sql"

var (
	_ Rows            = &sql.Rows{}
	_ columnTypesRows = &sql.Rows{}
)

// Rows is implemented by *sql.Rows.
type Rows interface {
	Columns() ([]string, error)
	Scan(dest ...any) error
	Close() error
	Next() bool
	Err() error
}

// columnTypesRows is optionally implemented by Rows
// to provide database type names for the scanned columns.
type columnTypesRows interface {
	ColumnTypes() ([]*sql.ColumnType, error)
}
