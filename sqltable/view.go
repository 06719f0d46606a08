package sqltable

import (
	"context"
	"database/sql"
	"strings"

	tableview "github.com/domonda/go-tableview"
)

// ScanRowsAsModel scans all rows into a RowsModel and closes them.
//
// Byte slices of text columns are converted to strings
// and decimal columns to float64 if the database type names
// are available from the rows.
// The column types are inferred from the first non nil value per column.
func ScanRowsAsModel(ctx context.Context, rows Rows) (*tableview.RowsModel, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	convert := make([]func([]byte) any, len(columns))
	if ct, ok := rows.(columnTypesRows); ok {
		if colTypes, err := ct.ColumnTypes(); err == nil {
			for i, colType := range colTypes {
				convert[i] = bytesConverter(colType.DatabaseTypeName())
			}
		}
	}

	model := tableview.NewRowsModel("", columns, nil)
	for rows.Next() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		scannedValues := make([]any, len(columns))
		valueScanners := make([]any, len(columns))
		for i := range valueScanners {
			valueScanners[i] = valueScanner{dest: &scannedValues[i], convert: convert[i]}
		}
		if err = rows.Scan(valueScanners...); err != nil {
			return nil, err
		}
		model.Rows = append(model.Rows, scannedValues)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	model.Types = tableview.InferColumnTypes(model)
	return model, nil
}

func bytesConverter(databaseTypeName string) func([]byte) any {
	switch name := strings.ToUpper(databaseTypeName); {
	case strings.Contains(name, "CHAR"), strings.Contains(name, "TEXT"),
		name == "ENUM", name == "SET", name == "JSON":
		return func(b []byte) any { return string(b) }

	case name == "DECIMAL", name == "NUMERIC":
		return func(b []byte) any {
			if f, err := tableview.DefaultParser.ParseFloat(string(b)); err == nil {
				return f
			}
			return string(b)
		}
	}
	return nil
}

var _ sql.Scanner = new(valueScanner)

type valueScanner struct {
	dest    *any
	convert func([]byte) any
}

// Scan implements the database/sql.Scanner interface.
func (s valueScanner) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		if s.convert != nil {
			*s.dest = s.convert(b)
			return nil
		}
		// Bytes are not valid after this method call
		src = append([]byte(nil), b...)
	}
	*s.dest = src
	return nil
}
