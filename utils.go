package tableview

import (
	"database/sql/driver"
	"reflect"
	"strings"
)

// ValueIsNil return true if passed reflect.Value
// is not valid, nil (of a type that can be nil),
// or is of type struct{}
func ValueIsNil(val reflect.Value) bool {
	if !val.IsValid() {
		return true
	}
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return val.IsNil()
	case reflect.Struct:
		if t := val.Type(); t.NumField() == 0 && t.NumMethod() == 0 {
			// Treat a value of type struct{} like nil
			return true
		}
	}
	return false
}

// IsNil returns true if value is nil, a nil value of a type that can be nil,
// a struct{}, implements interface{ IsNull() bool } returning true,
// or is a driver.Valuer returning a nil value like sql.NullString.
func IsNil(value any) bool {
	if ValueIsNil(reflect.ValueOf(value)) {
		return true
	}
	switch x := value.(type) {
	case interface{ IsNull() bool }:
		return x.IsNull()
	case driver.Valuer:
		v, err := x.Value()
		return err == nil && v == nil
	}
	return false
}

// Deref returns the value pointed to if value is a non nil pointer,
// nil for a nil pointer, or else value unchanged.
func Deref(value any) any {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

// RemoveEmptyStringRows removes all rows
// where all cells are empty or contain only whitespace.
func RemoveEmptyStringRows(rows [][]string) [][]string {
	result := rows[:0]
	for _, row := range rows {
		if !isEmptyStringRow(row) {
			result = append(result, row)
		}
	}
	return result
}

func isEmptyStringRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// RemoveEmptyStringColumns removes all trailing columns
// that are empty or contain only whitespace in every row.
// Rows are truncated to the resulting number of columns.
func RemoveEmptyStringColumns(rows [][]string) (numCols int) {
	for _, row := range rows {
		for col := len(row) - 1; col >= numCols; col-- {
			if strings.TrimSpace(row[col]) != "" {
				numCols = col + 1
				break
			}
		}
	}
	for i, row := range rows {
		if len(row) > numCols {
			rows[i] = row[:numCols]
		}
	}
	return numCols
}
