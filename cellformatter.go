package tableview

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// CellFormatter formats the cells of a view as strings.
type CellFormatter interface {
	// FormatCell formats a cell as string
	// or returns a wrapped errors.ErrUnsupported error if
	// it doesn't support formatting the value of the cell.
	// The raw result indicates if the returned string
	// is in the raw format of the table format and can be
	// used as is or if it has to be sanitized in some way.
	FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error)
}

// CellFormatterFunc implements CellFormatter for a function.
type CellFormatterFunc func(ctx context.Context, view View, row, col int) (str string, raw bool, err error)

func (f CellFormatterFunc) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	return f(ctx, view, row, col)
}

// PrintfCellFormatter implements CellFormatter by calling
// fmt.Sprintf with this type's string value as format.
// Nil cells are not supported.
type PrintfCellFormatter string

func (format PrintfCellFormatter) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	value := Deref(view.Cell(row, col))
	if IsNil(value) {
		return "", false, errors.ErrUnsupported
	}
	return fmt.Sprintf(string(format), value), false, nil
}

// RawCellString implements CellFormatter by returning
// the underlying string as raw value.
type RawCellString string

func (rawStr RawCellString) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	return string(rawStr), true, nil
}

// LayoutFormatter formats time.Time cells with
// this type's string value as layout.
type LayoutFormatter string

func (layout LayoutFormatter) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	t, ok := Deref(view.Cell(row, col)).(time.Time)
	if !ok {
		return "", false, errors.ErrUnsupported
	}
	return t.Format(string(layout)), false, nil
}

// TypeCellFormatter selects a CellFormatter by the type of a cell value.
// Exact types are matched before kinds,
// pointers are also matched by their element type.
// If nothing matches then Default is used, or errors.ErrUnsupported returned.
//
// The With methods return modified copies.
type TypeCellFormatter struct {
	Types   map[reflect.Type]CellFormatter
	Kinds   map[reflect.Kind]CellFormatter
	Default CellFormatter
}

var _ CellFormatter = new(TypeCellFormatter)

func (f *TypeCellFormatter) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	if f == nil {
		return "", false, errors.ErrUnsupported
	}
	if err = ctx.Err(); err != nil {
		return "", false, err
	}
	for t := reflect.TypeOf(view.Cell(row, col)); t != nil; t = t.Elem() {
		if typeFmt, ok := f.Types[t]; ok {
			str, raw, err := typeFmt.FormatCell(ctx, view, row, col)
			if !errors.Is(err, errors.ErrUnsupported) {
				return str, raw, err
			}
			// Continue after errors.ErrUnsupported
		}
		if kindFmt, ok := f.Kinds[t.Kind()]; ok {
			str, raw, err := kindFmt.FormatCell(ctx, view, row, col)
			if !errors.Is(err, errors.ErrUnsupported) {
				return str, raw, err
			}
			// Continue after errors.ErrUnsupported
		}
		if t.Kind() != reflect.Pointer {
			break
		}
	}
	if f.Default != nil {
		return f.Default.FormatCell(ctx, view, row, col)
	}
	return "", false, errors.ErrUnsupported
}

func (f *TypeCellFormatter) WithTypeFormatter(typ reflect.Type, fmt CellFormatter) *TypeCellFormatter {
	mod := f.cloneOrNew()
	if mod.Types == nil {
		mod.Types = make(map[reflect.Type]CellFormatter)
	}
	mod.Types[typ] = fmt
	return mod
}

func (f *TypeCellFormatter) WithKindFormatter(kind reflect.Kind, fmt CellFormatter) *TypeCellFormatter {
	mod := f.cloneOrNew()
	if mod.Kinds == nil {
		mod.Kinds = make(map[reflect.Kind]CellFormatter)
	}
	mod.Kinds[kind] = fmt
	return mod
}

func (f *TypeCellFormatter) WithDefaultFormatter(fmt CellFormatter) *TypeCellFormatter {
	mod := f.cloneOrNew()
	mod.Default = fmt
	return mod
}

func (f *TypeCellFormatter) cloneOrNew() *TypeCellFormatter {
	if f == nil {
		return new(TypeCellFormatter)
	}
	c := &TypeCellFormatter{Default: f.Default}
	if f.Types != nil {
		c.Types = make(map[reflect.Type]CellFormatter, len(f.Types))
		for t, fmt := range f.Types {
			c.Types[t] = fmt
		}
	}
	if f.Kinds != nil {
		c.Kinds = make(map[reflect.Kind]CellFormatter, len(f.Kinds))
		for k, fmt := range f.Kinds {
			c.Kinds[k] = fmt
		}
	}
	return c
}

// FormatCellString formats a cell with formatter if not nil
// and falls back to CellString if the formatter
// doesn't support the cell value.
func FormatCellString(ctx context.Context, formatter CellFormatter, view View, row, col int) (str string, raw bool, err error) {
	if formatter != nil {
		str, raw, err = formatter.FormatCell(ctx, view, row, col)
		if !errors.Is(err, errors.ErrUnsupported) {
			return str, raw, err
		}
	}
	return CellString(view.Cell(row, col)), false, nil
}
