// Package htmltable writes views as HTML tables.
package htmltable

import (
	"context"
	"errors"
	"html/template"
	"io"
	"maps"
	"reflect"

	tableview "github.com/domonda/go-tableview"
)

// Writer writes views as HTML tables.
// The With methods return modified copies.
type Writer struct {
	tableClass       string
	caption          *string
	columnFormatters map[int]tableview.CellFormatter
	typeFormatters   *tableview.TypeCellFormatter
	nilValue         template.HTML
	headerRow        bool
	headerTemplate   *template.Template
	rowTemplate      *template.Template
	footerTemplate   *template.Template
}

func NewWriter() *Writer {
	return &Writer{
		headerTemplate: HeaderTemplate,
		rowTemplate:    RowTemplate,
		footerTemplate: FooterTemplate,
	}
}

// WriteView writes the rows of view to dest in display order.
// The view title is used as caption unless the writer has a caption.
// If view is a *tableview.SortedView then the header cell
// of the sorted column gets the class "asc" or "desc".
func (w *Writer) WriteView(ctx context.Context, dest io.Writer, view tableview.View) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	columns := view.Columns()
	templData := &RowTemplateContext{
		TemplateContext: TemplateContext{
			TableClass: w.tableClass,
			Caption:    view.Title(),
			SortColumn: -1,
		},
		RawCells: make([]template.HTML, len(columns)),
	}
	if w.caption != nil {
		templData.Caption = *w.caption
	}
	if sorted, ok := view.(*tableview.SortedView); ok && sorted.IsSorted() {
		templData.SortColumn = sorted.SortColumn()
		templData.SortAscending = sorted.IsAscending()
	}

	err := w.headerTemplate.Execute(dest, templData.TemplateContext)
	if err != nil {
		return err
	}

	if w.headerRow {
		templData.IsHeaderRow = true
		for i := range columns {
			templData.RawCells[i] = template.HTML(template.HTMLEscapeString(columns[i])) //#nosec G203
		}
		if err = w.rowTemplate.Execute(dest, templData); err != nil {
			return err
		}
		templData.IsHeaderRow = false
		templData.RowIndex++
	}

	for row, numRows := 0, view.NumRows(); row < numRows; row++ {
		for col := range columns {
			templData.RawCells[col], err = w.cellHTML(ctx, view, row, col)
			if err != nil {
				return err
			}
		}
		if err = w.rowTemplate.Execute(dest, templData); err != nil {
			return err
		}
		templData.RowIndex++
	}

	return w.footerTemplate.Execute(dest, templData.TemplateContext)
}

func (w *Writer) cellHTML(ctx context.Context, view tableview.View, row, col int) (template.HTML, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if colFormatter, ok := w.columnFormatters[col]; ok {
		str, isRaw, err := colFormatter.FormatCell(ctx, view, row, col)
		if err == nil {
			return escape(str, isRaw), nil
		}
		if !errors.Is(err, errors.ErrUnsupported) {
			return "", err
		}
	}
	str, isRaw, err := w.typeFormatters.FormatCell(ctx, view, row, col)
	if err == nil {
		return escape(str, isRaw), nil
	}
	if !errors.Is(err, errors.ErrUnsupported) {
		return "", err
	}
	if tableview.IsNil(view.Cell(row, col)) {
		return w.nilValue, nil
	}
	return escape(tableview.CellString(view.Cell(row, col)), false), nil
}

func escape(str string, isRaw bool) template.HTML {
	if !isRaw {
		str = template.HTMLEscapeString(str)
	}
	return template.HTML(str) //#nosec G203
}

func (w *Writer) clone() *Writer {
	c := *w
	c.columnFormatters = maps.Clone(w.columnFormatters)
	return &c
}

func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

func (w *Writer) WithTableClass(tableClass string) *Writer {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithCaption returns a writer using caption instead of the view title.
func (w *Writer) WithCaption(caption string) *Writer {
	mod := w.clone()
	mod.caption = &caption
	return mod
}

// WithColumnFormatter returns a new writer with the passed formatter registered for columnIndex.
// If nil is passed as formatter, then a previous registered column formatter is removed.
func (w *Writer) WithColumnFormatter(columnIndex int, formatter tableview.CellFormatter) *Writer {
	mod := w.clone()
	if mod.columnFormatters == nil {
		mod.columnFormatters = make(map[int]tableview.CellFormatter)
	}
	if formatter != nil {
		mod.columnFormatters[columnIndex] = formatter
	} else {
		delete(mod.columnFormatters, columnIndex)
	}
	return mod
}

func (w *Writer) WithTypeFormatters(formatter *tableview.TypeCellFormatter) *Writer {
	mod := w.clone()
	mod.typeFormatters = formatter
	return mod
}

func (w *Writer) WithTypeFormatter(typ reflect.Type, fmt tableview.CellFormatter) *Writer {
	mod := w.clone()
	mod.typeFormatters = w.typeFormatters.WithTypeFormatter(typ, fmt)
	return mod
}

func (w *Writer) WithKindFormatter(kind reflect.Kind, fmt tableview.CellFormatter) *Writer {
	mod := w.clone()
	mod.typeFormatters = w.typeFormatters.WithKindFormatter(kind, fmt)
	return mod
}

func (w *Writer) WithNilValue(nilValue template.HTML) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

func (w *Writer) WithTemplate(headerTemplate, rowTemplate, footerTemplate *template.Template) *Writer {
	mod := w.clone()
	mod.headerTemplate = headerTemplate
	mod.rowTemplate = rowTemplate
	mod.footerTemplate = footerTemplate
	return mod
}

func (w *Writer) TableClass() string {
	return w.tableClass
}

func (w *Writer) NilValue() template.HTML {
	return w.nilValue
}
