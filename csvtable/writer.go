package csvtable

import (
	"bytes"
	"context"
	"errors"
	"io"
	"maps"
	"reflect"
	"strings"
	"unicode/utf8"

	tableview "github.com/domonda/go-tableview"
)

// Encoder encodes the bytes of a written row.
type Encoder interface {
	Bytes([]byte) ([]byte, error)
}

// EncoderFunc implements the Encoder interface for a function.
type EncoderFunc func([]byte) ([]byte, error)

func (f EncoderFunc) Bytes(data []byte) ([]byte, error) {
	return f(data)
}

type Padding int

const (
	NoPadding Padding = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// Writer writes views as CSV.
// The With methods return modified copies.
type Writer struct {
	columnFormatters map[int]tableview.CellFormatter
	formatters       *tableview.TypeCellFormatter
	padding          Padding
	headerRow        bool
	quoteAllFields   bool
	quoteEmptyFields bool
	escapeQuotes     string
	nilValue         string
	delimiter        rune
	newLine          string
	encoder          Encoder
}

// NewWriter returns a Writer using ';' as delimiter
// and "\r\n" as newline without a header row.
func NewWriter() *Writer {
	return &Writer{
		escapeQuotes: `""`,
		delimiter:    ';',
		newLine:      "\r\n",
	}
}

// NewWriterForFormat returns a Writer with a header row
// using the separator and newline of format.
func NewWriterForFormat(format *Format) (*Writer, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	w := NewWriter()
	w.headerRow = true
	w.delimiter, _ = utf8.DecodeRuneInString(format.Separator)
	w.newLine = format.Newline
	return w, nil
}

func (w *Writer) clone() *Writer {
	c := *w
	c.columnFormatters = maps.Clone(w.columnFormatters)
	return &c
}

// WriteView writes the rows of view to dest in display order.
func (w *Writer) WriteView(ctx context.Context, dest io.Writer, view tableview.View) error {
	rows, err := w.ViewStrings(ctx, view)
	if err != nil {
		return err
	}
	var widths []int
	if w.padding != NoPadding {
		widths = tableview.StringColumnWidths(rows, tableview.NumColumns(view))
	}
	rowBuf := bytes.NewBuffer(make([]byte, 0, 1024))
	for _, row := range rows {
		rowBuf.Reset()
		for col, str := range row {
			if col > 0 {
				rowBuf.WriteRune(w.delimiter)
			}
			if widths == nil {
				rowBuf.WriteString(str)
				continue
			}
			padLeft, padRight := w.pad(widths[col] - utf8.RuneCountInString(str))
			rowBuf.WriteString(strings.Repeat(" ", padLeft))
			rowBuf.WriteString(str)
			rowBuf.WriteString(strings.Repeat(" ", padRight))
		}
		rowBuf.WriteString(w.newLine)

		data := rowBuf.Bytes()
		if w.encoder != nil {
			if data, err = w.encoder.Bytes(data); err != nil {
				return err
			}
		}
		if _, err = dest.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) pad(total int) (left, right int) {
	switch w.padding {
	case AlignLeft:
		return 0, total
	case AlignRight:
		return total, 0
	case AlignCenter:
		return total / 2, (total + 1) / 2
	}
	return 0, 0
}

// ViewStrings returns the escaped cell strings of view
// with the column titles as first row if the writer has a header row.
func (w *Writer) ViewStrings(ctx context.Context, view tableview.View) ([][]string, error) {
	numRows := view.NumRows()
	rows := make([][]string, 0, numRows+1)
	if w.headerRow {
		header, err := w.rowStrings(ctx, tableview.NewHeaderViewFrom(view), 0)
		if err != nil {
			return nil, err
		}
		rows = append(rows, header)
	}
	for row := 0; row < numRows; row++ {
		rowStrs, err := w.rowStrings(ctx, view, row)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rowStrs)
	}
	return rows, nil
}

func (w *Writer) rowStrings(ctx context.Context, view tableview.View, row int) ([]string, error) {
	rowStrs := make([]string, tableview.NumColumns(view))
	for col := range rowStrs {
		var err error
		rowStrs[col], err = w.cellString(ctx, view, row, col)
		if err != nil {
			return nil, err
		}
	}
	return rowStrs, nil
}

func (w *Writer) cellString(ctx context.Context, view tableview.View, row, col int) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if colFormatter, ok := w.columnFormatters[col]; ok {
		str, isRaw, err := colFormatter.FormatCell(ctx, view, row, col)
		if err == nil {
			return w.escapeString(str, isRaw), nil
		}
		if !errors.Is(err, errors.ErrUnsupported) {
			return "", err
		}
	}
	if tableview.IsNil(view.Cell(row, col)) {
		return w.escapeString(w.nilValue, false), nil
	}
	str, isRaw, err := tableview.FormatCellString(ctx, w.formatters, view, row, col)
	if err != nil {
		return "", err
	}
	return w.escapeString(str, isRaw), nil
}

func (w *Writer) escapeString(str string, isRaw bool) string {
	if isRaw {
		return str
	}
	// \n alone is valid within quotes
	str = strings.ReplaceAll(str, "\r", "")
	switch {
	case w.quoteAllFields || strings.ContainsRune(str, w.delimiter) || strings.ContainsRune(str, '\n'):
		return `"` + strings.ReplaceAll(str, `"`, w.escapeQuotes) + `"`
	case w.quoteEmptyFields && str == "":
		return `""`
	}
	return strings.ReplaceAll(str, `"`, w.escapeQuotes)
}

func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
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
	mod.formatters = formatter
	return mod
}

func (w *Writer) WithTypeFormatter(typ reflect.Type, fmt tableview.CellFormatter) *Writer {
	mod := w.clone()
	mod.formatters = w.formatters.WithTypeFormatter(typ, fmt)
	return mod
}

func (w *Writer) WithKindFormatter(kind reflect.Kind, fmt tableview.CellFormatter) *Writer {
	mod := w.clone()
	mod.formatters = w.formatters.WithKindFormatter(kind, fmt)
	return mod
}

func (w *Writer) WithPadding(padding Padding) *Writer {
	mod := w.clone()
	mod.padding = padding
	return mod
}

func (w *Writer) WithQuoteAllFields(quoteAllFields bool) *Writer {
	mod := w.clone()
	mod.quoteAllFields = quoteAllFields
	return mod
}

func (w *Writer) WithQuoteEmptyFields(quoteEmptyFields bool) *Writer {
	mod := w.clone()
	mod.quoteEmptyFields = quoteEmptyFields
	return mod
}

func (w *Writer) WithNilValue(nilValue string) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

func (w *Writer) WithEscapeQuotes(escapeQuotes string) *Writer {
	mod := w.clone()
	mod.escapeQuotes = escapeQuotes
	return mod
}

func (w *Writer) WithDelimiter(delimiter rune) *Writer {
	mod := w.clone()
	mod.delimiter = delimiter
	return mod
}

func (w *Writer) WithNewLine(newLine string) *Writer {
	mod := w.clone()
	mod.newLine = newLine
	return mod
}

func (w *Writer) WithEncoder(encoder Encoder) *Writer {
	mod := w.clone()
	mod.encoder = encoder
	return mod
}

func (w *Writer) Delimiter() rune     { return w.delimiter }
func (w *Writer) NewLine() string     { return w.newLine }
func (w *Writer) NilValue() string    { return w.nilValue }
func (w *Writer) EscapeQuotes() string { return w.escapeQuotes }
