package htmltable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"

	tableview "github.com/domonda/go-tableview"
)

var (
	HTMLPreCellFormatter tableview.CellFormatterFunc = func(ctx context.Context, view tableview.View, row, col int) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(tableview.CellString(view.Cell(row, col)))
		return "<pre>" + value + "</pre>", true, nil
	}

	HTMLCodeCellFormatter tableview.CellFormatterFunc = func(ctx context.Context, view tableview.View, row, col int) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(tableview.CellString(view.Cell(row, col)))
		return "<code>" + value + "</code>", true, nil
	}

	_ tableview.CellFormatter = JSONCellFormatter("")
	_ tableview.CellFormatter = HTMLSpanClassCellFormatter("")
)

// JSONCellFormatter formats JSON text cells or marshals
// other values as JSON within a pre element.
// The underlying string is used as indent,
// an empty string results in compact JSON.
type JSONCellFormatter string

func (indent JSONCellFormatter) FormatCell(ctx context.Context, view tableview.View, row, col int) (str string, raw bool, err error) {
	var src []byte
	switch value := view.Cell(row, col).(type) {
	case nil:
		return "", false, nil
	case string:
		src = []byte(value)
	case []byte:
		src = value
	case json.RawMessage:
		src = value
	default:
		src, err = json.Marshal(value)
		if err != nil {
			return "", false, err
		}
	}
	if len(src) == 0 {
		return "", false, nil
	}
	buf := bytes.NewBufferString("<pre>")
	if indent == "" {
		err = json.Compact(buf, src)
	} else {
		err = json.Indent(buf, src, "", string(indent))
	}
	if err != nil {
		return "", false, err
	}
	buf.WriteString("</pre>")
	return buf.String(), true, nil
}

// HTMLSpanClassCellFormatter formats the cell value within an HTML span element
// with the class of the underlying string value.
type HTMLSpanClassCellFormatter string

func (class HTMLSpanClassCellFormatter) FormatCell(ctx context.Context, view tableview.View, row, col int) (str string, raw bool, err error) {
	text := template.HTMLEscapeString(tableview.CellString(view.Cell(row, col)))
	return fmt.Sprintf("<span class='%s'>%s</span>", template.HTMLEscapeString(string(class)), text), true, nil
}
