package csvtable

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	tableview "github.com/domonda/go-tableview"
)

func TestWriter_WriteView(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		writer   *Writer
		view     tableview.View
		wantDest string
		wantErr  bool
	}{
		{
			name:     "empty view",
			writer:   NewWriter(),
			view:     &tableview.RowsModel{},
			wantDest: ``,
		},
		{
			name: "simple",
			writer: NewWriter().
				WithHeaderRow(true),
			view: &tableview.RowsModel{
				Cols: []string{"A", "B", "C"},
				Rows: [][]any{
					{1, "Hello", nil},
					{2, "world!", new(float64)},
				},
			},
			wantDest: "" +
				`A;B;C` + "\r\n" +
				`1;Hello;` + "\r\n" +
				`2;world!;0` + "\r\n",
		},
		{
			name: "simple no header",
			writer: NewWriter().
				WithHeaderRow(true).
				WithHeaderRow(false),
			view: &tableview.RowsModel{
				Cols: []string{"A", "B", "C"},
				Rows: [][]any{
					{1, "Hello", nil},
					{2, "world!", new(float64)},
				},
			},
			wantDest: "" +
				`1;Hello;` + "\r\n" +
				`2;world!;0` + "\r\n",
		},
		{
			name: "simple padded align left",
			writer: NewWriter().
				WithHeaderRow(true).
				WithDelimiter('|').
				WithPadding(AlignLeft),
			view: &tableview.RowsModel{
				Cols: []string{"A", "B", "Blah"},
				Rows: [][]any{
					{1, "Hello", nil},
					{123, "world!", new(float64)},
				},
			},
			wantDest: "" +
				`A  |B     |Blah` + "\r\n" +
				`1  |Hello |    ` + "\r\n" +
				`123|world!|0   ` + "\r\n",
		},
		{
			name: "simple padded align center",
			writer: NewWriter().
				WithHeaderRow(true).
				WithDelimiter('|').
				WithPadding(AlignCenter),
			view: &tableview.RowsModel{
				Cols: []string{"A", "B", "Blah"},
				Rows: [][]any{
					{1, "Hello", nil},
					{123, "world!", new(float64)},
				},
			},
			wantDest: "" +
				` A |  B   |Blah` + "\r\n" +
				` 1 |Hello |    ` + "\r\n" +
				`123|world!| 0  ` + "\r\n",
		},
		{
			name: "simple padded align right",
			writer: NewWriter().
				WithHeaderRow(true).
				WithDelimiter('|').
				WithPadding(AlignRight),
			view: &tableview.RowsModel{
				Cols: []string{"A", "B", "Blah"},
				Rows: [][]any{
					{1, "Hello", nil},
					{123, "world!", new(float64)},
				},
			},
			wantDest: "" +
				`  A|     B|Blah` + "\r\n" +
				`  1| Hello|    ` + "\r\n" +
				`123|world!|   0` + "\r\n",
		},
		{
			name: "command and quoted fields",
			writer: NewWriter().
				WithHeaderRow(true).
				WithDelimiter(',').
				WithQuoteAllFields(true),
			view: &tableview.RowsModel{
				Cols: []string{" A ", "B", "C"},
				Rows: [][]any{
					{1, "Hello", nil},
					{2, "world!", new(float64)},
				},
			},
			wantDest: "" +
				`" A ","B","C"` + "\r\n" +
				`"1","Hello",""` + "\r\n" +
				`"2","world!","0"` + "\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dest bytes.Buffer
			err := tt.writer.WriteView(ctx, &dest, tt.view)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantDest, dest.String())
		})
	}
}

func TestWriter_SortedView(t *testing.T) {
	model := &tableview.RowsModel{
		Cols: []string{"Name", "Date", "Note"},
		Rows: [][]any{
			{"b", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "x;y"},
			{"a", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil},
			{"c", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "multi\r\nline"},
		},
	}
	view := tableview.NewSortedView(model)
	view.Sort(0, false)

	writer := NewWriter().
		WithHeaderRow(true).
		WithNilValue("-").
		WithTypeFormatter(reflect.TypeOf(time.Time{}), tableview.LayoutFormatter(time.DateOnly)).
		WithColumnFormatter(0, tableview.CellFormatterFunc(
			func(ctx context.Context, view tableview.View, row, col int) (string, bool, error) {
				return strings.ToUpper(view.Cell(row, col).(string)), false, nil
			},
		))

	var dest bytes.Buffer
	require.NoError(t, writer.WriteView(context.Background(), &dest, view))
	require.Equal(t, ""+
		"NAME;Date;Note\r\n"+
		"C;2024-03-01;\"multi\nline\"\r\n"+
		"B;2024-02-01;\"x;y\"\r\n"+
		"A;2024-01-01;-\r\n",
		dest.String(),
	)

	upper := writer.WithEncoder(EncoderFunc(func(data []byte) ([]byte, error) {
		return bytes.ToLower(data), nil
	}))
	dest.Reset()
	require.NoError(t, upper.WriteView(context.Background(), &dest, view))
	require.True(t, strings.HasPrefix(dest.String(), "name;date;note\r\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, writer.WriteView(ctx, &dest, view), context.Canceled)
}

func TestNewWriterForFormat(t *testing.T) {
	w, err := NewWriterForFormat(NewFormat(","))
	require.NoError(t, err)
	require.Equal(t, ',', w.Delimiter())
	require.Equal(t, "\r\n", w.NewLine())

	_, err = NewWriterForFormat(&Format{Encoding: "UTF-8", Separator: ";;", Newline: "\n"})
	require.Error(t, err)
}
