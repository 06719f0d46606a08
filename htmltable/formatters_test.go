package htmltable

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	tableview "github.com/domonda/go-tableview"
)

func singleCell(value any) tableview.View {
	return &tableview.RowsModel{Cols: []string{"A"}, Rows: [][]any{{value}}}
}

func TestJSONCellFormatter_FormatCell(t *testing.T) {
	tests := []struct {
		name    string
		fmt     JSONCellFormatter
		view    tableview.View
		wantStr string
		wantRaw bool
		wantErr bool
	}{
		{name: "empty nil", fmt: ``, view: singleCell(nil), wantStr: ``},
		{name: "empty string", fmt: ``, view: singleCell(""), wantStr: ``},
		{name: "empty nil pointer", fmt: ``, view: singleCell((*int)(nil)), wantStr: `<pre>null</pre>`, wantRaw: true},
		{name: "compact string JSON", fmt: ``, view: singleCell(`{"1": 1}`), wantStr: `<pre>{"1":1}</pre>`, wantRaw: true},
		{name: "compact []byte JSON", fmt: ``, view: singleCell([]byte(`{"1": 1}`)), wantStr: `<pre>{"1":1}</pre>`, wantRaw: true},
		{name: "compact RawMessage JSON", fmt: ``, view: singleCell(json.RawMessage(`{"1": 1}`)), wantStr: `<pre>{"1":1}</pre>`, wantRaw: true},
		{name: "indented map", fmt: `  `, view: singleCell(map[string]int{"a": 1}), wantStr: "<pre>{\n  \"a\": 1\n}</pre>", wantRaw: true},
		{name: "invalid JSON", fmt: ``, view: singleCell(`{`), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str, raw, err := tt.fmt.FormatCell(context.Background(), tt.view, 0, 0)
			require.Equal(t, tt.wantErr, err != nil, "err result: %v", err)
			require.Equal(t, tt.wantStr, str, "str result")
			require.Equal(t, tt.wantRaw, raw, "raw result")
		})
	}
}

func TestHTMLSpanClassCellFormatter(t *testing.T) {
	str, raw, err := HTMLSpanClassCellFormatter("warn").FormatCell(context.Background(), singleCell("<b>"), 0, 0)
	require.NoError(t, err)
	require.True(t, raw)
	require.Equal(t, "<span class='warn'>&lt;b&gt;</span>", str)
}
