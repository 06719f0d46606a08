package csvtable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	fs "github.com/ungerik/go-fs"

	tableview "github.com/domonda/go-tableview"
)

func TestParseDetectFormat(t *testing.T) {
	tests := []struct {
		name       string
		csv        string
		wantSep    string
		wantNewine string
		wantRows   [][]string
	}{
		{
			name:       "semicolon CRLF",
			csv:        "Name;Größe\r\nJohn;30\r\n",
			wantSep:    ";",
			wantNewine: "\r\n",
			wantRows:   [][]string{{"Name", "Größe"}, {"John", "30"}, nil},
		},
		{
			name:       "sep header",
			csv:        "sep=,\na;b,c\n1,2",
			wantSep:    ",",
			wantNewine: "\n",
			wantRows:   [][]string{{"a;b", "c"}, {"1", "2"}},
		},
		{
			name:       "tabs",
			csv:        "a\tb\tc\n1\t2\t3",
			wantSep:    "\t",
			wantNewine: "\n",
			wantRows:   [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			name:       "quoted separator",
			csv:        "\"a;b\";c\nx;y",
			wantSep:    ";",
			wantNewine: "\n",
			wantRows:   [][]string{{"a;b", "c"}, {"x", "y"}},
		},
		{
			name:       "escaped quotes",
			csv:        "\"say \"\"hi\"\"\";x\n\"\"\"quoted\"\"\";y",
			wantSep:    ";",
			wantNewine: "\n",
			wantRows:   [][]string{{`say "hi"`, "x"}, {`"quoted"`, "y"}},
		},
		{
			name:       "multi-line field",
			csv:        "A;B\n\"line1\nline2\";x\n",
			wantSep:    ";",
			wantNewine: "\n",
			wantRows:   [][]string{{"A", "B"}, {"line1\nline2", "x"}, nil, nil},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, format, err := ParseDetectFormat([]byte(tt.csv), nil)
			require.NoError(t, err)
			assert.Equal(t, "UTF-8", format.Encoding)
			assert.Equal(t, tt.wantSep, format.Separator)
			assert.Equal(t, tt.wantNewine, format.Newline)
			assert.Equal(t, tt.wantRows, rows)
		})
	}
}

func TestParseWithFormat(t *testing.T) {
	rows, err := ParseWithFormat([]byte("\xEF\xBB\xBFa,b\r\n1,2"), NewFormat(","))
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)

	_, err = ParseWithFormat([]byte("sep=;\r\na,b"), NewFormat(","))
	require.Error(t, err)

	_, err = ParseWithFormat([]byte("a,b"), &Format{Encoding: "UTF-8", Separator: ","})
	require.Error(t, err, "missing newline")
}

func TestReadModel(t *testing.T) {
	csv := "Name;Count;Date;;\n" +
		"apple;10;2024-01-02;;\n" +
		";;;;\n" +
		"banana;;2024-03-04;;\n"

	model, format, err := ReadModel([]byte(csv), nil)
	require.NoError(t, err)
	require.Equal(t, ";", format.Separator)
	require.Equal(t, []string{"Name", "Count", "Date"}, model.Columns())
	require.Equal(t, 2, model.NumRows())
	require.Equal(t, "apple", model.Cell(0, 0))
	require.Equal(t, int64(10), model.Cell(0, 1))
	require.Nil(t, model.Cell(1, 1))
	require.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), model.Cell(1, 2))

	view := tableview.NewSortedView(model)
	view.Sort(1, false)
	require.Equal(t, "apple", view.Cell(0, 0))

	empty, _, err := ReadModel(nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, empty.NumRows())

	model, err = ReadModelWithFormat([]byte("A,B\r\nx,true\r\n"), NewFormat(","))
	require.NoError(t, err)
	require.Equal(t, true, model.Cell(0, 1))
}

func TestReadFile(t *testing.T) {
	file := fs.NewMemFile("fruits.csv", []byte("Name,Price\ncherry,2.5\napple,1.25\n"))
	model, format, err := ReadFile(context.Background(), file, nil)
	require.NoError(t, err)
	require.Equal(t, ",", format.Separator)
	require.Equal(t, "fruits.csv", model.Title())
	require.Equal(t, 2.5, model.Cell(0, 1))
	require.Equal(t, 1.25, model.Cell(1, 1))
}
