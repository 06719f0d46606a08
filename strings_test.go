package tableview

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestViewStrings(t *testing.T) {
	type args struct {
		view         View
		addHeaderRow bool
	}
	tests := []struct {
		name     string
		args     args
		wantRows [][]string
		wantErr  bool
	}{
		{
			name: "empty",
			args: args{
				view: NewStringsView("", nil, "A"),
			},
			wantRows: [][]string{},
		},
		{
			name: "header only",
			args: args{
				view:         NewStringsView("", nil, "Hello", "World", "!"),
				addHeaderRow: true,
			},
			wantRows: [][]string{{"Hello", "World", "!"}},
		},
		{
			name: `sparse rows with header`,
			args: args{
				view: NewStringsView("", [][]string{
					{"Hello", "World", "!"},
					{"A", "B", "C"},
					{"First col only"},
				}),
				addHeaderRow: true,
			},
			wantRows: [][]string{
				{"Hello", "World", "!"},
				{"A", "B", "C"},
				{"First col only", "", ""},
			},
		},
		{
			name: `typed values`,
			args: args{
				view: &RowsModel{
					Cols: []string{"Int", "Float", "Nil", "Duration"},
					Rows: [][]any{{1, 2.5, nil, time.Minute}},
				},
			},
			wantRows: [][]string{{"1", "2.5", "", "1m0s"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotRows, err := ViewStrings(context.Background(), tt.args.view, tt.args.addHeaderRow)
			if (err != nil) != tt.wantErr {
				t.Errorf("ViewStrings() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(gotRows, tt.wantRows) {
				t.Errorf("ViewStrings() = %v, want %v", gotRows, tt.wantRows)
			}
		})
	}
}

func TestStringColumnWidths(t *testing.T) {
	rows := [][]string{
		{"ä", "bb"},
		{"ccc"},
	}
	require.Equal(t, []int{3, 2}, StringColumnWidths(rows, -1))
	require.Equal(t, []int{3}, StringColumnWidths(rows, 1))
	require.Nil(t, StringColumnWidths(nil, -1))
}

func TestInferStringColumnTypes(t *testing.T) {
	rows := [][]string{
		{"1", "1.5", "yes", "2024-01-02", "x", ""},
		{"", "2", "NO", "", "1", ""},
		{"-3", "2,5", "true", "02.01.2024"},
	}
	types := InferStringColumnTypes(rows, 6, nil)
	require.Equal(t, []reflect.Type{
		typeOfInt64,
		typeOfFloat64,
		typeOfBool,
		typeOfTime,
		typeOfString,
		typeOfString,
	}, types)
}

func TestNewRowsModelFromStrings(t *testing.T) {
	model, err := NewRowsModelFromStrings("T", []string{"N", "S"}, [][]string{
		{"10", "a"},
		{"", "b"},
		{"2"},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, [][]any{
		{int64(10), "a"},
		{nil, "b"},
		{int64(2), nil},
	}, model.Rows)
	require.Equal(t, typeOfInt64, model.ColumnType(0))
}
