package tableview

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTypeCellFormatter(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	f := 2.5
	view := &RowsModel{
		Cols: []string{"Time", "Float", "FloatPtr", "String", "Nil"},
		Rows: [][]any{{date, 1.0 / 3, &f, "s", nil}},
	}

	formatter := new(TypeCellFormatter).
		WithTypeFormatter(reflect.TypeOf(time.Time{}), LayoutFormatter(time.DateOnly)).
		WithKindFormatter(reflect.Float64, PrintfCellFormatter("%.2f"))

	tests := []struct {
		col     int
		want    string
		wantErr error
	}{
		{col: 0, want: "2024-03-15"},
		{col: 1, want: "0.33"},
		{col: 2, want: "2.50"},
		{col: 3, wantErr: errors.ErrUnsupported},
		{col: 4, wantErr: errors.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(view.Cols[tt.col], func(t *testing.T) {
			str, raw, err := formatter.FormatCell(ctx, view, 0, tt.col)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.False(t, raw)
			require.Equal(t, tt.want, str)
		})
	}

	withDefault := formatter.WithDefaultFormatter(RawCellString("-"))
	require.Nil(t, formatter.Default, "With methods don't modify the original")
	str, raw, err := withDefault.FormatCell(ctx, view, 0, 3)
	require.NoError(t, err)
	require.True(t, raw)
	require.Equal(t, "-", str)

	str, _, err = FormatCellString(ctx, formatter, view, 0, 3)
	require.NoError(t, err)
	require.Equal(t, "s", str)

	str, _, err = FormatCellString(ctx, nil, view, 0, 2)
	require.NoError(t, err)
	require.Equal(t, "2.5", str)

	var nilFormatter *TypeCellFormatter
	_, _, err = nilFormatter.FormatCell(ctx, view, 0, 0)
	require.ErrorIs(t, err, errors.ErrUnsupported)
}
