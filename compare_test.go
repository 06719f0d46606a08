package tableview

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	var (
		t0  = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		t1  = t0.Add(time.Hour)
		ten = 10
	)
	tests := []struct {
		name          string
		a, b          any
		numeric       bool
		caseSensitive bool
		want          int
	}{
		{name: "nil nil", a: nil, b: nil, want: 0},
		{name: "nil first", a: nil, b: "a", want: -1},
		{name: "nil last", a: 0, b: nil, want: +1},
		{name: "nil pointer first", a: (*int)(nil), b: 1, want: -1},
		{name: "ints", a: 2, b: 10, want: -1},
		{name: "int and float", a: 2, b: 1.5, want: +1},
		{name: "int8 and uint64", a: int8(-1), b: uint64(1), want: -1},
		{name: "uint and negative int", a: uint(0), b: -5, want: +1},
		{name: "pointer to int", a: &ten, b: 9, want: +1},
		{name: "equal floats", a: 1.5, b: float32(1.5), want: 0},
		{name: "NaN first", a: math.NaN(), b: 0.0, want: -1},
		{name: "strings case sensitive", a: "B", b: "a", caseSensitive: true, want: -1},
		{name: "strings case insensitive", a: "B", b: "a", caseSensitive: false, want: +1},
		{name: "strings lexicographic", a: "10", b: "2", caseSensitive: true, want: -1},
		{name: "strings numeric", a: "10", b: "2", numeric: true, want: +1},
		{name: "comma decimal numeric", a: "1,5", b: "1.25", numeric: true, want: +1},
		{name: "numeric unparsable falls back to string", a: "abc", b: 5, numeric: true, caseSensitive: true, want: +1},
		{name: "bools", a: false, b: true, want: -1},
		{name: "times", a: t1, b: t0, want: +1},
		{name: "durations", a: time.Second, b: time.Minute, want: -1},
		{name: "mixed types as strings", a: "x", b: 5, caseSensitive: true, want: +1},
		{name: "mixed case insensitive fallback", a: "TRUE", b: true, caseSensitive: false, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b, tt.numeric, tt.caseSensitive)
			require.Equal(t, tt.want, got)
			require.Equal(t, -tt.want, Compare(tt.b, tt.a, tt.numeric, tt.caseSensitive), "antisymmetric")
		})
	}
}

func TestIsNumericType(t *testing.T) {
	require.True(t, IsNumericType(reflect.TypeOf(0)))
	require.True(t, IsNumericType(reflect.TypeOf(uint8(0))))
	require.True(t, IsNumericType(reflect.TypeOf(new(float64))))
	require.True(t, IsNumericType(reflect.TypeOf(time.Duration(0))))
	require.False(t, IsNumericType(reflect.TypeOf("")))
	require.False(t, IsNumericType(reflect.TypeOf(time.Time{})))
	require.False(t, IsNumericType(nil))
}
