package tableview

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSmartAssign(t *testing.T) {
	tests := []struct {
		name    string
		dst     reflect.Value
		src     reflect.Value
		wantErr bool
		wantDst any
	}{
		{
			name:    "int to int",
			dst:     assignableValue[int](),
			src:     reflect.ValueOf(int(1)),
			wantDst: int(1),
		},
		{
			name:    "string to string",
			dst:     assignableValue[string](),
			src:     reflect.ValueOf("S"),
			wantDst: "S",
		},
		{
			name:    "int to *int",
			dst:     assignableValue[*int](),
			src:     reflect.ValueOf(int(1)),
			wantDst: pointerTo(int(1)),
		},
		{
			name:    "*int to int",
			dst:     assignableValue[int](),
			src:     reflect.ValueOf(pointerTo(int(1))),
			wantDst: int(1),
		},
		{
			name:    "int to string",
			dst:     assignableValue[string](),
			src:     reflect.ValueOf(65),
			wantDst: "65",
		},
		{
			name:    "string to int64",
			dst:     assignableValue[int64](),
			src:     reflect.ValueOf(" 42 "),
			wantDst: int64(42),
		},
		{
			name:    "comma decimal string to float64",
			dst:     assignableValue[float64](),
			src:     reflect.ValueOf("3,5"),
			wantDst: 3.5,
		},
		{
			name:    "string to bool",
			dst:     assignableValue[bool](),
			src:     reflect.ValueOf("yes"),
			wantDst: true,
		},
		{
			name:    "string to time",
			dst:     assignableValue[time.Time](),
			src:     reflect.ValueOf("2024-03-15"),
			wantDst: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "bool to int",
			dst:     assignableValue[int](),
			src:     reflect.ValueOf(true),
			wantDst: 1,
		},
		{
			name:    "duration to string",
			dst:     assignableValue[string](),
			src:     reflect.ValueOf(time.Second),
			wantDst: "1s",
		},

		// Error cases
		{
			name:    "invalid number string",
			dst:     assignableValue[int](),
			src:     reflect.ValueOf("abc"),
			wantErr: true,
		},
		{
			name:    "invalid src",
			dst:     assignableValue[int](),
			src:     reflect.Value{},
			wantErr: true,
		},
		{
			name:    "invalid dst",
			dst:     reflect.Value{},
			src:     reflect.ValueOf(int(1)),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Copy value in tt.dst to gotDst to be used by SmartAssign
			// to not modify the original value in tt.dst
			var gotDst reflect.Value
			if tt.dst.IsValid() {
				gotDst = reflect.New(tt.dst.Type()).Elem()
				gotDst.Set(tt.dst)
			}
			err := SmartAssign(gotDst, tt.src, nil)
			require.Equalf(t, tt.wantErr, err != nil, "SmartAssign(%s, %s) error = %#v, wantErr %t", tt.dst, tt.src, err, tt.wantErr)
			if err != nil {
				return
			}
			require.Equalf(t, tt.wantDst, gotDst.Interface(), "SmartAssign(%s, %s) gotDst = %#v, wantDst %#v", tt.dst, tt.src, gotDst.Interface(), tt.wantDst)
		})
	}
}

func TestConvertTo(t *testing.T) {
	v, err := ConvertTo("12", reflect.TypeOf(int64(0)), nil)
	require.NoError(t, err)
	require.Equal(t, int64(12), v)

	v, err = ConvertTo("", reflect.TypeOf(int64(0)), nil)
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = ConvertTo("", reflect.TypeOf(""), nil)
	require.NoError(t, err)
	require.Equal(t, "", v)

	v, err = ConvertTo(nil, reflect.TypeOf(0), nil)
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = ConvertTo(7, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 7, v)

	_, err = ConvertTo("x", reflect.TypeOf(0.0), nil)
	require.Error(t, err)
}

func pointerTo[T any](v T) *T {
	return &v
}

func assignableValue[T any]() reflect.Value {
	ptr := new(T)
	return reflect.ValueOf(ptr).Elem()
}
