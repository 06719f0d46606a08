package tableview

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Compare compares two cell values for sorting and returns
// -1 if a sorts before b, +1 if a sorts after b, and 0 otherwise.
//
// Nil values sort before all other values.
// If numeric is true then values that are not numbers
// are parsed as float64 if possible.
// Numbers of any type are compared numerically,
// strings lexicographically, false before true,
// and time.Time values chronologically.
// All other combinations are compared by their fmt.Sprint
// representations.
// If caseSensitive is false then strings are compared lower case.
func Compare(a, b any, numeric, caseSensitive bool) int {
	a, b = Deref(a), Deref(b)
	aNil, bNil := IsNil(a), IsNil(b)
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return -1
	case bNil:
		return +1
	}

	if numeric {
		a = coerceNumber(a)
		b = coerceNumber(b)
	}

	if c, ok := compareTyped(a, b, caseSensitive); ok {
		return c
	}
	return compareStrings(fmt.Sprint(a), fmt.Sprint(b), caseSensitive)
}

func compareTyped(a, b any, caseSensitive bool) (int, bool) {
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb), true
		}
		return 0, false
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	ka, kb := va.Kind(), vb.Kind()
	switch {
	case isNumberKind(ka) && isNumberKind(kb):
		return compareNumbers(va, vb), true
	case ka == reflect.String && kb == reflect.String:
		return compareStrings(va.String(), vb.String(), caseSensitive), true
	case ka == reflect.Bool && kb == reflect.Bool:
		return compareBools(va.Bool(), vb.Bool()), true
	}
	return 0, false
}

func compareStrings(a, b string, caseSensitive bool) int {
	if !caseSensitive {
		a = strings.ToLower(a)
		b = strings.ToLower(b)
	}
	return strings.Compare(a, b)
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return +1
}

func compareNumbers(a, b reflect.Value) int {
	switch {
	case isIntKind(a.Kind()) && isIntKind(b.Kind()):
		return cmp.Compare(a.Int(), b.Int())

	case isUintKind(a.Kind()) && isUintKind(b.Kind()):
		return cmp.Compare(a.Uint(), b.Uint())

	case isIntKind(a.Kind()) && isUintKind(b.Kind()):
		if a.Int() < 0 {
			return -1
		}
		return cmp.Compare(uint64(a.Int()), b.Uint())

	case isUintKind(a.Kind()) && isIntKind(b.Kind()):
		if b.Int() < 0 {
			return +1
		}
		return cmp.Compare(a.Uint(), uint64(b.Int()))
	}
	return cmp.Compare(floatValue(a), floatValue(b))
}

// coerceNumber returns value unchanged if it is a number,
// else the float64 parsed from its string representation,
// or value unchanged if it can't be parsed.
func coerceNumber(value any) any {
	if isNumberKind(reflect.ValueOf(value).Kind()) {
		return value
	}
	var str string
	switch x := value.(type) {
	case string:
		str = x
	case fmt.Stringer:
		str = x.String()
	default:
		str = fmt.Sprint(value)
	}
	f, err := DefaultParser.ParseFloat(str)
	if err != nil {
		return value
	}
	return f
}

// IsNumericType returns true if t is an integer, unsigned integer
// or float type or a pointer to one of those.
func IsNumericType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return isNumberKind(t.Kind())
}

func isNumberKind(k reflect.Kind) bool {
	return isIntKind(k) || isUintKind(k) || k == reflect.Float32 || k == reflect.Float64
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUintKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func floatValue(v reflect.Value) float64 {
	switch {
	case isIntKind(v.Kind()):
		return float64(v.Int())
	case isUintKind(v.Kind()):
		return float64(v.Uint())
	}
	return v.Float()
}
