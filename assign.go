package tableview

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// ConvertTo converts value to a value of type typ using SmartAssign.
// Nil values and a nil typ return value unchanged.
func ConvertTo(value any, typ reflect.Type, parser Parser) (any, error) {
	if typ == nil || IsNil(value) {
		return value, nil
	}
	if reflect.TypeOf(value) == typ {
		return value, nil
	}
	if str, ok := value.(string); ok {
		if parser == nil {
			parser = DefaultParser
		}
		if parser.IsNil(str) && typ.Kind() != reflect.String {
			return nil, nil
		}
	}
	dst := reflect.New(typ).Elem()
	err := SmartAssign(dst, reflect.ValueOf(value), parser)
	if err != nil {
		return nil, err
	}
	return dst.Interface(), nil
}

// SmartAssign assigns src to dst converting between types.
// The following strategies are tried in order:
//   - zero value for src implementing IsNull() returning true
//   - reflect conversion if src is convertible to dst,
//     except for numbers to strings which would be interpreted as runes
//   - zero value for nil pointers
//   - parsing strings with parser (DefaultParser if nil)
//   - MarshalText and String methods of src
//   - dereferencing non nil src pointers
//   - bool to number and number to bool
//   - fmt.Sprint for string destinations
//   - allocating a new value for pointer destinations
//
// An error wrapping errors.ErrUnsupported is returned
// if no strategy can handle the types.
func SmartAssign(dst, src reflect.Value, parser Parser) (err error) {
	if !dst.IsValid() {
		return fmt.Errorf("dst value is invalid")
	}
	if !dst.CanSet() {
		return fmt.Errorf("cannot set dst value")
	}
	if !src.IsValid() {
		return fmt.Errorf("src value is invalid")
	}
	if parser == nil {
		parser = DefaultParser
	}
	var (
		srcType = src.Type()
		srcKind = srcType.Kind()
		dstType = dst.Type()
		dstKind = dstType.Kind()
	)

	// Assign zero value in case of IsNull.
	// Conversions further down might assign something
	// different than the zero value dependent on the
	// underlying type.
	if nullable, ok := src.Interface().(interface{ IsNull() bool }); ok && nullable.IsNull() {
		dst.Set(reflect.Zero(dstType))
		return nil
	}

	if srcType.ConvertibleTo(dstType) && !(dstKind == reflect.String && isNumberKind(srcKind)) {
		// Check because conversion can panic
		if srcKind == reflect.Slice && dstKind == reflect.Pointer && dstType.Elem().Kind() == reflect.Array && dst.Elem().Len() > src.Len() {
			return fmt.Errorf("cannot convert slice of length %d to array pointer with length %d", src.Len(), dst.Elem().Len())
		}
		dst.Set(src.Convert(dstType))
		return nil
	}

	// Assign zero value in case of a nil pointer
	if srcKind == reflect.Pointer && src.IsNil() {
		dst.Set(reflect.Zero(dstType))
		return nil
	}

	if srcKind == reflect.String && dstKind != reflect.Pointer {
		val, err := ParseAs(parser, src.String(), dstType)
		switch {
		case err == nil && val == nil:
			dst.Set(reflect.Zero(dstType))
			return nil
		case err == nil:
			dst.Set(reflect.ValueOf(val))
			return nil
		case !errors.Is(err, errors.ErrUnsupported):
			return fmt.Errorf("can't assign %q to %s: %w", src.String(), dstType, err)
		}
		// Continue after errors.ErrUnsupported
	}

	// Try assigning string from MarshalText method
	if m, ok := src.Interface().(encoding.TextMarshaler); ok {
		txt, err := m.MarshalText()
		if err != nil {
			return err
		}
		err = SmartAssign(dst, reflect.ValueOf(string(txt)), parser)
		if !errors.Is(err, errors.ErrUnsupported) {
			return err // nil or other than errors.ErrUnsupported
		}
		// Continue after errors.ErrUnsupported
	}

	// Try assigning string from String method
	if m, ok := src.Interface().(fmt.Stringer); ok {
		err = SmartAssign(dst, reflect.ValueOf(m.String()), parser)
		if !errors.Is(err, errors.ErrUnsupported) {
			return err // nil or other than errors.ErrUnsupported
		}
		// Continue after errors.ErrUnsupported
	}

	// Try assigning the dereferenced value
	if srcKind == reflect.Pointer && !src.IsNil() {
		err := SmartAssign(dst, src.Elem(), parser)
		if !errors.Is(err, errors.ErrUnsupported) {
			return err // nil or other than errors.ErrUnsupported
		}
		// Continue after errors.ErrUnsupported
	}

	// A pure empty struct represents the zero value
	if srcType == reflect.TypeOf(struct{}{}) {
		dst.Set(reflect.Zero(dstType))
		return nil
	}

	switch dstKind {

	// Convert bool to 0 / 1 numbers
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if srcKind == reflect.Bool {
			dst.SetInt(boolToInt(src.Bool()))
			return nil
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if srcKind == reflect.Bool {
			dst.SetUint(uint64(boolToInt(src.Bool())))
			return nil
		}

	case reflect.Float32, reflect.Float64:
		if srcKind == reflect.Bool {
			dst.SetFloat(float64(boolToInt(src.Bool())))
			return nil
		}

	// Convert 0 / 1 numbers to bool
	case reflect.Bool:
		switch {
		case isIntKind(srcKind):
			dst.SetBool(src.Int() != 0)
			return nil
		case isUintKind(srcKind):
			dst.SetBool(src.Uint() != 0)
			return nil
		case srcKind == reflect.Float32 || srcKind == reflect.Float64:
			dst.SetBool(src.Float() != 0)
			return nil
		}

	// Convert any type to string with fmt.Sprint
	case reflect.String:
		if srcKind == reflect.Bool {
			dst.SetString(strconv.FormatBool(src.Bool()))
			return nil
		}
		dst.SetString(fmt.Sprint(src.Interface()))
		return nil

	// If all other failed and dest is a pointer,
	// try to create a new instance and assign to that
	// then assign the pointer to the new instance.
	case reflect.Pointer:
		newDest := reflect.New(dstType.Elem())
		err = SmartAssign(newDest.Elem(), src, parser)
		if err != nil && !errors.Is(err, errors.ErrUnsupported) {
			return err
		}
		if err == nil {
			dst.Set(newDest)
			return nil
		}
		// Continue after errors.ErrUnsupported

	}

	return fmt.Errorf("%w: assigning %s %#v to %s", errors.ErrUnsupported, srcType, src, dstType)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
