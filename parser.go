package tableview

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Parser parses string representations of cell values
// into primitive Go types.
type Parser interface {
	ParseInt(string) (int64, error)
	ParseUint(string) (uint64, error)

	// ParseFloat may accept locale specific formats
	// like a comma as decimal separator.
	ParseFloat(string) (float64, error)

	ParseBool(string) (bool, error)
	ParseTime(string) (time.Time, error)
	ParseDuration(string) (time.Duration, error)

	// IsNil returns true if the string represents a missing value.
	IsNil(string) bool
}

var _ Parser = new(StringParser)

// StringParser implements Parser with configurable
// strings for booleans, nil values and time formats.
type StringParser struct {
	TrueStrings  []string `json:"trueStrings"  toml:"true_strings"`
	FalseStrings []string `json:"falseStrings" toml:"false_strings"`
	NilStrings   []string `json:"nilStrings"   toml:"nil_strings"`

	// TimeFormats are tried in order until one succeeds.
	TimeFormats []string `json:"timeFormats" toml:"time_formats"`
}

// NewStringParser returns a StringParser with the default configuration.
func NewStringParser() *StringParser {
	return &StringParser{
		TrueStrings:  []string{"true", "True", "TRUE", "yes", "Yes", "YES"},
		FalseStrings: []string{"false", "False", "FALSE", "no", "No", "NO"},
		NilStrings:   []string{"", "nil", "<nil>", "null", "NULL"},
		TimeFormats:  timeFormats,
	}
}

func (p *StringParser) ParseInt(str string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(str), 10, 64)
}

func (p *StringParser) ParseUint(str string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(str), 10, 64)
}

// ParseFloat parses str as float64 and accepts
// a single comma as decimal separator.
func (p *StringParser) ParseFloat(str string) (float64, error) {
	str = strings.TrimSpace(str)
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		numDot := strings.Count(str, ".")
		numComma := strings.Count(str, ",")
		switch {
		case numComma == 1 && numDot == 0:
			f, e := strconv.ParseFloat(strings.ReplaceAll(str, ",", "."), 64)
			if e != nil {
				return 0, err // return original error
			}
			return f, nil

			// TODO: add thousands separator cases like "1.234,56"
		}
		return 0, err
	}
	return f, nil
}

func (p *StringParser) ParseBool(str string) (bool, error) {
	str = strings.TrimSpace(str)
	if slices.Contains(p.TrueStrings, str) {
		return true, nil
	}
	if slices.Contains(p.FalseStrings, str) {
		return false, nil
	}
	return false, fmt.Errorf("cannot parse %q as bool", str)
}

func (p *StringParser) ParseTime(str string) (time.Time, error) {
	str = strings.TrimSpace(str)
	for _, format := range p.TimeFormats {
		t, err := time.Parse(format, str)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as time", str)
}

func (p *StringParser) ParseDuration(str string) (time.Duration, error) {
	return time.ParseDuration(strings.TrimSpace(str))
}

func (p *StringParser) IsNil(str string) bool {
	return slices.Contains(p.NilStrings, strings.TrimSpace(str))
}

// ParseAs parses str as a value of type typ.
// Nil strings result in a nil value.
// Pointer types are parsed as their element type
// and returned as pointer.
func ParseAs(parser Parser, str string, typ reflect.Type) (any, error) {
	if parser.IsNil(str) {
		return nil, nil
	}
	if typ == nil {
		return str, nil
	}
	if typ.Kind() == reflect.Ptr {
		v, err := ParseAs(parser, str, typ.Elem())
		if err != nil || v == nil {
			return nil, err
		}
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(reflect.ValueOf(v))
		return ptr.Interface(), nil
	}
	switch typ {
	case typeOfTime:
		return parser.ParseTime(str)
	case typeOfDuration:
		return parser.ParseDuration(str)
	}
	val := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.String:
		val.SetString(str)
	case reflect.Bool:
		b, err := parser.ParseBool(str)
		if err != nil {
			return nil, err
		}
		val.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := parser.ParseInt(str)
		if err != nil {
			return nil, err
		}
		if val.OverflowInt(i) {
			return nil, fmt.Errorf("%d overflows %s", i, typ)
		}
		val.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := parser.ParseUint(str)
		if err != nil {
			return nil, err
		}
		if val.OverflowUint(u) {
			return nil, fmt.Errorf("%d overflows %s", u, typ)
		}
		val.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := parser.ParseFloat(str)
		if err != nil {
			return nil, err
		}
		val.SetFloat(f)
	case reflect.Interface:
		return str, nil
	default:
		return nil, fmt.Errorf("%w: parsing %q as %s", errors.ErrUnsupported, str, typ)
	}
	return val.Interface(), nil
}

// ParseTime parses str with the default time formats
// and also returns the format that was used.
func ParseTime(str string) (t time.Time, format string, err error) {
	for _, format := range timeFormats {
		t, err = time.Parse(format, str)
		if err == nil {
			return t, format, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("cannot parse %q as time", str)
}

var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	formatBrowserLocalTime,
	time.RFC1123Z,
	time.RFC850,
	time.RFC1123,
	time.RubyDate,
	time.UnixDate,
	time.ANSIC,
	time.RFC822Z,
	time.RFC822,
	formatTimeString,
	time.DateTime,
	formatDateTimeMinute,
	time.DateOnly,
	formatDateTimeGerman,
	formatDateGerman,
}

const (
	formatDateTimeMinute   = "2006-01-02 15:04"
	formatDateTimeGerman   = "02.01.2006 15:04:05"
	formatDateGerman       = "02.01.2006"
	formatTimeString       = "2006-01-02 15:04:05.999999999 -0700 MST"
	formatBrowserLocalTime = "2006-01-02T15:04"
)
