package csvtable

import (
	"errors"
	"fmt"
	"strings"
)

// Format of a CSV file.
type Format struct {
	Encoding  string `json:"encoding"  toml:"encoding"`
	Separator string `json:"separator" toml:"separator"`
	Newline   string `json:"newline"   toml:"newline"`
}

// NewFormat returns a UTF-8 format with "\r\n" newlines.
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvtable.Format")
	case f.Encoding == "":
		return errors.New("missing csvtable.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csvtable.Format.Separator")
	case len(f.Separator) > 1:
		return fmt.Errorf("invalid csvtable.Format.Separator: %q", f.Separator)
	case f.Newline != "\n" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csvtable.Format.Newline: %q", f.Newline)
	}
	return nil
}

// FormatDetectionConfig lists the encodings to try
// and the characters that must decode correctly
// for an encoding to be accepted.
type FormatDetectionConfig struct {
	Encodings     []string `json:"encodings"     toml:"encodings"`
	EncodingTests []string `json:"encodingTests" toml:"encoding_tests"`
}

func NewDefaultFormatDetectionConfig() *FormatDetectionConfig {
	return &FormatDetectionConfig{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252",
			"Macintosh",
		},
		EncodingTests: []string{
			"ä", "Ä", "ö", "Ö", "ü", "Ü", "ß", "§", "€",
			"д", "Д", "ъ", "Ъ", "б", "Б", "л", "Л", "и", "И", "ж",
		},
	}
}

// EscapeQuotes doubles all quotes in val.
func EscapeQuotes(val string) string {
	return strings.ReplaceAll(val, `"`, `""`)
}
