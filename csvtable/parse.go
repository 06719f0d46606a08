package csvtable

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/domonda/go-types/charset"
)

// ParseDetectFormat parses csv into rows of strings
// after detecting its encoding, newline and separator.
// A leading "sep=X" line declares the separator explicitly.
// Quoted fields may contain separators, escaped quotes and newlines.
//
// If config is nil then NewDefaultFormatDetectionConfig is used.
func ParseDetectFormat(csv []byte, config *FormatDetectionConfig) (rows [][]string, format *Format, err error) {
	if config == nil {
		config = NewDefaultFormatDetectionConfig()
	}
	format, lines, err := detectFormat(csv, config)
	if err != nil {
		return nil, format, err
	}
	rows, err = splitFields(lines, []byte(format.Separator))
	return rows, format, err
}

// ParseWithFormat parses csv into rows of strings using a known format.
func ParseWithFormat(csv []byte, format *Format) (rows [][]string, err error) {
	if err = format.Validate(); err != nil {
		return nil, err
	}
	if format.Encoding == "UTF-8" {
		csv = charset.TrimBOM(csv, charset.BOMUTF8)
	} else {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		if csv, err = enc.Decode(csv); err != nil {
			return nil, err
		}
	}
	lines := bytes.Split(sanitizeUTF8(csv), []byte(format.Newline))
	if len(lines) > 0 {
		if sep := sepHeader(lines[0]); sep != "" {
			if sep != format.Separator {
				return nil, fmt.Errorf("separator %q in header line differs from format separator %q", sep, format.Separator)
			}
			lines = lines[1:]
		}
	}
	return splitFields(lines, []byte(format.Separator))
}

func detectFormat(csv []byte, config *FormatDetectionConfig) (format *Format, lines [][]byte, err error) {
	if config == nil {
		return nil, nil, errors.New("nil FormatDetectionConfig")
	}
	encodings := make([]charset.Encoding, 0, len(config.Encodings))
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings = append(encodings, enc)
	}

	format = new(Format)
	csv, format.Encoding, err = charset.AutoDecode(csv, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}
	csv = sanitizeUTF8(csv)

	format.Newline = "\n"
	if bytes.Contains(csv, []byte("\r\n")) {
		format.Newline = "\r\n"
	}
	lines = bytes.Split(csv, []byte(format.Newline))

	if len(lines) > 0 {
		if format.Separator = sepHeader(lines[0]); format.Separator != "" {
			return format, lines[1:], nil
		}
	}

	// Most frequent candidate wins, comma on ties
	var commas, semicolons, tabs, nonEmpty int
	for i := range lines {
		lines[i] = bytes.Trim(lines[i], "\r\n")
		if len(lines[i]) == 0 {
			continue
		}
		nonEmpty++
		commas += bytes.Count(lines[i], []byte{','})
		semicolons += bytes.Count(lines[i], []byte{';'})
		tabs += bytes.Count(lines[i], []byte{'\t'})
	}
	if nonEmpty == 0 {
		format.Separator = ","
		return format, nil, nil
	}
	switch {
	case semicolons > commas && semicolons > tabs:
		format.Separator = ";"
	case tabs > commas && tabs > semicolons:
		format.Separator = "\t"
	default:
		format.Separator = ","
	}
	return format, lines, nil
}

// sepHeader returns the separator of a "sep=X" line
// (optionally quoted) or an empty string.
func sepHeader(line []byte) string {
	if len(line) == 7 && line[0] == '"' && line[6] == '"' {
		line = line[1:6]
	}
	if len(line) != 5 {
		return ""
	}
	if !bytes.HasPrefix(line, []byte("sep=")) && !bytes.HasPrefix(line, []byte("SEP=")) {
		return ""
	}
	return string(line[4:])
}

// splitFields splits lines into fields.
// Empty lines result in nil rows.
// A quoted field may span multiple lines which are then
// joined with "\n" and set to nil in the result.
func splitFields(lines [][]byte, sep []byte) (rows [][]string, err error) {
	rows = make([][]string, len(lines))
	for lineIndex := 0; lineIndex < len(lines); lineIndex++ {
		line := lines[lineIndex]
		if len(line) == 0 {
			continue
		}
		fields := bytes.Split(line, sep)
		for i := 0; i < len(fields); i++ {
			field := fields[i]
			if len(field) < 2 {
				continue
			}
			left, right := countQuotes(field)
			switch {
			case left == 0 && right == 0:
				// Plain field

			case isQuotedPair(left, right) || (left == 2 && right == 2):
				field = field[1 : len(field)-1]

			case left == 0:
				// Unbalanced quotes at the end are kept as is

			case right == 0 && left == 2:
				// Starts with an escaped quote

			case right == 0:
				var joined bool
				if i == len(fields)-1 {
					field, fields, joined, err = joinFollowingLines(lines, lineIndex, field, fields, sep)
					if err != nil {
						return nil, err
					}
				}
				if !joined {
					field, fields = joinFollowingFields(fields, i, left, sep)
				}

			default:
				return nil, fmt.Errorf("can't handle CSV field `%s` in line `%s`", field, line)
			}
			fields[i] = bytes.ReplaceAll(field, []byte(`""`), []byte{'"'})
		}
		row := make([]string, len(fields))
		for i := range fields {
			row[i] = string(fields[i])
		}
		rows[lineIndex] = row
	}
	return rows, nil
}

// isQuotedPair reports if the quote counts at the
// start and end of a field enclose the field,
// allowing escaped quotes directly inside.
func isQuotedPair(left, right int) bool {
	return (left == 1 || left == 3) && (right == 1 || right == 3)
}

// joinFollowingLines joins the last field of lines[lineIndex]
// with the following lines until a line whose first field
// ends with a quote.
func joinFollowingLines(lines [][]byte, lineIndex int, field []byte, fields [][]byte, sep []byte) ([]byte, [][]byte, bool, error) {
	end := lineIndex + 1
	for ; end < len(lines); end++ {
		first, _, _ := bytes.Cut(lines[end], sep)
		if bytes.HasSuffix(first, []byte{'"'}) {
			break
		}
	}
	if end >= len(lines) {
		return field, fields, false, nil
	}
	joined := bytes.Clone(field)
	for i := lineIndex + 1; i < end; i++ {
		joined = append(joined, '\n')
		joined = append(joined, lines[i]...)
	}
	endFields := bytes.Split(lines[end], sep)
	joined = append(joined, '\n')
	joined = append(joined, endFields[0]...)
	if len(joined) < 2 || joined[0] != '"' || joined[len(joined)-1] != '"' {
		return nil, nil, false, errors.New("multi-line CSV field not enclosed in quotes")
	}
	fields = append(fields, endFields[1:]...)
	for i := lineIndex + 1; i <= end; i++ {
		lines[i] = nil
	}
	return joined[1 : len(joined)-1], fields, true, nil
}

// joinFollowingFields joins fields[i] with the following fields
// of the same line until one closes the quote.
// The separators between them were part of the quoted value.
func joinFollowingFields(fields [][]byte, i, left int, sep []byte) ([]byte, [][]byte) {
	for r := i + 1; r < len(fields); r++ {
		if len(fields[r]) < 2 {
			continue
		}
		rLeft, rRight := countQuotes(fields[r])
		if (rLeft == 0 || rLeft == 2) && isQuotedPair(left, rRight) {
			field := bytes.Join(fields[i:r+1], sep)
			copy(fields[i+1:], fields[r+1:])
			fields = fields[:len(fields)-(r-i)]
			return field[1 : len(field)-1], fields
		}
	}
	return fields[i], fields
}

// countQuotes returns the number of quotes
// at the start and the end of str.
// A field of only quotes is split in half.
func countQuotes(str []byte) (left, right int) {
	left = len(str) - len(bytes.TrimLeft(str, `"`))
	if left == len(str) {
		left = (len(str) + 1) / 2
		return left, len(str) - left
	}
	right = len(str) - len(bytes.TrimRight(str, `"`))
	return left, right
}

func sanitizeUTF8(str []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			switch r {
			case '�', '\u00a0':
				return ' '
			}
			return r
		},
		str,
	)
}
