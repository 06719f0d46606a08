package tableview

import (
	"fmt"
	"regexp"
	"strings"
)

// SearchParams is an immutable free text search query.
type SearchParams struct {
	query   string
	isRegex bool
	lower   string
	regex   *regexp.Regexp
}

// NewSearchParams returns the parameters for a free text search.
// If isRegex is false then the query matches
// case-insensitive substrings of cell strings.
// If isRegex is true then query is compiled as regular expression
// and it is an error if it is not valid.
func NewSearchParams(query string, isRegex bool) (*SearchParams, error) {
	params := &SearchParams{query: query, isRegex: isRegex}
	if isRegex {
		re, err := regexp.Compile(query)
		if err != nil {
			return nil, fmt.Errorf("invalid search regex: %w", err)
		}
		params.regex = re
	} else {
		params.lower = strings.ToLower(query)
	}
	return params, nil
}

func (p *SearchParams) Query() string { return p.query }
func (p *SearchParams) IsRegex() bool { return p.isRegex }

// Matches returns if str matches the search.
func (p *SearchParams) Matches(str string) bool {
	if p.isRegex {
		return p.regex.MatchString(str)
	}
	return strings.Contains(strings.ToLower(str), p.lower)
}

// MatchesValue returns if the string representation
// of a non nil value matches the search.
func (p *SearchParams) MatchesValue(value any) bool {
	if IsNil(value) {
		return false
	}
	return p.Matches(CellString(value))
}

func (p *SearchParams) String() string {
	if p.isRegex {
		return fmt.Sprintf("/%s/", p.query)
	}
	return fmt.Sprintf("%q", p.query)
}

// ColumnFilter restricts the visible rows to those
// whose cell in a column matches a text or regular expression.
type ColumnFilter struct {
	text    string
	isRegex bool
	lower   string
	regex   *regexp.Regexp
}

// NewColumnFilter returns a filter matching case-insensitive
// substrings of text or, if isRegex is true, the regular expression text.
func NewColumnFilter(text string, isRegex bool) (*ColumnFilter, error) {
	filter := &ColumnFilter{text: text, isRegex: isRegex}
	if isRegex {
		re, err := regexp.Compile(text)
		if err != nil {
			return nil, fmt.Errorf("invalid column filter regex: %w", err)
		}
		filter.regex = re
	} else {
		filter.lower = strings.ToLower(text)
	}
	return filter, nil
}

func (f *ColumnFilter) Text() string  { return f.text }
func (f *ColumnFilter) IsRegex() bool { return f.isRegex }

// Matches returns if value is not nil
// and its string representation matches the filter.
func (f *ColumnFilter) Matches(value any) bool {
	if IsNil(value) {
		return false
	}
	str := CellString(value)
	if f.isRegex {
		return f.regex.MatchString(str)
	}
	return strings.Contains(strings.ToLower(str), f.lower)
}

// CellString returns the string representation of a cell value
// used for searching, filtering and display.
// Nil values are returned as empty string
// and pointers are dereferenced.
func CellString(value any) string {
	value = Deref(value)
	if IsNil(value) {
		return ""
	}
	switch x := value.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(value)
}
