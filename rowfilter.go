package tableview

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Knetic/govaluate"
)

// RowFilter is a boolean expression over the cells of a row
// that restricts the visible rows of a SortedView.
//
// Columns are referenced by name, names containing spaces
// or operator characters have to be enclosed in brackets:
//
//	Price > 10 && [Product Name] =~ '^A'
//
// Numbers are passed as float64 and time values
// as Unix seconds so they can be compared with date strings.
type RowFilter struct {
	expression string
	expr       *govaluate.EvaluableExpression
	columns    map[string]int
}

// NewRowFilter parses expression and checks
// that all referenced variables are column names.
func NewRowFilter(expression string, columns []string) (*RowFilter, error) {
	expr, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid row filter expression %q: %w", expression, err)
	}
	filter := &RowFilter{
		expression: expression,
		expr:       expr,
		columns:    make(map[string]int),
	}
	for _, name := range expr.Vars() {
		col := -1
		for i, c := range columns {
			if c == name {
				col = i
				break
			}
		}
		if col == -1 {
			return nil, fmt.Errorf("row filter expression %q references unknown column %q", expression, name)
		}
		filter.columns[name] = col
	}
	return filter, nil
}

func (f *RowFilter) Expression() string { return f.expression }

// Matches evaluates the expression with the cells of a row.
// Evaluation errors and non boolean results don't match.
func (f *RowFilter) Matches(cell func(col int) any) bool {
	result, err := f.expr.Eval(rowParameters{filter: f, cell: cell})
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}

func (f *RowFilter) String() string {
	return f.expression
}

type rowParameters struct {
	filter *RowFilter
	cell   func(col int) any
}

func (p rowParameters) Get(name string) (any, error) {
	col, ok := p.filter.columns[name]
	if !ok {
		return nil, fmt.Errorf("no column %q", name)
	}
	return expressionValue(p.cell(col)), nil
}

func expressionValue(value any) any {
	value = Deref(value)
	if IsNil(value) {
		return nil
	}
	switch x := value.(type) {
	case string:
		return x
	case bool:
		return x
	case time.Time:
		return float64(x.Unix())
	case time.Duration:
		return x.Seconds()
	case []byte:
		return string(x)
	}
	v := reflect.ValueOf(value)
	switch k := v.Kind(); {
	case isNumberKind(k):
		return floatValue(v)
	case k == reflect.Bool:
		return v.Bool()
	case k == reflect.String:
		return v.String()
	}
	return strings.TrimSpace(CellString(value))
}
