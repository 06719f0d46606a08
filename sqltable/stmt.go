package sqltable

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	tableview "github.com/domonda/go-tableview"
)

var _ driver.Stmt = new(stmt)

// stmt is a parsed SELECT query resolved against a view.
// Ordering is done by a SortedView over the table view
// that is detached from its model when the statement is closed.
type stmt struct {
	view   tableview.View
	sorted *tableview.SortedView
}

func newStmt(views map[string]tableview.View, queryStr string) (*stmt, error) {
	q, err := parseQuery(queryStr)
	if err != nil {
		return nil, err
	}
	view := views[q.table]
	if view == nil {
		return nil, fmt.Errorf("view %q not found", q.table)
	}
	s := new(stmt)
	if q.orderBy != "" {
		col := tableview.ColumnIndex(view, q.orderBy)
		if col == -1 {
			return nil, fmt.Errorf("ORDER BY column %q not found", q.orderBy)
		}
		s.sorted = tableview.NewSortedView(tableview.ReadOnlyModel(view))
		s.sorted.Sort(col, !q.descending)
		view = s.sorted
	}
	if q.columns == nil && q.offset == 0 && q.limit == 0 {
		s.view = view
		return s, nil
	}
	filtered := &tableview.FilteredView{
		Source:    view,
		RowOffset: q.offset,
		RowLimit:  q.limit,
	}
	if q.columns != nil {
		filtered.ColumnMapping, err = tableview.ColumnMapping(view, q.columns...)
		if err != nil {
			s.Close()
			return nil, err
		}
	}
	s.view = filtered
	return s, nil
}

func (s *stmt) Close() error {
	if s.sorted != nil {
		s.sorted.SetModel(nil, false)
	}
	return nil
}

// NumInput returns 0 because placeholders are not supported.
func (s *stmt) NumInput() int {
	return 0
}

func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, errors.New("Exec not supported by read-only views")
}

func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	return &driverRows{view: s.view}, nil
}

var _ driver.Rows = new(driverRows)

type driverRows struct {
	view     tableview.View
	rowIndex int
}

func (r *driverRows) Columns() []string {
	return r.view.Columns()
}

func (r *driverRows) Close() error {
	r.rowIndex = -1
	return nil
}

func (r *driverRows) Next(dest []driver.Value) (err error) {
	if r.rowIndex < 0 || r.rowIndex >= r.view.NumRows() {
		return io.EOF
	}
	for col := range dest {
		dest[col], err = driver.DefaultParameterConverter.ConvertValue(r.view.Cell(r.rowIndex, col))
		if err != nil {
			return fmt.Errorf("column %d: %w", col, err)
		}
	}
	r.rowIndex++
	return nil
}

type query struct {
	columns    []string // nil for *
	table      string
	orderBy    string
	descending bool
	limit      int
	offset     int
}

const (
	identPattern = `(?:[a-zA-Z]\w*|"[^",]+")`
	tablePattern = `(?:[a-zA-Z][\w.]*|"[^"]+")`
)

// queryRegexp matches:
//
//	SELECT *|col[, col] FROM table [ORDER BY col [ASC|DESC]] [LIMIT n [OFFSET m]]
var queryRegexp = regexp.MustCompile(`(?i)^SELECT\s+(\*|` + identPattern + `(?:\s*,\s*` + identPattern + `)*)` +
	`\s+FROM\s+(` + tablePattern + `)` +
	`(?:\s+ORDER\s+BY\s+(` + identPattern + `)(?:\s+(ASC|DESC))?)?` +
	`(?:\s+LIMIT\s+(\d+)(?:\s+OFFSET\s+(\d+))?)?` +
	`(?:\s*;)*$`)

func parseQuery(str string) (q *query, err error) {
	str = strings.TrimSpace(str)
	m := queryRegexp.FindStringSubmatch(str)
	if m == nil {
		return nil, fmt.Errorf("invalid query %q", str)
	}
	q = &query{
		table:      unquote(m[2]),
		orderBy:    unquote(m[3]),
		descending: strings.EqualFold(m[4], "DESC"),
	}
	if m[1] != "*" {
		q.columns = strings.Split(m[1], ",")
		for i := range q.columns {
			q.columns[i] = unquote(strings.TrimSpace(q.columns[i]))
		}
	}
	if m[5] != "" {
		if q.limit, err = strconv.Atoi(m[5]); err != nil {
			return nil, fmt.Errorf("invalid LIMIT in query %q: %w", str, err)
		}
	}
	if m[6] != "" {
		if q.offset, err = strconv.Atoi(m[6]); err != nil {
			return nil, fmt.Errorf("invalid OFFSET in query %q: %w", str, err)
		}
	}
	return q, nil
}

func unquote(str string) string {
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		return str[1 : len(str)-1]
	}
	return str
}
