// Package sqltable bridges views and database/sql.
//
// ScanRowsAsModel reads query results into a tableview.RowsModel
// and NewViewsDB exposes views as a read-only SQL database
// supporting simple SELECT queries.
package sqltable

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	tableview "github.com/domonda/go-tableview"
)

// NewViewsDB returns a read-only database with the views as tables.
func NewViewsDB(views map[string]tableview.View) *sql.DB {
	return sql.OpenDB(database{views: views})
}

// NewViewDB returns a read-only database with view as only table.
func NewViewDB(viewName string, view tableview.View) *sql.DB {
	return NewViewsDB(map[string]tableview.View{
		viewName: view,
	})
}

var (
	_ driver.Connector = database{}
	_ driver.Conn      = database{}
)

type database struct {
	views map[string]tableview.View
}

func (c database) Connect(context.Context) (driver.Conn, error) {
	return c, nil
}

func (c database) Driver() driver.Driver {
	return c
}

func (c database) Open(string) (driver.Conn, error) {
	return c, nil
}

func (c database) Prepare(query string) (driver.Stmt, error) {
	return newStmt(c.views, query)
}

func (database) Close() error {
	return nil
}

func (database) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported by read-only views")
}
