package tableview

import (
	"context"
	"unicode/utf8"
)

// ViewStrings returns the cells of view formatted with CellString,
// optionally with the column names as first row.
func ViewStrings(ctx context.Context, view View, addHeaderRow bool) (rows [][]string, err error) {
	numCols := NumColumns(view)
	numRows := view.NumRows()
	rows = make([][]string, 0, numRows+1)
	if addHeaderRow {
		rows = append(rows, append([]string(nil), view.Columns()...))
	}
	for row := 0; row < numRows; row++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		rowStrs := make([]string, numCols)
		for col := range rowStrs {
			rowStrs[col] = CellString(view.Cell(row, col))
		}
		rows = append(rows, rowStrs)
	}
	return rows, nil
}

// StringColumnWidths returns the column widths of the passed
// table as count of UTF-8 runes.
// If numCols is negative then the maximum row length is used.
func StringColumnWidths(rows [][]string, numCols int) []int {
	if numCols < 0 {
		for _, row := range rows {
			if rowCols := len(row); rowCols > numCols {
				numCols = rowCols
			}
		}
		if numCols <= 0 {
			return nil
		}
	}
	colWidths := make([]int, numCols)
	for row := range rows {
		for col := 0; col < numCols && col < len(rows[row]); col++ {
			numRunes := utf8.RuneCountInString(rows[row][col])
			if numRunes > colWidths[col] {
				colWidths[col] = numRunes
			}
		}
	}
	return colWidths
}
