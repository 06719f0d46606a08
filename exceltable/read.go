// Package exceltable reads Excel sheets as tableview.RowsModel.
//
// The first row of a sheet is used as column titles
// and the sheet name as table title.
// Column types are inferred from the cell strings
// like for CSV files.
package exceltable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	fs "github.com/ungerik/go-fs"
	"github.com/xuri/excelize/v2"

	tableview "github.com/domonda/go-tableview"
)

// ReadFirstSheet reads the first sheet of an Excel file.
// If rawCellStrings is true then cell values are read
// without the number format of the cell applied.
func ReadFirstSheet(reader io.Reader, rawCellStrings bool) (model *tableview.RowsModel, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrSheetNotExist{SheetName: "<FirstSheet>"}
	}
	return readSheet(f, sheet, rawCellStrings)
}

// ReadSheet reads the sheet with the passed name.
func ReadSheet(reader io.Reader, sheet string, rawCellStrings bool) (model *tableview.RowsModel, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, ErrSheetNotExist{SheetName: sheet}
	}
	return readSheet(f, sheet, rawCellStrings)
}

// Read reads all non-empty sheets of an Excel file.
func Read(reader io.Reader, rawCellStrings bool) (models []*tableview.RowsModel, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	for _, sheet := range f.GetSheetList() {
		model, err := readSheet(f, sheet, rawCellStrings)
		if err != nil {
			if errors.Is(err, ErrEmptySheet) {
				continue
			}
			return nil, err
		}
		models = append(models, model)
	}
	return models, nil
}

// ReadFile reads all non-empty sheets of an Excel file.
func ReadFile(ctx context.Context, file fs.FileReader, rawCellStrings bool) ([]*tableview.RowsModel, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, err
	}
	models, err := Read(bytes.NewReader(data), rawCellStrings)
	if err != nil {
		return nil, fmt.Errorf("can't read Excel file %q: %w", file.Name(), err)
	}
	return models, nil
}

func readSheet(f *excelize.File, sheet string, rawCellStrings bool) (*tableview.RowsModel, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: rawCellStrings})
	if err != nil {
		return nil, err
	}
	rows = tableview.RemoveEmptyStringRows(rows)
	numCols := tableview.RemoveEmptyStringColumns(rows)
	if len(rows) == 0 || numCols == 0 {
		return nil, fmt.Errorf("sheet %q: %w", sheet, ErrEmptySheet)
	}
	columns := rows[0]
	if len(columns) < numCols {
		columns = append(columns, make([]string, numCols-len(columns))...)
	}
	model, err := tableview.NewRowsModelFromStrings(sheet, columns, rows[1:], nil)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return model, nil
}
