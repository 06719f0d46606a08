package csvtable

import (
	"context"
	"fmt"

	fs "github.com/ungerik/go-fs"

	tableview "github.com/domonda/go-tableview"
)

// ReadModel parses csv with format detection
// and returns a RowsModel using the first row as column titles.
// Empty rows and trailing empty columns are removed
// and the column types are inferred from the cell strings.
func ReadModel(csv []byte, config *FormatDetectionConfig) (*tableview.RowsModel, *Format, error) {
	rows, format, err := ParseDetectFormat(csv, config)
	if err != nil {
		return nil, format, err
	}
	model, err := rowsToModel("", rows)
	return model, format, err
}

// ReadModelWithFormat parses csv with a known format
// and returns a RowsModel like ReadModel.
func ReadModelWithFormat(csv []byte, format *Format) (*tableview.RowsModel, error) {
	rows, err := ParseWithFormat(csv, format)
	if err != nil {
		return nil, err
	}
	return rowsToModel("", rows)
}

// ReadFile reads a CSV file with format detection
// and returns a RowsModel titled with the file name.
func ReadFile(ctx context.Context, file fs.FileReader, config *FormatDetectionConfig) (*tableview.RowsModel, *Format, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	rows, format, err := ParseDetectFormat(data, config)
	if err != nil {
		return nil, format, fmt.Errorf("can't parse CSV file %q: %w", file.Name(), err)
	}
	model, err := rowsToModel(file.Name(), rows)
	if err != nil {
		return nil, format, fmt.Errorf("can't read CSV file %q: %w", file.Name(), err)
	}
	return model, format, nil
}

func rowsToModel(title string, rows [][]string) (*tableview.RowsModel, error) {
	rows = tableview.RemoveEmptyStringRows(rows)
	tableview.RemoveEmptyStringColumns(rows)
	if len(rows) == 0 {
		return tableview.NewRowsModel(title, nil, nil), nil
	}
	return tableview.NewRowsModelFromStrings(title, rows[0], rows[1:], nil)
}
