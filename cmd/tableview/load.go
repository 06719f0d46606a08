package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	fs "github.com/ungerik/go-fs"

	tableview "github.com/domonda/go-tableview"
	"github.com/domonda/go-tableview/csvtable"
	"github.com/domonda/go-tableview/exceltable"
	"github.com/domonda/go-tableview/internal/config"
	"github.com/domonda/go-tableview/sqltable"
)

// loadModel loads the configured input.
// The returned CSV format is nil for other inputs.
func loadModel(ctx context.Context, cfg *config.Config) (*tableview.RowsModel, *csvtable.Format, error) {
	switch cfg.InputFormat() {
	case "csv":
		return loadCSV(ctx, cfg.Input)
	case "xlsx":
		model, err := loadExcel(ctx, cfg.Input)
		return model, nil, err
	case "mysql":
		model, err := loadMySQL(ctx, cfg.Input)
		return model, nil, err
	}
	return nil, nil, fmt.Errorf("invalid input format %q", cfg.InputFormat())
}

func loadCSV(ctx context.Context, in config.InputConfig) (*tableview.RowsModel, *csvtable.Format, error) {
	file := fs.File(in.File)
	if in.Separator == "" {
		detection := csvtable.NewDefaultFormatDetectionConfig()
		if len(in.Encodings) > 0 {
			detection.Encodings = in.Encodings
		}
		return csvtable.ReadFile(ctx, file, detection)
	}

	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	format := csvtable.NewFormat(in.Separator)
	if !bytes.Contains(data, []byte("\r\n")) {
		format.Newline = "\n"
	}
	if len(in.Encodings) > 0 {
		format.Encoding = in.Encodings[0]
	}
	model, err := csvtable.ReadModelWithFormat(data, format)
	if err != nil {
		return nil, nil, fmt.Errorf("can't read CSV file %q: %w", in.File, err)
	}
	model.Tit = file.Name()
	return model, format, nil
}

func loadExcel(ctx context.Context, in config.InputConfig) (*tableview.RowsModel, error) {
	models, err := exceltable.ReadFile(ctx, fs.File(in.File), false)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("%q: %w", in.File, exceltable.ErrEmptySheet)
	}
	if in.Sheet == "" {
		return models[0], nil
	}
	for _, model := range models {
		if model.Title() == in.Sheet {
			return model, nil
		}
	}
	return nil, exceltable.ErrSheetNotExist{SheetName: in.Sheet}
}

func loadMySQL(ctx context.Context, in config.InputConfig) (*tableview.RowsModel, error) {
	dsn, err := mysql.ParseDSN(in.DSN)
	if err != nil {
		return nil, err
	}
	// Scan DATETIME columns as time.Time
	dsn.ParseTime = true
	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, in.Query)
	if err != nil {
		return nil, err
	}
	model, err := sqltable.ScanRowsAsModel(ctx, rows)
	if err != nil {
		return nil, err
	}
	model.Tit = dsn.DBName
	return model, nil
}
