package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/domonda/go-tableview/exceltable"
	"github.com/domonda/go-tableview/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestRootCmd_CSVOutput(t *testing.T) {
	path := writeFile(t, "fruits.csv", "Name,Count\nbanana,12\nApple,5\ncherry,33\n")

	out := execute(t, path, "--output", "csv", "--sort", "Count", "--desc")
	require.Equal(t, "Name;Count\r\ncherry;33\r\nbanana;12\r\nApple;5\r\n", out)

	out = execute(t, path, "-o", "csv", "-s", "1", "-i", "--filter", "Name~^[bc]", "--header=false", "--delimiter", ",")
	require.Equal(t, "banana,12\r\ncherry,33\r\n", out)
}

func TestRun_ExplicitSeparator(t *testing.T) {
	cfg := config.Default()
	cfg.Input.File = writeFile(t, "fruits.csv", "Name|Count\r\nbanana|12\r\nApple|5\r\n")
	cfg.Input.Separator = "|"
	cfg.View.SortColumn = "Count"
	cfg.Output.Format = "csv"
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &out))
	require.Equal(t, "Name;Count\r\nApple;5\r\nbanana;12\r\n", out.String())
}

func TestRun_HTML(t *testing.T) {
	cfg := config.Default()
	cfg.Input.File = writeFile(t, "fruits.csv", "Name;Count\nbanana;12\nApple;5\ncherry;33\n")
	cfg.View.SortColumn = "Count"
	cfg.View.Search = "an"
	cfg.Output.Format = "html"

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &out))
	html := out.String()
	require.Contains(t, html, "<table")
	require.Contains(t, html, "banana")
	require.NotContains(t, html, "Apple")
	require.NotContains(t, html, "cherry")
}

func TestLoadModel_ExcelSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"first"}))
	_, err := f.NewSheet("Prices")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Prices", "A1", &[]any{"Item", "Price"}))
	require.NoError(t, f.SetSheetRow("Prices", "A2", &[]any{"tea", 2.5}))
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))

	cfg := config.Default()
	cfg.Input.File = path
	require.Equal(t, "xlsx", cfg.InputFormat())

	model, format, err := loadModel(context.Background(), cfg)
	require.NoError(t, err)
	require.Nil(t, format)
	require.Equal(t, "Sheet1", model.Title())

	cfg.Input.Sheet = "Prices"
	model, _, err = loadModel(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"Item", "Price"}, model.Columns())
	require.Equal(t, 2.5, model.Cell(0, 1))

	cfg.Input.Sheet = "Missing"
	_, _, err = loadModel(context.Background(), cfg)
	var notExist exceltable.ErrSheetNotExist
	require.ErrorAs(t, err, &notExist)
	require.True(t, strings.Contains(err.Error(), "Missing"))
}
