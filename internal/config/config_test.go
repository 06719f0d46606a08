package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	tableview "github.com/domonda/go-tableview"
)

const testConfig = `
log_level = "debug"

[input]
file = "fruits.csv"
separator = ","

[view]
sort_column = "Name"
column_filters = ["Name~^b"]

[output]
format = "csv"
delimiter = "|"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tableview.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, c.Level())
	require.Equal(t, "fruits.csv", c.Input.File)
	require.Equal(t, "csv", c.InputFormat())
	require.Equal(t, []string{"Name~^b"}, c.View.ColumnFilters)
	require.Equal(t, "|", c.Output.Delimiter)
	require.True(t, c.Output.HeaderRow, "default kept")
	require.NoError(t, c.Validate())

	_, err = Load(writeConfig(t, "[input]\nfiel = \"x\"\n"))
	require.ErrorContains(t, err, "input.fiel")

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	path := writeConfig(t, testConfig)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags, Default())
	require.NoError(t, flags.Parse([]string{"--desc", "-f", "Count=1", "-f", "Name~a", "--delimiter", ","}))

	c, err := Resolve(path, flags, "other.csv")
	require.NoError(t, err)
	require.Equal(t, "other.csv", c.Input.File)
	require.Equal(t, "Name", c.View.SortColumn, "from file")
	require.True(t, c.View.Descending, "from flag")
	require.Equal(t, []string{"Count=1", "Name~a"}, c.View.ColumnFilters, "flag replaces file value")
	require.Equal(t, ",", c.Output.Delimiter)
	require.Equal(t, "debug", c.LogLevel, "unset flag doesn't override file")

	flags = pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags, Default())
	require.NoError(t, flags.Parse([]string{"--output", "pdf"}))
	_, err = Resolve("", flags, "x.csv")
	require.ErrorContains(t, err, "pdf")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "csv", modify: func(c *Config) { c.Input.File = "a.csv" }},
		{name: "xlsx by extension", modify: func(c *Config) { c.Input.File = "a.XLSX" }},
		{name: "mysql", modify: func(c *Config) { c.Input.DSN = "user@/db"; c.Input.Query = "SELECT 1" }},
		{name: "missing file", modify: func(c *Config) {}, wantErr: true},
		{name: "mysql without query", modify: func(c *Config) { c.Input.Format = "mysql"; c.Input.DSN = "user@/db" }, wantErr: true},
		{name: "unknown input", modify: func(c *Config) { c.Input.File = "a"; c.Input.Format = "json" }, wantErr: true},
		{name: "log level", modify: func(c *Config) { c.Input.File = "a.csv"; c.LogLevel = "loud" }, wantErr: true},
		{name: "delimiter", modify: func(c *Config) { c.Input.File = "a.csv"; c.Output.Delimiter = ";;" }, wantErr: true},
		{name: "follow csv", modify: func(c *Config) { c.Input.File = "a.csv"; c.Input.Follow = true }},
		{name: "follow html", modify: func(c *Config) { c.Input.File = "a.csv"; c.Input.Follow = true; c.Output.Format = "html" }, wantErr: true},
		{name: "column filter", modify: func(c *Config) { c.Input.File = "a.csv"; c.View.ColumnFilters = []string{"=x"} }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)
			err := c.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestParseColumnFilter(t *testing.T) {
	column, text, isRegex, err := ParseColumnFilter("Name=a=b")
	require.NoError(t, err)
	require.Equal(t, "Name", column)
	require.Equal(t, "a=b", text)
	require.False(t, isRegex)

	column, text, isRegex, err = ParseColumnFilter("2~^x$")
	require.NoError(t, err)
	require.Equal(t, "2", column)
	require.Equal(t, "^x$", text)
	require.True(t, isRegex)

	_, _, _, err = ParseColumnFilter("no filter")
	require.Error(t, err)
}

func TestViewConfig_Apply(t *testing.T) {
	model := &tableview.RowsModel{
		Cols: []string{"Name", "Count"},
		Rows: [][]any{{"banana", int64(12)}, {"Apple", int64(5)}, {"cherry", int64(33)}, {"avocado", int64(1)}},
	}
	view := tableview.NewSortedView(model)

	vc := ViewConfig{
		SortColumn:      "1",
		CaseInsensitive: true,
		ColumnFilters:   []string{"Name~^[aA]"},
		RowFilter:       "Count > 2",
	}
	require.NoError(t, vc.Apply(view))
	require.Equal(t, 0, view.SortColumn())
	require.False(t, view.IsCaseSensitive())
	require.Equal(t, 1, view.NumRows())
	require.Equal(t, "Apple", view.Cell(0, 0))

	require.Error(t, (&ViewConfig{SortColumn: "Weight"}).Apply(view))
	require.Error(t, (&ViewConfig{SortColumn: "3"}).Apply(view))
	require.Error(t, (&ViewConfig{Search: "(", Regex: true}).Apply(view))
	require.Error(t, (&ViewConfig{RowFilter: "Weight > 1"}).Apply(view))
}
