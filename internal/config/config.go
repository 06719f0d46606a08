// Package config holds the configuration of the tableview command.
//
// Values are read from an optional TOML file
// and overridden by command line flags that were set explicitly.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	tableview "github.com/domonda/go-tableview"
)

type Config struct {
	LogLevel string       `toml:"log_level"`
	Input    InputConfig  `toml:"input"`
	View     ViewConfig   `toml:"view"`
	Output   OutputConfig `toml:"output"`
}

type InputConfig struct {
	File string `toml:"file"`
	// Format is csv, xlsx or mysql.
	// If empty it is derived from the file extension.
	Format string `toml:"format"`
	// Separator of CSV files, detected if empty
	Separator string   `toml:"separator"`
	Encodings []string `toml:"encodings"`
	Sheet     string   `toml:"sheet"`
	DSN       string   `toml:"dsn"`
	Query     string   `toml:"query"`
	Follow    bool     `toml:"follow"`
}

type ViewConfig struct {
	// SortColumn is a column name or 1 based column number
	SortColumn      string `toml:"sort_column"`
	Descending      bool   `toml:"descending"`
	CaseInsensitive bool   `toml:"case_insensitive"`
	Search          string `toml:"search"`
	Regex           bool   `toml:"regex"`
	// ColumnFilters in the form "column=text" or "column~regex"
	ColumnFilters []string `toml:"column_filters"`
	RowFilter     string   `toml:"row_filter"`
}

type OutputConfig struct {
	// Format is csv, html or tui
	Format    string `toml:"format"`
	Delimiter string `toml:"delimiter"`
	HeaderRow bool   `toml:"header_row"`
	NilValue  string `toml:"nil_value"`
}

func Default() *Config {
	return &Config{
		LogLevel: "warning",
		Output: OutputConfig{
			Format:    "tui",
			Delimiter: ";",
			HeaderRow: true,
		},
	}
}

// Load returns the default configuration
// overwritten by the values of a TOML file.
// Unknown keys in the file are an error.
func Load(path string) (*Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("can't load config %q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("unknown keys in config %q: %s", path, strings.Join(keys, ", "))
	}
	return c, nil
}

// BindFlags registers flags for c using the current values as defaults.
func BindFlags(flags *pflag.FlagSet, c *Config) {
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warning, error")

	flags.StringVar(&c.Input.Format, "input-format", c.Input.Format, "input format: csv, xlsx or mysql (default from file extension)")
	flags.StringVar(&c.Input.Separator, "separator", c.Input.Separator, "CSV separator (detected if empty)")
	flags.StringSliceVar(&c.Input.Encodings, "encodings", c.Input.Encodings, "CSV encodings to detect")
	flags.StringVar(&c.Input.Sheet, "sheet", c.Input.Sheet, "Excel sheet name (default first sheet)")
	flags.StringVar(&c.Input.DSN, "mysql-dsn", c.Input.DSN, "MySQL data source name")
	flags.StringVar(&c.Input.Query, "query", c.Input.Query, "SQL query for MySQL input")
	flags.BoolVarP(&c.Input.Follow, "follow", "F", c.Input.Follow, "follow a growing CSV file in the terminal viewer")

	flags.StringVarP(&c.View.SortColumn, "sort", "s", c.View.SortColumn, "sort column name or number")
	flags.BoolVarP(&c.View.Descending, "desc", "d", c.View.Descending, "sort descending")
	flags.BoolVarP(&c.View.CaseInsensitive, "ignore-case", "i", c.View.CaseInsensitive, "sort strings case insensitive")
	flags.StringVar(&c.View.Search, "search", c.View.Search, "search text")
	flags.BoolVar(&c.View.Regex, "regex", c.View.Regex, "search text is a regular expression")
	flags.StringArrayVarP(&c.View.ColumnFilters, "filter", "f", c.View.ColumnFilters, `column filter "column=text" or "column~regex"`)
	flags.StringVar(&c.View.RowFilter, "where", c.View.RowFilter, "row filter expression")

	flags.StringVarP(&c.Output.Format, "output", "o", c.Output.Format, "output format: csv, html or tui")
	flags.StringVar(&c.Output.Delimiter, "delimiter", c.Output.Delimiter, "CSV output delimiter")
	flags.BoolVar(&c.Output.HeaderRow, "header", c.Output.HeaderRow, "write a header row")
	flags.StringVar(&c.Output.NilValue, "nil-value", c.Output.NilValue, "output for empty cells")
}

// Resolve loads the config file at path if not empty
// and applies all flags that were set explicitly.
// A non empty inputFile overrides the configured input file.
func Resolve(path string, flags *pflag.FlagSet, inputFile string) (c *Config, err error) {
	c = Default()
	if path != "" {
		if c, err = Load(path); err != nil {
			return nil, err
		}
	}
	if inputFile != "" {
		c.Input.File = inputFile
	}
	target := pflag.NewFlagSet("resolve", pflag.ContinueOnError)
	BindFlags(target, c)
	flags.Visit(func(f *pflag.Flag) {
		t := target.Lookup(f.Name)
		if t == nil || err != nil {
			return
		}
		if src, ok := f.Value.(pflag.SliceValue); ok {
			err = t.Value.(pflag.SliceValue).Replace(src.GetSlice())
			return
		}
		err = t.Value.Set(f.Value.String())
	})
	if err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.InputFormat() {
	case "csv", "xlsx":
		if c.Input.File == "" {
			return errors.New("missing input file")
		}
	case "mysql":
		if c.Input.DSN == "" || c.Input.Query == "" {
			return errors.New("mysql input needs a DSN and a query")
		}
	default:
		return fmt.Errorf("invalid input format %q", c.InputFormat())
	}
	switch c.Output.Format {
	case "csv", "html", "tui":
	default:
		return fmt.Errorf("invalid output format %q", c.Output.Format)
	}
	if len([]rune(c.Output.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character: %q", c.Output.Delimiter)
	}
	if c.Input.Follow && (c.InputFormat() != "csv" || c.Output.Format != "tui") {
		return errors.New("follow needs CSV input and tui output")
	}
	for _, filter := range c.View.ColumnFilters {
		if _, _, _, err := ParseColumnFilter(filter); err != nil {
			return err
		}
	}
	return nil
}

// InputFormat returns the configured input format
// or the one derived from the file extension.
func (c *Config) InputFormat() string {
	if c.Input.Format != "" {
		return strings.ToLower(c.Input.Format)
	}
	if c.Input.File == "" && c.Input.DSN != "" {
		return "mysql"
	}
	switch strings.ToLower(filepath.Ext(c.Input.File)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return "xlsx"
	}
	return "csv"
}

func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}

// ParseColumnFilter parses "column=text" or "column~regex".
func ParseColumnFilter(filter string) (column, text string, isRegex bool, err error) {
	i := strings.IndexAny(filter, "=~")
	if i <= 0 {
		return "", "", false, fmt.Errorf("invalid column filter %q, expected column=text or column~regex", filter)
	}
	return filter[:i], filter[i+1:], filter[i] == '~', nil
}

// ResolveColumn returns the index of a column by name
// or by 1 based number.
func ResolveColumn(view tableview.View, column string) (int, error) {
	if col := tableview.ColumnIndex(view, column); col != -1 {
		return col, nil
	}
	if n, err := strconv.Atoi(column); err == nil && n >= 1 && n <= tableview.NumColumns(view) {
		return n - 1, nil
	}
	return -1, fmt.Errorf("column %q not found", column)
}

// Apply configures view with the sort, search and filters of c.
func (c *ViewConfig) Apply(view *tableview.SortedView) error {
	view.SetCaseSensitive(!c.CaseInsensitive)
	if c.SortColumn != "" {
		col, err := ResolveColumn(view, c.SortColumn)
		if err != nil {
			return err
		}
		view.Sort(col, !c.Descending)
	}
	if err := view.Search(c.Search, c.Regex); err != nil {
		return err
	}
	for _, filter := range c.ColumnFilters {
		column, text, isRegex, err := ParseColumnFilter(filter)
		if err != nil {
			return err
		}
		col, err := ResolveColumn(view, column)
		if err != nil {
			return err
		}
		if err = view.SetColumnFilter(col, text, isRegex); err != nil {
			return err
		}
	}
	return view.SetRowFilter(c.RowFilter)
}
