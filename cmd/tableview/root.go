package main

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	tableview "github.com/domonda/go-tableview"
	"github.com/domonda/go-tableview/csvtable"
	"github.com/domonda/go-tableview/htmltable"
	"github.com/domonda/go-tableview/internal/config"
	"github.com/domonda/go-tableview/internal/follow"
	"github.com/domonda/go-tableview/internal/tui"
)

func newRootCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "tableview [file]",
		Short: "Sort, search and filter CSV, Excel and MySQL tables",
		Long: `tableview loads a table from a CSV or Excel file or a MySQL query
and shows it sorted and filtered in the terminal or writes it as CSV or HTML.

Configuration is read from an optional TOML file (--config)
and overridden by explicitly set flags.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) > 0 {
				file = args[0]
			}
			cfg, err := config.Resolve(configFile, cmd.Flags(), file)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "TOML configuration file")
	config.BindFlags(cmd.Flags(), config.Default())
	return cmd
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	logger := tableview.DefaultLogger
	logger.SetLevel(cfg.Level())

	model, csvFormat, err := loadModel(ctx, cfg)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"title":   model.Title(),
		"columns": len(model.Columns()),
		"rows":    model.NumRows(),
	}).Debug("tableview: loaded model")

	view := tableview.NewSortedView(model)
	view.SetLogger(logger)
	if err = cfg.View.Apply(view); err != nil {
		return err
	}

	switch cfg.Output.Format {
	case "csv":
		delimiter, _ := utf8.DecodeRuneInString(cfg.Output.Delimiter)
		return csvtable.NewWriter().
			WithHeaderRow(cfg.Output.HeaderRow).
			WithDelimiter(delimiter).
			WithNilValue(cfg.Output.NilValue).
			WriteView(ctx, out, view)

	case "html":
		return htmltable.NewWriter().
			WithHeaderRow(cfg.Output.HeaderRow).
			WithNilValue(template.HTML(template.HTMLEscapeString(cfg.Output.NilValue))).
			WriteView(ctx, out, view)

	case "tui":
		options := []tui.Option{tui.WithLogger(logger)}
		if cfg.Input.Follow {
			followCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			rows, errs := follow.Follow(followCtx, follow.Options{
				Path:   cfg.Input.File,
				Format: csvFormat,
				Logger: logger,
			})
			options = append(options, tui.WithFollow(model, rows, errs))
		}
		return tui.Run(ctx, tui.New(view, options...))
	}
	return fmt.Errorf("invalid output format %q", cfg.Output.Format)
}
