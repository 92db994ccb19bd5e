package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gxkit/internal/app"
	"gxkit/internal/config"
	"gxkit/internal/dataframe"
	"gxkit/internal/exporter"
	"gxkit/internal/infrastructure"
	"gxkit/pkg/contracts"
)

const toolName = "gxtable"

// excelize rejects longer worksheet names
const maxSheetName = 31

type options struct {
	configFile string
	table      string
	record     string
	recordSet  bool
	records    string
	columns    string
	csvOut     string
	xlsxOut    string
	list       bool
	recordMap  string
	columnMap  string
	version    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet(toolName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configFile, "config", "", "config file (defaults to $GX_CONFIG_FILE, gxkit.yaml or configs/gxkit.yaml)")
	fs.StringVar(&opts.table, "table", "", "table name, e.g. rockcode")
	fs.StringVar(&opts.record, "record", "", "load only this record")
	fs.StringVar(&opts.records, "records", "", "comma-separated records to load, in output order")
	fs.StringVar(&opts.columns, "columns", "", "comma-separated columns to keep")
	fs.StringVar(&opts.csvOut, "csv", "", "write the table to this CSV file instead of stdout")
	fs.StringVar(&opts.xlsxOut, "xlsx", "", "write the table to this XLSX workbook")
	fs.BoolVar(&opts.list, "list", false, "list the tables in the search directories")
	fs.StringVar(&opts.recordMap, "record-map", "", "print one record of -table as JSON")
	fs.StringVar(&opts.columnMap, "column-map", "", "print one column of -table as JSON")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "record" {
			opts.recordSet = true
		}
	})

	if opts.version || opts.list {
		return opts, nil
	}
	if opts.table == "" {
		fs.Usage()
		return nil, fmt.Errorf("-table is required")
	}
	if opts.recordSet && opts.records != "" {
		return nil, fmt.Errorf("-record and -records are mutually exclusive")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintln(stderr, err)
		}
		return 2
	}

	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString(toolName))
		return 0
	}

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	a, err := app.NewWithConfig(toolName, cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintln(stderr, err)
		}
	}()

	ctx = infrastructure.EnsureTraceID(ctx)
	if err := execute(ctx, a, opts, stdout); err != nil {
		a.Logger.ErrorContext(ctx, "gxtable failed", slog.String("error", err.Error()))
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func execute(ctx context.Context, a *app.Application, opts *options, stdout io.Writer) error {
	switch {
	case opts.list:
		names, err := a.Store.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(stdout, name)
		}
		return nil

	case opts.recordMap != "":
		rec, err := a.Loader.TableRecord(ctx, opts.table, opts.recordMap)
		if err != nil {
			return err
		}
		return writeJSON(stdout, rec)

	case opts.columnMap != "":
		col, err := a.Loader.TableColumn(ctx, opts.table, opts.columnMap)
		if err != nil {
			return err
		}
		return writeJSON(stdout, col)
	}

	var loadOpts []dataframe.Option
	if opts.recordSet {
		loadOpts = append(loadOpts, dataframe.WithRecord(opts.record))
	}
	if opts.records != "" {
		loadOpts = append(loadOpts, dataframe.WithRecords(splitList(opts.records)...))
	}
	if opts.columns != "" {
		loadOpts = append(loadOpts, dataframe.WithColumns(splitList(opts.columns)...))
	}

	df, err := a.Loader.Load(ctx, opts.table, loadOpts...)
	if err != nil {
		return err
	}

	wrote := false
	if opts.csvOut != "" {
		w := exporter.NewCSVWriter("", a.Logger)
		if err := w.WriteTable(opts.csvOut, df, fmt.Sprintf("exported from %s by %s", opts.table, toolName)); err != nil {
			return err
		}
		wrote = true
	}
	if opts.xlsxOut != "" {
		w := exporter.NewXLSXWriter("", a.Logger)
		if err := w.WriteTable(opts.xlsxOut, sheetName(opts.table), df); err != nil {
			return err
		}
		wrote = true
	}
	if wrote {
		return nil
	}

	cw := csv.NewWriter(stdout)
	if err := cw.Write(df.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(df.Rows()); err != nil {
		return err
	}
	return cw.Error()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// sheetName derives a worksheet name from a table name or path
func sheetName(table string) string {
	name := strings.TrimSuffix(filepath.Base(table), filepath.Ext(table))
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
