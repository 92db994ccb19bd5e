package main

import (
	"context"
	"errors"
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
	"gxkit/internal/golden"
	"gxkit/internal/history"
	"gxkit/internal/infrastructure"
	"gxkit/pkg/contracts"
)

const toolName = "gxdocs"

// listFlag collects a repeatable string flag
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// goPackage is a -gopkg dir=module argument
type goPackage struct {
	dir    string
	module string
}

type options struct {
	configFile string
	manifests  listFlag
	goPkgs     []goPackage
	pkgName    string
	pkgTitle   string
	minVersion string
	out        string
	check      bool
	update     bool
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
	var goPkgs listFlag

	fs := flag.NewFlagSet(toolName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "config file (defaults to $GX_CONFIG_FILE, gxkit.yaml or configs/gxkit.yaml)")
	fs.Var(&opts.manifests, "manifest", "symbol manifest YAML file (repeatable)")
	fs.Var(&goPkgs, "gopkg", "Go source package as dir=module.name (repeatable)")
	fs.StringVar(&opts.pkgName, "name", "go", "package name for -gopkg modules")
	fs.StringVar(&opts.pkgTitle, "title", "", "page heading for -gopkg modules")
	fs.StringVar(&opts.minVersion, "min-version", "", "oldest version to list (overrides docs.min_version)")
	fs.StringVar(&opts.out, "out", "", "output directory (overrides docs.output_dir)")
	fs.BoolVar(&opts.check, "check", false, "compare the page with the golden master instead of writing it")
	fs.BoolVar(&opts.update, "update", false, "with -check, promote the rendered page to master")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.version {
		return opts, nil
	}

	for _, arg := range goPkgs {
		dir, module, ok := strings.Cut(arg, "=")
		if !ok || dir == "" || module == "" {
			return nil, fmt.Errorf("invalid -gopkg %q, want dir=module", arg)
		}
		opts.goPkgs = append(opts.goPkgs, goPackage{dir: dir, module: module})
	}
	if opts.update && !opts.check {
		return nil, errors.New("-update requires -check")
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

	cfg, err := loadConfig(opts)
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
		a.Logger.ErrorContext(ctx, "gxdocs failed", slog.String("error", err.Error()))
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFile(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.minVersion != "" {
		cfg.Docs.MinVersion = opts.minVersion
	}
	if opts.out != "" {
		cfg.Docs.OutputDir = opts.out
	}
	if len(opts.manifests) == 0 {
		opts.manifests = cfg.Docs.Manifests
	}
	if opts.check {
		cfg.Golden.PrimaryExt = filepath.Ext(config.HistoryFileName)
	}
	if opts.update {
		cfg.Golden.Update = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// collectPackages loads manifests and scans Go packages, merging packages
// that share a name.
func collectPackages(ctx context.Context, opts *options) ([]*history.Package, error) {
	pkgs, err := history.LoadManifests(ctx, opts.manifests)
	if err != nil {
		return nil, err
	}

	if len(opts.goPkgs) > 0 {
		goPkg := &history.Package{Name: opts.pkgName, Title: opts.pkgTitle}
		for _, gp := range opts.goPkgs {
			mod, err := history.ScanDir(gp.dir, gp.module)
			if err != nil {
				return nil, err
			}
			goPkg.Modules = append(goPkg.Modules, mod)
		}
		pkgs = append(pkgs, goPkg)
	}

	pkgs = history.MergePackages(pkgs)
	if len(pkgs) == 0 {
		return nil, errors.New("nothing to document: pass -manifest or -gopkg, or set docs.manifests")
	}
	return pkgs, nil
}

func execute(ctx context.Context, a *app.Application, opts *options, stdout io.Writer) error {
	pkgs, err := collectPackages(ctx, opts)
	if err != nil {
		return err
	}

	gen, err := a.Generator()
	if err != nil {
		return err
	}

	if !opts.check {
		path, err := gen.Generate(ctx, pkgs...)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, path)
		return nil
	}

	res, err := a.Harness.Check(ctx, config.HistoryFileName, gen.GoldenRenderer(pkgs...))
	var mismatch *golden.MismatchError
	if errors.As(err, &mismatch) {
		return fmt.Errorf("golden check failed:\n%s", mismatch.Error())
	}
	if err != nil {
		return err
	}

	if res.Updated {
		fmt.Fprintf(stdout, "updated %s\n", filepath.Join(a.Paths.GetGoldenMasterDir(), filepath.Base(res.Primary)))
	} else {
		fmt.Fprintln(stdout, "ok")
	}
	return nil
}
