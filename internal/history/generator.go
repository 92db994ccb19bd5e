package history

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/hashicorp/go-version"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gxkit/internal/config"
	apperrors "gxkit/internal/errors"
	"gxkit/internal/files"
	"gxkit/internal/infrastructure"
)

// Generator collects package histories and writes the version-history page
type Generator struct {
	Floor     *version.Version
	OutputDir string
	Renderer  *Renderer
	Logger    *slog.Logger
	Metrics   *infrastructure.Metrics
}

// NewGenerator creates a generator from the docs configuration
func NewGenerator(cfg config.DocsConfig, paths *config.Paths, logger *slog.Logger, metrics *infrastructure.Metrics) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = infrastructure.DefaultMetrics()
	}

	floor, err := version.NewVersion(cfg.MinVersion)
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("invalid minimum version %q", cfg.MinVersion), err)
	}

	renderer, err := NewRenderer(paths.TemplateDir)
	if err != nil {
		return nil, err
	}

	return &Generator{
		Floor:     floor,
		OutputDir: paths.DocsDir,
		Renderer:  renderer,
		Logger:    infrastructure.WithComponent(logger, "history"),
		Metrics:   metrics,
	}, nil
}

// Collect builds one history per package, in order
func (g *Generator) Collect(ctx context.Context, pkgs ...*Package) []PackageHistory {
	pages := make([]PackageHistory, 0, len(pkgs))
	for _, pkg := range pkgs {
		h := Collect(pkg, g.Floor)
		g.Metrics.RecordIndexed(ctx, pkg.Name, h.Len())
		g.logger().DebugContext(ctx, "Collected version history",
			slog.String("package", pkg.Name),
			slog.Int("modules", len(pkg.Modules)),
			slog.Int("symbols", h.Len()),
			slog.Int("versions", len(h.entries)))
		pages = append(pages, PackageHistory{Package: pkg, History: h})
	}
	return pages
}

// RenderPage renders the page for pkgs into memory
func (g *Generator) RenderPage(ctx context.Context, pkgs ...*Package) ([]byte, error) {
	return g.render(g.Collect(ctx, pkgs...))
}

func (g *Generator) render(pages []PackageHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Renderer.Render(&buf, pages); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Generate writes <OutputDir>/version_history.rst and returns its path
func (g *Generator) Generate(ctx context.Context, pkgs ...*Package) (string, error) {
	path := filepath.Join(g.OutputDir, config.HistoryFileName)
	if err := g.WriteTo(ctx, path, pkgs...); err != nil {
		return "", err
	}
	return path, nil
}

// WriteTo renders the page for pkgs to path
func (g *Generator) WriteTo(ctx context.Context, path string, pkgs ...*Package) error {
	return g.writePages(ctx, path, g.Collect(ctx, pkgs...))
}

// writePages renders already collected histories to path
func (g *Generator) writePages(ctx context.Context, path string, pages []PackageHistory) error {
	ctx, span := infrastructure.Tracer().Start(ctx, "history.generate",
		trace.WithAttributes(
			attribute.Int("packages", len(pages)),
			attribute.String("path", path),
		),
	)
	defer span.End()

	page, err := g.render(pages)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}

	manager := files.NewManager(filepath.Dir(path), g.logger())
	if err := manager.WriteFile(filepath.Base(path), page); err != nil {
		err = apperrors.NewStorageError(fmt.Sprintf("failed to write %s", path), err)
		infrastructure.RecordError(ctx, err)
		return err
	}

	g.Metrics.RecordPageRendered(ctx, config.HistoryFileName)
	g.logger().InfoContext(ctx, "Version history written",
		slog.String("path", path),
		slog.String("template", g.Renderer.Source()),
		slog.Int("bytes", len(page)))
	return nil
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}
