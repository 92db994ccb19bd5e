package golden

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gxkit/internal/config"
	apperrors "gxkit/internal/errors"
	"gxkit/internal/files"
	"gxkit/internal/infrastructure"
)

// Renderer produces the artifact pair for a source: a primary file and a
// descriptor file at the given paths.
type Renderer interface {
	Render(ctx context.Context, source, primary, descriptor string) error
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(ctx context.Context, source, primary, descriptor string) error

// Render implements Renderer
func (f RendererFunc) Render(ctx context.Context, source, primary, descriptor string) error {
	return f(ctx, source, primary, descriptor)
}

// sidecars a renderer may leave next to the primary artifact
var sidecarExts = []string{".gi", ".xml"}

// Harness renders artifacts into <Root>/result and compares them with the
// accepted copies in <Root>/master.
type Harness struct {
	Root          string
	Update        bool
	PrimaryExt    string
	DescriptorExt string
	Logger        *slog.Logger
	Metrics       *infrastructure.Metrics
}

// New creates a harness from configuration
func New(cfg config.GoldenConfig, paths *config.Paths, logger *slog.Logger, metrics *infrastructure.Metrics) *Harness {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = infrastructure.DefaultMetrics()
	}
	return &Harness{
		Root:          paths.GoldenRoot,
		Update:        cfg.Update,
		PrimaryExt:    cfg.PrimaryExt,
		DescriptorExt: cfg.DescriptorExt,
		Logger:        infrastructure.WithComponent(logger, "golden"),
		Metrics:       metrics,
	}
}

// Result describes one check
type Result struct {
	Primary    string
	Descriptor string
	Parts      []string // descriptor files, including Descriptor itself
	Updated    bool
	Report     []string
}

// MismatchError lists every missing or differing artifact
type MismatchError struct {
	Report []string
}

func (e *MismatchError) Error() string {
	return strings.Join(e.Report, "\n")
}

// Check renders source and compares the result with master, or promotes
// the result to master when Update is set (or update is true).
func (h *Harness) Check(ctx context.Context, source string, r Renderer, update ...bool) (*Result, error) {
	ctx, span := infrastructure.Tracer().Start(ctx, "golden.check",
		trace.WithAttributes(attribute.String("source", source)),
	)
	defer span.End()

	logger := h.logger()
	manager := files.NewManager(h.Root, logger)
	resultDir := config.GoldenResultDir
	masterDir := config.GoldenMasterDir

	for _, dir := range []string{resultDir, masterDir} {
		if err := manager.EnsureDirectory(dir); err != nil {
			return nil, apperrors.NewStorageError("failed to create golden directory", err).
				WithContext("dir", manager.Path(dir))
		}
	}

	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	res := &Result{
		Primary:    manager.Path(filepath.Join(resultDir, base+h.PrimaryExt)),
		Descriptor: manager.Path(filepath.Join(resultDir, base+h.DescriptorExt)),
	}

	if err := r.Render(ctx, source, res.Primary, res.Descriptor); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, apperrors.NewResourceError(fmt.Sprintf("failed to render '%s'", source), err)
	}

	for _, ext := range sidecarExts {
		if err := manager.RemoveIfExists(res.Primary + ext); err != nil {
			return nil, apperrors.NewStorageError("failed to remove renderer sidecar", err)
		}
	}

	parts, err := files.NewDiscovery("").FindFilesByPattern(manager.Path(resultDir), base+h.DescriptorExt+"*")
	if err != nil {
		return nil, apperrors.NewStorageError("failed to collect descriptor files", err)
	}
	for _, p := range parts {
		res.Parts = append(res.Parts, p.Path)
	}

	artifacts := append([]string{res.Primary}, res.Parts...)

	if h.Update || (len(update) > 0 && update[0]) {
		for _, artifact := range artifacts {
			if err := manager.CopyFile(artifact, masterPath(manager, artifact)); err != nil {
				return nil, apperrors.NewStorageError("failed to update master", err).
					WithContext("file", artifact)
			}
		}
		res.Updated = true
		h.Metrics.RecordGoldenCheck(ctx, "update")
		logger.InfoContext(ctx, "Golden master updated",
			slog.String("source", source),
			slog.Int("files", len(artifacts)))
		return res, nil
	}

	for _, artifact := range artifacts {
		if line := reportMismatch(artifact, masterPath(manager, artifact)); line != "" {
			res.Report = append(res.Report, line)
		}
	}

	if len(res.Report) > 0 {
		h.Metrics.RecordGoldenCheck(ctx, "fail")
		err := &MismatchError{Report: res.Report}
		infrastructure.RecordError(ctx, err)
		logger.WarnContext(ctx, "Golden check failed",
			slog.String("source", source),
			slog.Any("report", res.Report))
		return res, err
	}

	h.Metrics.RecordGoldenCheck(ctx, "pass")
	logger.DebugContext(ctx, "Golden check passed", slog.String("source", source))
	return res, nil
}

func (h *Harness) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func masterPath(m *files.Manager, resultFile string) string {
	return m.Path(filepath.Join(config.GoldenMasterDir, filepath.Base(resultFile)))
}

// reportMismatch returns a report line, or "" when both files exist with equal checksums
func reportMismatch(result, master string) string {
	for _, path := range []string{result, master} {
		if _, err := os.Stat(path); err != nil {
			return fmt.Sprintf("%s does not exist", path)
		}
	}

	a, errA := Checksum(result)
	b, errB := Checksum(master)
	if errA != nil || errB != nil || a != b {
		return fmt.Sprintf("%s and %s differ", result, master)
	}
	return ""
}

// Checksum returns the xxhash64 of a file's content
func Checksum(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
