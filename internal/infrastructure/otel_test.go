package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gxkit/internal/config"
	apperrors "gxkit/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestInitializeOTel_NoTracing(t *testing.T) {
	providers, err := InitializeOTel(config.TelemetryConfig{TraceExporter: "none", SampleRatio: 1}, "test", testLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Registry)

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_StdoutTracing(t *testing.T) {
	providers, err := InitializeOTel(config.TelemetryConfig{TraceExporter: "stdout", SampleRatio: 1}, "test", testLogger())
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)

	ctx, span := Tracer().Start(context.Background(), "test-operation")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	assert.Equal(t, TraceIDFromContext(ctx), GetTraceID(ctx))
	RecordError(ctx, errors.New("boom"))
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(config.TelemetryConfig{TraceExporter: "zipkin"}, "test", testLogger())
	assert.Error(t, err)
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestMetricsTextfile(t *testing.T) {
	textfile := filepath.Join(t.TempDir(), "gxkit.prom")

	providers, err := InitializeOTel(config.TelemetryConfig{
		TraceExporter:   "none",
		MetricsTextfile: textfile,
	}, "test", testLogger())
	require.NoError(t, err)

	m, err := NewMetrics(providers.MeterProvider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordTableLoad(ctx, "rockcode", 4, 10*time.Millisecond, nil)
	m.RecordTableLoad(ctx, "missing", 0, time.Millisecond, apperrors.NewResourceError("Invalid table 'missing'", nil))
	m.RecordIndexed(ctx, "geosoft.gxpy", 12)
	m.RecordPageRendered(ctx, config.HistoryFileName)
	m.RecordGoldenCheck(ctx, "pass")

	require.NoError(t, providers.Shutdown(ctx))

	content, err := os.ReadFile(textfile)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "gx_tables_loaded")
	assert.Contains(t, text, "gx_table_load_errors")
	assert.Contains(t, text, `error_type="RESOURCE"`)
	assert.Contains(t, text, "gx_symbols_indexed")
	assert.Contains(t, text, "gx_golden_checks")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordTableLoad(ctx, "t", 1, time.Second, nil)
		m.RecordIndexed(ctx, "p", 1)
		m.RecordPageRendered(ctx, "p")
		m.RecordGoldenCheck(ctx, "pass")
	})
}
