package infrastructure

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "gxkit/internal/errors"
)

// Metrics holds the gxkit instruments
type Metrics struct {
	TablesLoaded      metric.Int64Counter
	TableLoadErrors   metric.Int64Counter
	TableRowsLoaded   metric.Int64Counter
	TableLoadDuration metric.Float64Histogram
	SymbolsIndexed    metric.Int64Counter
	PagesRendered     metric.Int64Counter
	GoldenChecks      metric.Int64Counter
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns instruments created from the global meter.
// Instruments created before InitializeOTel are delegated once a provider is installed.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		m, err := NewMetrics(Meter())
		if err != nil {
			GetLogger().Warn("Failed to create metrics, recording disabled", "error", err)
			return
		}
		defaultMetrics = m
	})
	return defaultMetrics
}

// NewMetrics creates the gxkit instruments on the given meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	if m.TablesLoaded, err = meter.Int64Counter(
		"gx_tables_loaded_total",
		metric.WithDescription("Total number of tables loaded into frames"),
	); err != nil {
		return nil, fmt.Errorf("gx_tables_loaded_total: %w", err)
	}

	if m.TableLoadErrors, err = meter.Int64Counter(
		"gx_table_load_errors_total",
		metric.WithDescription("Total number of failed table loads by error type"),
	); err != nil {
		return nil, fmt.Errorf("gx_table_load_errors_total: %w", err)
	}

	if m.TableRowsLoaded, err = meter.Int64Counter(
		"gx_table_rows_loaded_total",
		metric.WithDescription("Total number of table records copied into frames"),
	); err != nil {
		return nil, fmt.Errorf("gx_table_rows_loaded_total: %w", err)
	}

	if m.TableLoadDuration, err = meter.Float64Histogram(
		"gx_table_load_duration_seconds",
		metric.WithDescription("Table load duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("gx_table_load_duration_seconds: %w", err)
	}

	if m.SymbolsIndexed, err = meter.Int64Counter(
		"gx_symbols_indexed_total",
		metric.WithDescription("Total number of symbols recorded in a version history"),
	); err != nil {
		return nil, fmt.Errorf("gx_symbols_indexed_total: %w", err)
	}

	if m.PagesRendered, err = meter.Int64Counter(
		"gx_pages_rendered_total",
		metric.WithDescription("Total number of documentation pages rendered"),
	); err != nil {
		return nil, fmt.Errorf("gx_pages_rendered_total: %w", err)
	}

	if m.GoldenChecks, err = meter.Int64Counter(
		"gx_golden_checks_total",
		metric.WithDescription("Total number of golden-file checks by result"),
	); err != nil {
		return nil, fmt.Errorf("gx_golden_checks_total: %w", err)
	}

	return &m, nil
}

// RecordTableLoad records one table load attempt
func (m *Metrics) RecordTableLoad(ctx context.Context, table string, rows int, duration time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("table", table))
	m.TableLoadDuration.Record(ctx, duration.Seconds(), attrs)

	if err != nil {
		errType := string(apperrors.TypeOf(err))
		if errType == "" {
			errType = "UNKNOWN"
		}
		m.TableLoadErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("table", table),
			attribute.String("error.type", errType),
		))
		return
	}

	m.TablesLoaded.Add(ctx, 1, attrs)
	m.TableRowsLoaded.Add(ctx, int64(rows), attrs)
}

// RecordIndexed records the number of symbols a package contributed to its history
func (m *Metrics) RecordIndexed(ctx context.Context, pkg string, symbols int) {
	if m == nil {
		return
	}
	m.SymbolsIndexed.Add(ctx, int64(symbols), metric.WithAttributes(attribute.String("package", pkg)))
}

// RecordPageRendered records one rendered documentation page
func (m *Metrics) RecordPageRendered(ctx context.Context, page string) {
	if m == nil {
		return
	}
	m.PagesRendered.Add(ctx, 1, metric.WithAttributes(attribute.String("page", page)))
}

// RecordGoldenCheck records a golden-file check outcome: pass, fail or update
func (m *Metrics) RecordGoldenCheck(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.GoldenChecks.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
