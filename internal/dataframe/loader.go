package dataframe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "gxkit/internal/errors"
	"gxkit/internal/infrastructure"
	"gxkit/internal/ltb"
)

// Option configures a Load call
type Option func(*request)

type request struct {
	record    string
	hasRecord bool
	records   []string
	selective bool
	columns   []string
	filtered  bool
}

// WithRecord scopes the load to a single record. An empty name is rejected.
func WithRecord(name string) Option {
	return func(r *request) {
		r.record = name
		r.hasRecord = true
	}
}

// WithRecords loads only the named records, in the order given
func WithRecords(names ...string) Option {
	return func(r *request) {
		r.records = append([]string(nil), names...)
		r.selective = true
	}
}

// WithColumns keeps only the named fields. Unset means all fields; an
// empty list matches none.
func WithColumns(names ...string) Option {
	return func(r *request) {
		r.columns = append([]string(nil), names...)
		r.filtered = true
	}
}

func (r *request) includes(field string) bool {
	if !r.filtered {
		return true
	}
	for _, c := range r.columns {
		if c == field {
			return true
		}
	}
	return false
}

// Loader builds frames from table resources
type Loader struct {
	opener  Opener
	logger  *slog.Logger
	metrics *infrastructure.Metrics
}

// NewLoader creates a loader. A nil logger uses the default logger and
// nil metrics disables recording.
func NewLoader(opener Opener, logger *slog.Logger, metrics *infrastructure.Metrics) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = infrastructure.DefaultMetrics()
	}
	return &Loader{
		opener:  opener,
		logger:  infrastructure.WithComponent(logger, "dataframe"),
		metrics: metrics,
	}
}

// Load copies one table into a new frame. Errors are *errors.AppError:
// ARGUMENT for an empty record name, RESOURCE when the table cannot be
// opened, NOT_FOUND when a requested record is absent and NO_MATCH when
// no column survives the filter.
func (l *Loader) Load(ctx context.Context, table string, opts ...Option) (*Frame, error) {
	ctx, span := infrastructure.Tracer().Start(ctx, "dataframe.load",
		trace.WithAttributes(attribute.String("table", table)),
	)
	defer span.End()

	start := time.Now()
	frame, err := l.load(ctx, table, opts)

	rows := 0
	if frame != nil {
		rows = frame.Len()
	}
	l.metrics.RecordTableLoad(ctx, table, rows, time.Since(start), err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		l.logger.DebugContext(ctx, "Table load failed",
			slog.String("table", table),
			slog.String("error_type", string(apperrors.TypeOf(err))),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("rows", rows),
		attribute.Int("columns", len(frame.columns)),
	)
	l.logger.DebugContext(ctx, "Table loaded",
		slog.String("table", table),
		slog.Int("rows", rows),
		slog.Int("columns", len(frame.columns)))

	return frame, nil
}

func (l *Loader) load(ctx context.Context, table string, opts []Option) (*Frame, error) {
	req := &request{}
	for _, opt := range opts {
		opt(req)
	}

	if req.hasRecord && req.record == "" {
		return nil, apperrors.NewArgumentError("Empty records string.")
	}
	if table == "" {
		return nil, apperrors.NewArgumentError("Empty table name.")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := l.opener.Open(table, req.record)
	if err != nil {
		if req.hasRecord && errors.Is(err, ltb.ErrKeyNotFound) {
			return nil, apperrors.NewNotFoundError(
				fmt.Sprintf("Record '%s' not in '%s' (%v)", req.record, table, err), err).
				WithContext("table", table).
				WithContext("record", req.record)
		}
		return nil, apperrors.NewResourceError(
			fmt.Sprintf("Invalid table '%s' (%v)", table, err), err).
			WithContext("table", table)
	}

	frame := newFrame(table, src.FieldName(0))
	var fields []int
	for i := 1; i < src.Fields(); i++ {
		name := src.FieldName(i)
		if req.includes(name) {
			frame.addColumn(name)
			fields = append(fields, i)
		}
	}

	if len(fields) == 0 {
		return nil, apperrors.NewNoMatchError(
			fmt.Sprintf("Table '%s' has no columns or '%s' column(s) not found.", table, strings.Join(req.columns, ", "))).
			WithContext("table", table)
	}

	if !req.selective {
		for row, key := range src.Keys() {
			frame.setRow(key, rowValues(src, row, fields))
		}
		return frame, nil
	}

	for _, key := range req.records {
		row, err := src.FindKey(key)
		if err != nil {
			return nil, apperrors.NewNotFoundError(
				fmt.Sprintf("Record '%s' not in '%s'", key, table), err).
				WithContext("table", table).
				WithContext("record", key)
		}
		frame.setRow(key, rowValues(src, row, fields))
	}

	return frame, nil
}

func rowValues(src Source, row int, fields []int) []string {
	values := make([]string, len(fields))
	for j, field := range fields {
		values[j] = src.Value(row, field)
	}
	return values
}

// TableRecord returns one record of a table as a column to value mapping
func (l *Loader) TableRecord(ctx context.Context, table, record string) (map[string]string, error) {
	frame, err := l.Load(ctx, table, WithRecord(record))
	if err != nil {
		return nil, err
	}
	row, _ := frame.Row(record)
	return row, nil
}

// TableColumn returns one column of a table as a record to value mapping
func (l *Loader) TableColumn(ctx context.Context, table, column string) (map[string]string, error) {
	frame, err := l.Load(ctx, table, WithColumns(column))
	if err != nil {
		return nil, err
	}
	col, _ := frame.Column(column)
	return col, nil
}
