package observability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Tracer returns a tracer for the given name
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// StartSpan starts a new span from context
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, opts...)
}

// StartDBSpan starts a span for database operations
func StartDBSpan(ctx context.Context, operation, table string) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("DB %s %s", operation, table),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", table),
		),
	)
}

// StartServiceSpan starts a span for service operations
func StartServiceSpan(ctx context.Context, service, operation string) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("%s.%s", service, operation),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("service.component", service),
			attribute.String("service.operation", operation),
		),
	)
}

// RecordError records an error on the span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSuccess marks the span as successful
func SetSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// AddEvent adds an event to the span
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// DatabaseMetrics holds database-related metrics
type DatabaseMetrics struct {
	queryDuration metric.Float64Histogram
	queryCount    metric.Int64Counter
	errorCount    metric.Int64Counter
}

// NewDatabaseMetrics creates database metrics instruments
func NewDatabaseMetrics() (*DatabaseMetrics, error) {
	meter := otel.Meter(instrumentationName)

	queryDuration, err := meter.Float64Histogram(
		"db.query.duration",
		metric.WithDescription("Database query duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	queryCount, err := meter.Int64Counter(
		"db.query.count",
		metric.WithDescription("Total number of database queries"),
		metric.WithUnit("{queries}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"db.error.count",
		metric.WithDescription("Total number of database errors"),
		metric.WithUnit("{errors}"),
	)
	if err != nil {
		return nil, err
	}

	return &DatabaseMetrics{
		queryDuration: queryDuration,
		queryCount:    queryCount,
		errorCount:    errorCount,
	}, nil
}

// RecordQuery records count, latency, and errors for one statement
func (m *DatabaseMetrics) RecordQuery(ctx context.Context, operation, dbSystem string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.String("db.system", dbSystem),
	}

	m.queryCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.queryDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.errorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// TraceDB wraps sql.DB with tracing
type TraceDB struct {
	db       *sql.DB
	dbSystem string
	metrics  *DatabaseMetrics
}

// NewTraceDB creates a traced database wrapper. dbSystem names the backend
// ("sqlite" or "postgresql") in span attributes.
func NewTraceDB(db *sql.DB, dbSystem string) (*TraceDB, error) {
	metrics, err := NewDatabaseMetrics()
	if err != nil {
		return nil, err
	}

	return &TraceDB{
		db:       db,
		dbSystem: dbSystem,
		metrics:  metrics,
	}, nil
}

// QueryContext executes a query with tracing
func (t *TraceDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	ctx, span := StartSpan(ctx, "DB Query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", t.dbSystem),
			attribute.String("db.statement", truncateQuery(query)),
		),
	)
	defer span.End()

	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	duration := time.Since(start)
	t.metrics.RecordQuery(ctx, "query", t.dbSystem, duration, err)

	if err != nil {
		RecordError(span, err)
	} else {
		SetSuccess(span)
	}

	span.SetAttributes(attribute.Int64("db.query_duration_ms", duration.Milliseconds()))

	return rows, err
}

// ExecContext executes a statement with tracing
func (t *TraceDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	ctx, span := StartSpan(ctx, "DB Exec",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", t.dbSystem),
			attribute.String("db.statement", truncateQuery(query)),
		),
	)
	defer span.End()

	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	duration := time.Since(start)
	t.metrics.RecordQuery(ctx, "exec", t.dbSystem, duration, err)

	if err != nil {
		RecordError(span, err)
	} else {
		SetSuccess(span)
		if rowsAffected, raErr := result.RowsAffected(); raErr == nil {
			span.SetAttributes(attribute.Int64("db.rows_affected", rowsAffected))
		}
	}

	span.SetAttributes(attribute.Int64("db.query_duration_ms", duration.Milliseconds()))

	return result, err
}

// QueryRowContext executes a query that returns a single row with tracing
func (t *TraceDB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	ctx, span := StartSpan(ctx, "DB QueryRow",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", t.dbSystem),
			attribute.String("db.statement", truncateQuery(query)),
		),
	)
	// The row is scanned after this returns, so the span only covers dispatch.

	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.metrics.RecordQuery(ctx, "query_row", t.dbSystem, time.Since(start), nil)
	span.End()
	return row
}

// BeginTx starts a transaction with a surrounding span
func (t *TraceDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	ctx, span := StartSpan(ctx, "DB BeginTx",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.system", t.dbSystem)),
	)
	defer span.End()

	tx, err := t.db.BeginTx(ctx, opts)
	if err != nil {
		RecordError(span, err)
	}
	return tx, err
}

// DB returns the underlying database connection
func (t *TraceDB) DB() *sql.DB {
	return t.db
}

func truncateQuery(query string) string {
	if len(query) > 500 {
		return query[:500] + "..."
	}
	return query
}

// AlbumMetrics holds custom album metrics
type AlbumMetrics struct {
	photoUploads metric.Int64Counter
	pushSends    metric.Int64Counter
	commentPosts metric.Int64Counter
	authAttempts metric.Int64Counter
	storageUsed  metric.Int64UpDownCounter
}

// NewAlbumMetrics creates album metrics instruments
func NewAlbumMetrics() (*AlbumMetrics, error) {
	meter := otel.Meter(instrumentationName)

	photoUploads, err := meter.Int64Counter(
		"familyalbum.photo.uploads",
		metric.WithDescription("Total number of photo uploads"),
		metric.WithUnit("{uploads}"),
	)
	if err != nil {
		return nil, err
	}

	pushSends, err := meter.Int64Counter(
		"familyalbum.push.sends",
		metric.WithDescription("Total number of Web Push deliveries attempted"),
		metric.WithUnit("{sends}"),
	)
	if err != nil {
		return nil, err
	}

	commentPosts, err := meter.Int64Counter(
		"familyalbum.comment.posts",
		metric.WithDescription("Total number of comment and guestbook posts"),
		metric.WithUnit("{posts}"),
	)
	if err != nil {
		return nil, err
	}

	authAttempts, err := meter.Int64Counter(
		"familyalbum.auth.attempts",
		metric.WithDescription("Total number of admin login attempts"),
		metric.WithUnit("{attempts}"),
	)
	if err != nil {
		return nil, err
	}

	storageUsed, err := meter.Int64UpDownCounter(
		"familyalbum.storage.bytes",
		metric.WithDescription("Storage used in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &AlbumMetrics{
		photoUploads: photoUploads,
		pushSends:    pushSends,
		commentPosts: commentPosts,
		authAttempts: authAttempts,
		storageUsed:  storageUsed,
	}, nil
}

// RecordPhotoUpload records a photo upload outcome
func (m *AlbumMetrics) RecordPhotoUpload(ctx context.Context, fileSize int64, success bool) {
	if m == nil {
		return
	}
	m.photoUploads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
	if success {
		m.storageUsed.Add(ctx, fileSize)
	}
}

// RecordPushSends records a batch of Web Push deliveries
func (m *AlbumMetrics) RecordPushSends(ctx context.Context, attempted, delivered int) {
	if m == nil {
		return
	}
	m.pushSends.Add(ctx, int64(attempted), metric.WithAttributes(
		attribute.Int("delivered", delivered),
	))
}

// RecordCommentPost records a comment or guestbook post
func (m *AlbumMetrics) RecordCommentPost(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.commentPosts.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordAuthAttempt records an admin login attempt
func (m *AlbumMetrics) RecordAuthAttempt(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	m.authAttempts.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}
