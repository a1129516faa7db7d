package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls span enrichment for database operations.
type DBTracingConfig struct {
	Enabled          bool
	LogFullSQL       bool          // include statement text in spans; keep off outside dev
	SlowQueryThresh  time.Duration // queries above this get a slow_query marker
	DBSystem         string
	WithoutVariables bool // strip bind variables from recorded SQL
}

// DefaultDBTracingConfig returns the production-safe defaults: tracing
// off, bind variables stripped, 200ms slow-query threshold.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:          false,
		LogFullSQL:       false,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}
}

// DBTracingPlugin layers slow-query and error annotations on top of the
// otelgorm spans.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// gormOps enumerates the statement kinds both callback sets hook into.
var gormOps = []string{"create", "query", "update", "delete", "row", "raw"}

// hookCallbacks registers the before/after pair for one statement kind.
func hookCallbacks(db *gorm.DB, op string, before, after func(*gorm.DB)) error {
	beforeName := "otel_timing:before_" + op
	afterName := "otel_slow_query:" + op
	anchor := "gorm:" + op

	switch op {
	case "create":
		if err := db.Callback().Create().Before(anchor).Register(beforeName, before); err != nil {
			return err
		}
		return db.Callback().Create().After(anchor).Register(afterName, after)
	case "query":
		if err := db.Callback().Query().Before(anchor).Register(beforeName, before); err != nil {
			return err
		}
		return db.Callback().Query().After(anchor).Register(afterName, after)
	case "update":
		if err := db.Callback().Update().Before(anchor).Register(beforeName, before); err != nil {
			return err
		}
		return db.Callback().Update().After(anchor).Register(afterName, after)
	case "delete":
		if err := db.Callback().Delete().Before(anchor).Register(beforeName, before); err != nil {
			return err
		}
		return db.Callback().Delete().After(anchor).Register(afterName, after)
	case "row":
		if err := db.Callback().Row().Before(anchor).Register(beforeName, before); err != nil {
			return err
		}
		return db.Callback().Row().After(anchor).Register(afterName, after)
	default:
		if err := db.Callback().Raw().Before(anchor).Register(beforeName, before); err != nil {
			return err
		}
		return db.Callback().Raw().After(anchor).Register(afterName, after)
	}
}

// RegisterOtelGorm installs the otelgorm plugin plus the timing and
// slow-query callbacks. A disabled config makes this a no-op.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	stampStart := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
		}
	}

	for _, op := range gormOps {
		if err := hookCallbacks(db, op, stampStart, p.annotateSpan); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)

	return nil
}

// annotateSpan runs after every statement: rows affected, table name,
// error status and the slow-query marker.
func (p *DBTracingPlugin) annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// a missing row is a normal outcome, not a span error
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	if elapsed <= p.config.SlowQueryThresh {
		return
	}

	span.SetAttributes(
		attribute.Bool("db.slow_query", true),
		attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
	)
	span.AddEvent("slow_query_warning", trace.WithAttributes(
		attribute.Int64("duration_ms", elapsed.Milliseconds()),
		attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
	))
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// WithQueryStartTime stamps the query start time used by the
// slow-query annotation.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}
