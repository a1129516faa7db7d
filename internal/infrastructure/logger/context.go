package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	LoggerKey    contextKey = "logger"
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
)

// WithContext stores the logger in ctx for later retrieval.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext returns the logger carried by ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// stamp stores value under key and attaches it as a field on a child
// logger, so logs and context stay in sync.
func stamp(ctx context.Context, logger *zap.Logger, key contextKey, value string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, key, value)
	child := logger.With(zap.String(string(key), value))
	return WithContext(ctx, child), child
}

// WithRequestID stamps the request ID on both the context and a child
// logger, returning the pair.
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return stamp(ctx, logger, RequestIDKey, requestID)
}

// WithUserID stamps the acting user's ID on both the context and a
// child logger.
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return stamp(ctx, logger, UserIDKey, userID)
}

func contextString(ctx context.Context, key contextKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}

func GetRequestID(ctx context.Context) string { return contextString(ctx, RequestIDKey) }

func GetUserID(ctx context.Context) string { return contextString(ctx, UserIDKey) }

// validSpanContext returns the span context from ctx only when it
// carries usable trace identifiers.
func validSpanContext(ctx context.Context) (trace.SpanContext, bool) {
	span := trace.SpanFromContext(ctx)
	if span == nil {
		return trace.SpanContext{}, false
	}
	spanCtx := span.SpanContext()
	return spanCtx, spanCtx.IsValid()
}

// GetTraceID returns the active trace ID, or "" without a valid span.
func GetTraceID(ctx context.Context) string {
	spanCtx, ok := validSpanContext(ctx)
	if !ok {
		return ""
	}
	return spanCtx.TraceID().String()
}

// GetSpanID returns the active span ID, or "" without a valid span.
func GetSpanID(ctx context.Context) string {
	spanCtx, ok := validSpanContext(ctx)
	if !ok {
		return ""
	}
	return spanCtx.SpanID().String()
}

// WithTraceContext attaches trace_id and span_id fields from the
// active span. Without a valid span the logger is returned unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanCtx, ok := validSpanContext(ctx)
	if !ok {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}

// ContextLogger logs with automatic correlation: every entry carries
// trace_id, span_id, request_id and user_id when the context has them.
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L builds a ContextLogger from the logger stored in ctx:
//
//	logger.L(ctx).Info("account created", zap.String("code", code))
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: FromContext(ctx)}
}

// WithLogger builds a ContextLogger around an explicit logger instead
// of the one stored in ctx.
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: logger}
}

func (cl *ContextLogger) enrichedLogger() *zap.Logger {
	l := cl.logger
	if l == nil {
		l = zap.NewNop()
	}

	if spanCtx, ok := validSpanContext(cl.ctx); ok {
		l = l.With(
			zap.String("trace_id", spanCtx.TraceID().String()),
			zap.String("span_id", spanCtx.SpanID().String()),
		)
	}
	if requestID := GetRequestID(cl.ctx); requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	if userID := GetUserID(cl.ctx); userID != "" {
		l = l.With(zap.String("user_id", userID))
	}

	return l
}

// With returns a child ContextLogger carrying extra fields.
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{ctx: cl.ctx, logger: cl.logger.With(fields...)}
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) { cl.enrichedLogger().Debug(msg, fields...) }

func (cl *ContextLogger) Info(msg string, fields ...zap.Field) { cl.enrichedLogger().Info(msg, fields...) }

func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) { cl.enrichedLogger().Warn(msg, fields...) }

func (cl *ContextLogger) Error(msg string, fields ...zap.Field) { cl.enrichedLogger().Error(msg, fields...) }

func (cl *ContextLogger) Fatal(msg string, fields ...zap.Field) { cl.enrichedLogger().Fatal(msg, fields...) }

func (cl *ContextLogger) Panic(msg string, fields ...zap.Field) { cl.enrichedLogger().Panic(msg, fields...) }

// Zap exposes the enriched *zap.Logger for APIs that require one.
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.enrichedLogger()
}

// Sugar returns the enriched logger in sugared form.
func (cl *ContextLogger) Sugar() *zap.SugaredLogger {
	return cl.enrichedLogger().Sugar()
}
