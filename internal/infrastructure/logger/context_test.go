package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// captureLogger returns a debug-level JSON logger writing into the
// returned buffer.
func captureLogger() (*zap.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(&buf),
		zapcore.DebugLevel,
	)
	return zap.New(core), &buf
}

// noopSpanContext starts a span from a noop tracer; its span context
// is deliberately invalid.
func noopSpanContext() (context.Context, trace.Span) {
	tracer := noop.NewTracerProvider().Tracer("test")
	return tracer.Start(context.Background(), "posting")
}

func devLogger(t *testing.T) *zap.Logger {
	t.Helper()
	l, err := NewForEnvironment("development")
	require.NoError(t, err)
	return l
}

func TestWithContextRoundTrip(t *testing.T) {
	ctx := WithContext(context.Background(), devLogger(t))
	assert.NotNil(t, FromContext(ctx))
}

func TestFromContextFallsBackToNop(t *testing.T) {
	// missing and wrong-typed values both yield a usable no-op logger
	assert.NotNil(t, FromContext(context.Background()))

	ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
	l := FromContext(ctx)
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info("posting recorded") })
}

func TestWithRequestID(t *testing.T) {
	ctx, child := WithRequestID(context.Background(), devLogger(t), "req-acct-7")

	require.NotNil(t, child)
	assert.Equal(t, "req-acct-7", GetRequestID(ctx))
}

func TestWithUserID(t *testing.T) {
	ctx, child := WithUserID(context.Background(), devLogger(t), "clerk-12")

	require.NotNil(t, child)
	assert.Equal(t, "clerk-12", GetUserID(ctx))
}

func TestContextGettersEmpty(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetUserID(context.Background()))
}

func TestContextEnrichmentChaining(t *testing.T) {
	l := devLogger(t)
	ctx := context.Background()

	ctx, l = WithRequestID(ctx, l, "req-1")
	ctx, l = WithUserID(ctx, l, "clerk-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "clerk-1", GetUserID(ctx))
	assert.NotNil(t, l)
}

func TestWithRequestIDOverride(t *testing.T) {
	l := devLogger(t)
	ctx, _ := WithRequestID(context.Background(), l, "first")
	ctx, _ = WithRequestID(ctx, l, "second")

	assert.Equal(t, "second", GetRequestID(ctx))
}

func TestContextKeysDistinct(t *testing.T) {
	assert.NotEqual(t, LoggerKey, RequestIDKey)
	assert.NotEqual(t, RequestIDKey, UserIDKey)
	assert.NotEqual(t, LoggerKey, UserIDKey)
}

func TestEnrichedLoggerStoredInContext(t *testing.T) {
	base := devLogger(t)
	ctx, child := WithRequestID(context.Background(), base, "req-x")

	assert.NotNil(t, FromContext(ctx))
	assert.NotEqual(t, base, child)
}

func TestTraceIDsWithoutSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))
}

func TestTraceIDsWithNoopSpan(t *testing.T) {
	ctx, span := noopSpanContext()
	defer span.End()

	// the noop tracer hands out invalid span contexts, so no IDs
	require.False(t, trace.SpanFromContext(ctx).SpanContext().IsValid())
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))
}

func TestWithTraceContextPassthrough(t *testing.T) {
	base := zap.NewNop()

	// no span at all
	assert.Equal(t, base, WithTraceContext(context.Background(), base))

	// invalid span context also leaves the logger untouched
	ctx, span := noopSpanContext()
	defer span.End()
	assert.Equal(t, base, WithTraceContext(ctx, base))
}

func TestL(t *testing.T) {
	cl := L(context.Background())

	require.NotNil(t, cl)
	assert.NotNil(t, cl.ctx)
	assert.NotNil(t, cl.logger)
}

func TestLFindsContextLogger(t *testing.T) {
	ctx := WithContext(context.Background(), devLogger(t))
	cl := L(ctx)

	require.NotNil(t, cl)
	assert.NotNil(t, cl.logger)
}

func TestWithLoggerExplicit(t *testing.T) {
	base := devLogger(t)
	cl := WithLogger(context.Background(), base)

	require.NotNil(t, cl)
	assert.Equal(t, base, cl.logger)
}

func TestContextLoggerWith(t *testing.T) {
	base, _ := captureLogger()
	ctx := context.Background()

	child := WithLogger(ctx, base).With(zap.String("account_code", "1000"))

	require.NotNil(t, child)
	assert.Equal(t, ctx, child.ctx)
	assert.NotEqual(t, base, child.logger)
}

func TestContextLoggerLevelsDoNotPanic(t *testing.T) {
	cl := WithLogger(context.Background(), zap.NewNop())

	assert.NotPanics(t, func() {
		cl.Debug("debug")
		cl.Info("info")
		cl.Warn("warn")
		cl.Error("error")
	})
}

func TestContextLoggerZapAndSugar(t *testing.T) {
	cl := WithLogger(context.Background(), zap.NewNop())

	zl := cl.Zap()
	require.NotNil(t, zl)
	assert.NotPanics(t, func() { zl.Info("via zap") })

	sugar := cl.Sugar()
	require.NotNil(t, sugar)
	assert.NotPanics(t, func() { sugar.Infof("account %s", "1000") })
}

func TestContextLoggerEnrichment(t *testing.T) {
	base, buf := captureLogger()

	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, base, "req-acct-9")
	ctx, _ = WithUserID(ctx, base, "clerk-3")
	ctx = WithContext(ctx, base)

	L(ctx).Info("transaction recorded", zap.String("description", "cash sale"))

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-acct-9"`)
	assert.Contains(t, out, `"user_id":"clerk-3"`)
	assert.Contains(t, out, `"description":"cash sale"`)
	assert.Contains(t, out, `"msg":"transaction recorded"`)
}

func TestContextLoggerValuesDirectlyInContext(t *testing.T) {
	base, buf := captureLogger()

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-aaa")
	ctx = context.WithValue(ctx, UserIDKey, "clerk-ccc")

	WithLogger(ctx, base).Info("balance computed")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-aaa"`)
	assert.Contains(t, out, `"user_id":"clerk-ccc"`)
}

func TestContextLoggerOmitsEmptyFields(t *testing.T) {
	base, buf := captureLogger()

	WithLogger(context.Background(), base).Info("report generated")

	out := buf.String()
	assert.Contains(t, out, `"msg":"report generated"`)
	assert.NotContains(t, out, `"request_id":""`)
	assert.NotContains(t, out, `"user_id":""`)
}

func TestContextLoggerNilLogger(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}

	assert.NotPanics(t, func() { cl.Info("tolerates nil") })
}

func TestContextLoggerWithChaining(t *testing.T) {
	cl := WithLogger(context.Background(), zap.NewNop()).
		With(zap.String("account_code", "1000")).
		With(zap.String("account_type", "ASSET"))

	require.NotNil(t, cl)
	assert.NotPanics(t, func() { cl.Info("chained") })
}
