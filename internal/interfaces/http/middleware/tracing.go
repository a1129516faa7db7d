// Package middleware provides HTTP middleware for the accounting service.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength caps request IDs taken from client headers.
const MaxRequestIDLength = 128

// TracingConfig controls the request tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig enables tracing under the service's default name.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "accounting-service",
		Enabled:     true,
	}
}

// Tracing traces requests with the default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin so every request gets a span named
// "METHOD route_pattern", then stamps the span with request_id and the
// authenticated user_id. Disabled tracing yields a pass-through handler.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	otelHandler := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		// otelgin opens the span and runs the rest of the chain.
		otelHandler(c)

		if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
			stampRequestIdentity(c, span)
		}
	}
}

func stampRequestIdentity(c *gin.Context, span trace.Span) {
	if requestID := tracedRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if userID := GetJWTUserID(c); userID != "" {
		span.SetAttributes(attribute.String("user_id", userID))
	}
}

// tracedRequestID prefers the ID the RequestID middleware stored in the
// gin context, falling back to the client header. Header values are
// truncated so an oversized header cannot bloat span storage.
func tracedRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDContextKey); id != "" {
		return id
	}
	headerID := c.GetHeader(RequestIDKey)
	if len(headerID) > MaxRequestIDLength {
		headerID = headerID[:MaxRequestIDLength]
	}
	return headerID
}

// SpanErrorMarker flags the current span when the response is 4xx or
// 5xx. Place it after the Tracing middleware.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}

		span.SetStatus(codes.Error, statusErrorLabel(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}

func statusErrorLabel(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "Internal Server Error"
	case status == http.StatusUnauthorized:
		return "Unauthorized"
	case status == http.StatusForbidden:
		return "Forbidden"
	case status == http.StatusNotFound:
		return "Not Found"
	}
	return "Client Error"
}

// TracingAttributeInjector re-stamps identity attributes onto the
// current span. Place it after both the Tracing and JWT middleware so
// the user_id from the validated token is available.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
			stampRequestIdentity(c, span)
		}
		c.Next()
	}
}
