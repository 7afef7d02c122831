package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys used by this package.
type ContextKey string

const (
	// TraceIDKey is the context key for trace ID.
	TraceIDKey ContextKey = "trace_id"
	// DocumentIDKey is the context key for the document handle an operation
	// is scoped to, when any.
	DocumentIDKey ContextKey = "document_id"
)

// NewTraceID generates a new trace ID for operations started outside a span.
func NewTraceID() string {
	return uuid.New().String()
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context, or "" if unset.
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(TraceIDKey).(string); ok {
		return v
	}
	return ""
}

// WithDocumentID adds a document handle to the context.
func WithDocumentID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, DocumentIDKey, id)
}

// GetDocumentID retrieves the document handle from the context.
func GetDocumentID(ctx context.Context) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	v, ok := ctx.Value(DocumentIDKey).(int)
	return v, ok
}

// LoggerFromContext returns baseLogger enriched with whatever tracing
// information the context carries.
func LoggerFromContext(ctx context.Context, baseLogger zerolog.Logger) zerolog.Logger {
	logCtx := baseLogger.With()

	if traceID := GetTraceID(ctx); traceID != "" {
		logCtx = logCtx.Str("trace_id", traceID)
	}
	if docID, ok := GetDocumentID(ctx); ok {
		logCtx = logCtx.Int("document_id", docID)
	}

	return logCtx.Logger()
}
