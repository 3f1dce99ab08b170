// Package context carries per-invocation values (request id, tool name and
// credentials) through a standard context.Context.
package context

import (
	stdctx "context"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey int

const (
	// RequestIDKey is the context key for request IDs
	RequestIDKey contextKey = iota
	// ToolNameKey is the context key for the tool being invoked
	ToolNameKey
	credentialsKey
)

// NewRequestID generates a new unique request ID
func NewRequestID() string {
	return uuid.New().String()
}

// WithRequestID adds a request ID to the context
func WithRequestID(parent stdctx.Context, requestID string) stdctx.Context {
	return stdctx.WithValue(parent, RequestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from the context
func RequestIDFromContext(ctx stdctx.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithToolName records which tool is handling the invocation.
func WithToolName(parent stdctx.Context, name string) stdctx.Context {
	return stdctx.WithValue(parent, ToolNameKey, name)
}

// ToolNameFromContext returns the tool name, or "" outside a tool call.
func ToolNameFromContext(ctx stdctx.Context) string {
	if ctx == nil {
		return ""
	}
	if name, ok := ctx.Value(ToolNameKey).(string); ok {
		return name
	}
	return ""
}
