// Package kit provides the small set of cross-cutting request plumbing the
// gateway needs: context-carried trace/request identifiers and a
// go-kit-style Endpoint/Middleware chain used to register MCP tools.
//
// Trimmed from kit/context.go: this gateway has no authentication (spec.md
// Non-goals), so UserIDKey, HandleKey, SessionIDKey, and RoleKey are
// dropped; TraceIDKey survives because internal/shield's request tracing
// sets it, and RequestIDKey and TransportKey are kept with their accessors.
package kit

import "context"

type contextKey string

const (
	TransportKey contextKey = "kit_transport" // "http"
	RequestIDKey contextKey = "kit_request_id"
	TraceIDKey   contextKey = "kit_trace_id"
)

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}

func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return "http"
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDKey).(string)
	return v
}

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

func GetTraceID(ctx context.Context) string {
	v, _ := ctx.Value(TraceIDKey).(string)
	return v
}
