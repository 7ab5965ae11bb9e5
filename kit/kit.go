// Package kit carries the transport-agnostic endpoint plumbing: an
// Endpoint is one operation behind any transport, Middleware wraps it,
// and the MCP adapter exposes it as a tool.
package kit

import "context"

// Endpoint is a single request/response operation.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behavior.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so the first listed runs outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
