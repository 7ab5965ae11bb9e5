// Package shield provides reusable HTTP middleware for the recherche API
// surface: security headers, body limits, request IDs, and HEAD handling.
//
// Usage:
//
//	r := chi.NewRouter()
//	for _, mw := range shield.DefaultAPIStack() {
//	    r.Use(mw)
//	}
package shield

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey string

// LoggerKey is the context key for the per-request structured logger.
const LoggerKey contextKey = "shield_logger"

// DefaultAPIStack returns the standard middleware stack for a JSON API:
// HeadToGet → SecurityHeaders → MaxBody → RequestID.
func DefaultAPIStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		HeadToGet,
		SecurityHeaders(DefaultHeaders()),
		MaxBody(1 << 20),
		RequestID,
	}
}

// GetLogger retrieves the per-request logger from the context. Returns
// slog.Default() if no logger was set.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
