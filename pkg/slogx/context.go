package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// WithContext stores logger for FromContext. HTTPMiddleware installs the
// request logger (req_id, method, path) this way.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request logger, or the process default outside a
// request.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// WithUser tags the context logger with the signed in user, so service logs
// for /v1/me and payments can be traced to an account.
func WithUser(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return WithContext(ctx, FromContext(ctx).With("user_id", userID))
}
