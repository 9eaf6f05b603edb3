package httpx

import (
	"context"

	"github.com/aussiebroadwan/finepay/pkg/jwtx"
	"github.com/aussiebroadwan/finepay/pkg/slogx"
)

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyClaims ctxKey = "claims"
)

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxKeyUserID).(string)
	return id, ok && id != ""
}

// WithUserID returns a context carrying an authenticated user id. Handlers
// read it back with UserIDFromContext; tests use it to skip token issuance.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, userID)
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = WithUserID(ctx, c.Subject)
	ctx = slogx.WithUser(ctx, c.Subject)
	return context.WithValue(ctx, CtxKeyClaims, c)
}
