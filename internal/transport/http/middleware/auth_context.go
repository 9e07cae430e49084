package middleware

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
)

type ctxKey string

const ctxPrincipal ctxKey = "principal"

func WithPrincipal(ctx context.Context, p authz.Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

func PrincipalFromContext(ctx context.Context) (authz.Principal, bool) {
	p, ok := ctx.Value(ctxPrincipal).(authz.Principal)
	return p, ok && p.ID != ""
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	p, ok := PrincipalFromContext(ctx)
	return p.ID, ok
}
