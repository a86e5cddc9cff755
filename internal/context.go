package internal

import (
	"context"
	"time"

	"github.com/frahmantamala/police-portal/internal/core/permission"
	"github.com/frahmantamala/police-portal/internal/core/rank"
)

type ctxKey string

const ContextPrincipalKey ctxKey = "principal"

// Principal is the authorization context of one request, rebuilt from the
// credential store by the auth middleware.
type Principal struct {
	UserID      int64
	SessionID   string
	Username    string
	DisplayName string
	Rank        rank.Rank
	Permissions permission.Set
}

func (p *Principal) Allows(perm permission.Permission) bool {
	return p != nil && p.Permissions.Allows(perm)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(ContextPrincipalKey).(*Principal)
	return p, ok && p != nil
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, p)
}

func UserIDFromContext(ctx context.Context) int64 {
	if p, ok := PrincipalFromContext(ctx); ok {
		return p.UserID
	}
	return 0
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
