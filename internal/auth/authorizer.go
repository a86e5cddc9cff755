package auth

import (
	"net/http"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/core/permission"
	"github.com/frahmantamala/police-portal/internal/observability"
	"github.com/frahmantamala/police-portal/internal/session"
	"github.com/frahmantamala/police-portal/internal/transport"
	"github.com/frahmantamala/police-portal/pkg/logger"
)

// Authorizer guards routes. Every guard reloads the caller from the
// credential store; a principal resolved earlier in the same request is
// reused by chained guards.
type Authorizer struct {
	*transport.BaseHandler
	service ServiceAPI
	cookies *session.CookieCodec
	metrics *observability.Metrics
}

func NewAuthorizer(baseHandler *transport.BaseHandler, service ServiceAPI, cookies *session.CookieCodec, metrics *observability.Metrics) *Authorizer {
	return &Authorizer{
		BaseHandler: baseHandler,
		service:     service,
		cookies:     cookies,
		metrics:     metrics,
	}
}

func (a *Authorizer) resolve(r *http.Request) (*internal.Principal, *http.Request, error) {
	if p, ok := internal.PrincipalFromContext(r.Context()); ok {
		return p, r, nil
	}

	sessionID, userID, err := a.cookies.Read(r)
	if err != nil {
		return nil, r, internal.ErrUnauthorized
	}

	resolved, err := a.service.Resolve(r.Context(), sessionID, userID)
	if err != nil {
		return nil, r, err
	}

	p := resolved.Principal()
	ctx := internal.ContextWithPrincipal(r.Context(), p)
	ctx = logger.With(ctx, "user_id", p.UserID)
	return p, r.WithContext(ctx), nil
}

// RequireAuthenticated rejects requests without a live session with 401.
func (a *Authorizer) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, r, err := a.resolve(r)
		if err != nil {
			a.deny(w, r, "authenticated", err)
			return
		}
		a.metrics.AuthDecision("authenticated", "allow")
		next.ServeHTTP(w, r)
	})
}

// RequirePermission answers 403 unless the caller's current set allows perm.
func (a *Authorizer) RequirePermission(perm permission.Permission) func(http.Handler) http.Handler {
	return a.require(string(perm), internal.ErrForbidden, perm)
}

// RequireAnyPermission answers 403 unless any of perms is allowed.
func (a *Authorizer) RequireAnyPermission(perms ...permission.Permission) func(http.Handler) http.Handler {
	guard := "any"
	for _, p := range perms {
		guard += ":" + string(p)
	}
	return a.require(guard, internal.ErrForbidden, perms...)
}

func (a *Authorizer) RequireAdmin(next http.Handler) http.Handler {
	return a.require("admin", internal.ErrAdminRequired, permission.ManageUsers)(next)
}

func (a *Authorizer) require(guard string, forbidden *internal.AppError, perms ...permission.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, r, err := a.resolve(r)
			if err != nil {
				a.deny(w, r, guard, err)
				return
			}

			if !p.Permissions.AllowsAny(perms...) {
				logger.From(r.Context()).Warn("access denied: insufficient permissions",
					"user_id", p.UserID,
					"required", guard,
					"user_permissions", p.Permissions.Strings())
				a.metrics.AuthDecision(guard, "forbidden")
				a.WriteAppError(w, forbidden)
				return
			}

			a.metrics.AuthDecision(guard, "allow")
			next.ServeHTTP(w, r)
		})
	}
}

// Identify attaches the principal when a valid session exists and never
// rejects the request.
func (a *Authorizer) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, resolved, err := a.resolve(r)
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok && appErr.StatusCode >= http.StatusInternalServerError {
				logger.From(r.Context()).Error("identify failed", "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, resolved)
	})
}

func (a *Authorizer) deny(w http.ResponseWriter, r *http.Request, guard string, err error) {
	outcome := "unauthenticated"
	if appErr, ok := internal.IsAppError(err); ok && appErr.StatusCode >= http.StatusInternalServerError {
		outcome = "error"
	}
	a.metrics.AuthDecision(guard, outcome)
	a.HandleServiceError(w, r, err)
}
