package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/observability"
	"github.com/frahmantamala/police-portal/internal/ratelimit"
	"github.com/frahmantamala/police-portal/internal/session"
	"github.com/frahmantamala/police-portal/internal/user"
)

type RateLimiter interface {
	AllowAll(ctx context.Context, scope ratelimit.Scope, keys ...string) error
	Reset(ctx context.Context, scope ratelimit.Scope, key string) error
}

var (
	errUnknownUsername    = internal.NewUnauthorizedError(MsgUnknownUsername, internal.ErrCodeUnknownUsername)
	errWrongPassword      = internal.NewUnauthorizedError(MsgWrongPassword, internal.ErrCodeWrongPassword)
	errMissingCredentials = internal.NewValidationError(MsgMissingCredentials, internal.ErrCodeMissingFields)
)

// Service establishes sessions and re-derives the principal behind them.
type Service struct {
	users    UserStore
	sessions SessionStore
	hasher   PasswordVerifier
	limiter  RateLimiter
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewService wires the auth service. limiter and metrics may be nil.
func NewService(users UserStore, sessions SessionStore, hasher PasswordVerifier, limiter RateLimiter, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		limiter:  limiter,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		s.metrics.LoginAttempt("invalid")
		return nil, errMissingCredentials
	}

	if err := s.throttle(ctx, username, clientIP); err != nil {
		return nil, err
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.logger.Warn("login rejected: unknown username", "username", username, "ip", clientIP)
			s.metrics.LoginAttempt("unknown_user")
			return nil, errUnknownUsername
		}
		s.logger.Error("login lookup failed", "username", username, "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}

	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		s.logger.Warn("login rejected: wrong password", "user_id", u.ID, "ip", clientIP)
		s.metrics.LoginAttempt("wrong_password")
		return nil, errWrongPassword
	}

	sess, err := s.sessions.Create(ctx, u.ID, u.Username, u.Permissions.Strings())
	if err != nil {
		s.logger.Error("failed to create session", "user_id", u.ID, "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, ratelimit.ScopeLogin, "user:"+username); err != nil {
			s.logger.Error("failed to reset login counter", "username", username, "error", err)
		}
	}

	s.metrics.LoginAttempt("success")
	s.logger.Info("user logged in", "user_id", u.ID, "username", u.Username)
	return &LoginResult{Session: sess, User: u}, nil
}

// throttle fails open when Redis is unreachable.
func (s *Service) throttle(ctx context.Context, username, clientIP string) error {
	if s.limiter == nil {
		return nil
	}

	err := s.limiter.AllowAll(ctx, ratelimit.ScopeLogin, "user:"+username, "ip:"+clientIP)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ratelimit.ErrRateLimited):
		s.logger.Warn("login throttled", "username", username, "ip", clientIP)
		s.metrics.LoginAttempt("throttled")
		return internal.ErrTooManyAttempts
	default:
		s.logger.Error("login rate limiter unavailable", "error", err)
		return nil
	}
}

// Resolve reloads the user behind a session and rewrites the session cache.
// The cached username and permissions are never consulted for decisions.
func (s *Service) Resolve(ctx context.Context, sessionID string, userID int64) (*ResolvedSession, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrCorrupt) {
			return nil, internal.ErrUnauthorized
		}
		s.logger.Error("session lookup failed", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}

	if sess.UserID != userID {
		s.logger.Warn("session cookie subject mismatch", "session_user_id", sess.UserID, "cookie_user_id", userID)
		return nil, internal.ErrUnauthorized
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.logger.Warn("session references a deleted user", "user_id", sess.UserID)
			if derr := s.sessions.Delete(ctx, sess.ID); derr != nil {
				s.logger.Error("failed to delete stale session", "user_id", sess.UserID, "error", derr)
			}
			return nil, internal.ErrUnauthorized
		}
		s.logger.Error("failed to reload session user", "user_id", sess.UserID, "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}

	sess.Username = u.Username
	sess.Permissions = u.Permissions.Strings()
	if err := s.sessions.Refresh(ctx, sess); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, internal.ErrUnauthorized
		}
		s.logger.Warn("failed to refresh session cache", "user_id", u.ID, "error", err)
	}

	return &ResolvedSession{Session: sess, User: u}, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Error("failed to delete session", "error", err)
		return internal.NewInternalError(internal.MsgServerError, err)
	}
	return nil
}
