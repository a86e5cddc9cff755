package passwordreset

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/core/events"
	"github.com/frahmantamala/police-portal/internal/observability"
	"github.com/frahmantamala/police-portal/internal/ratelimit"
	"github.com/frahmantamala/police-portal/internal/user"
)

type RateLimiter interface {
	AllowAll(ctx context.Context, scope ratelimit.Scope, keys ...string) error
}

var (
	errEmailRequired = internal.NewValidationFieldError("email", MsgEmailRequired, internal.ErrCodeMissingFields)
	errIncomplete    = internal.NewValidationError(MsgIncompleteData, internal.ErrCodeMissingFields)
	errTokenUnknown  = internal.NewValidationError(MsgTokenUnknown, internal.ErrCodeResetTokenUnknown)
	errTokenConsumed = internal.NewValidationError(MsgTokenConsumed, internal.ErrCodeResetTokenConsumed)
	errTokenExpired  = internal.NewValidationError(MsgTokenExpired, internal.ErrCodeResetTokenExpired)
)

type Service struct {
	repo      Repository
	users     UserFinder
	hasher    PasswordHasher
	publisher events.Publisher
	limiter   RateLimiter
	metrics   *observability.Metrics
	baseURL   string
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithRateLimiter(limiter RateLimiter) Option {
	return func(s *Service) { s.limiter = limiter }
}

func WithMetrics(metrics *observability.Metrics) Option {
	return func(s *Service) { s.metrics = metrics }
}

func NewService(repo Repository, users UserFinder, hasher PasswordHasher, publisher events.Publisher, baseURL string, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		users:     users,
		hasher:    hasher,
		publisher: publisher,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ForgotPassword issues a reset link for a registered email. Unknown emails
// get the same nil result so callers cannot tell them apart.
func (s *Service) ForgotPassword(ctx context.Context, email, clientIP string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errEmailRequired
	}

	if s.limiter != nil {
		err := s.limiter.AllowAll(ctx, ratelimit.ScopeForgot, "email:"+strings.ToLower(email), "ip:"+clientIP)
		if errors.Is(err, ratelimit.ErrRateLimited) {
			s.metrics.PasswordReset("request", "throttled")
			return internal.ErrTooManyAttempts
		}
		if err != nil {
			s.logger.Error("reset rate limiter unavailable", "error", err)
		}
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.logger.Info("password reset requested for an unregistered email")
			s.metrics.PasswordReset("request", "unknown_email")
			return nil
		}
		s.logger.Error("password reset lookup failed", "error", err)
		return internal.NewInternalError(MsgRequestFailed, err)
	}

	secret, digest, err := NewSecret()
	if err != nil {
		return internal.NewInternalError(MsgRequestFailed, err)
	}

	expiresAt := s.now().Add(TokenTTL)
	if _, err := s.repo.Replace(ctx, u.ID, digest, expiresAt); err != nil {
		s.logger.Error("failed to store reset token", "user_id", u.ID, "error", err)
		return internal.NewInternalError(MsgRequestFailed, err)
	}

	event := events.NewPasswordResetRequested(u.Email, s.resetLink(secret), expiresAt)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish reset event", "user_id", u.ID, "error", err)
	}

	s.metrics.PasswordReset("request", "issued")
	s.logger.Info("password reset token issued", "user_id", u.ID, "expires_at", expiresAt)
	return nil
}

func (s *Service) resetLink(secret string) string {
	return s.baseURL + "/reset-password?token=" + secret
}

// ValidateToken never fails hard; every problem is reported in the result.
func (s *Service) ValidateToken(ctx context.Context, secret string) ValidationResult {
	if secret == "" {
		return ValidationResult{Valid: false, Message: MsgTokenMissing}
	}

	tok, err := s.repo.GetByHash(ctx, HashSecret(secret))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.metrics.PasswordReset("validate", "unknown")
			return ValidationResult{Valid: false, Message: MsgTokenUnknown}
		}
		s.logger.Error("reset token lookup failed", "error", err)
		return ValidationResult{Valid: false, Message: MsgValidateFailed}
	}

	if err := s.classify(tok); err != nil {
		s.metrics.PasswordReset("validate", string(err.Code))
		return ValidationResult{Valid: false, Message: err.Message}
	}

	s.metrics.PasswordReset("validate", "valid")
	return ValidationResult{Valid: true}
}

// ResetPassword consumes the token and stores the new password. A token
// succeeds at most once.
func (s *Service) ResetPassword(ctx context.Context, secret, newPassword string) error {
	if secret == "" || newPassword == "" {
		return errIncomplete
	}
	if utf8.RuneCountInString(newPassword) < user.MinPasswordLength {
		return internal.ErrPasswordTooShort
	}

	digest := HashSecret(secret)
	tok, err := s.repo.GetByHash(ctx, digest)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.metrics.PasswordReset("consume", "unknown")
			return errTokenUnknown
		}
		s.logger.Error("reset token lookup failed", "error", err)
		return internal.NewInternalError(MsgResetFailed, err)
	}
	if appErr := s.classify(tok); appErr != nil {
		s.metrics.PasswordReset("consume", string(appErr.Code))
		return appErr
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return internal.NewInternalError(MsgResetFailed, err)
	}

	if err := s.repo.Consume(ctx, tok.ID, tok.UserID, hash, s.now()); err != nil {
		if errors.Is(err, ErrTokenUnavailable) {
			return s.reclassify(ctx, digest)
		}
		s.logger.Error("failed to consume reset token", "user_id", tok.UserID, "error", err)
		return internal.NewInternalError(MsgResetFailed, err)
	}

	s.metrics.PasswordReset("consume", "success")
	s.logger.Info("password reset completed", "user_id", tok.UserID)
	return nil
}

// reclassify explains a lost compare-and-swap from the stored row.
func (s *Service) reclassify(ctx context.Context, digest string) error {
	tok, err := s.repo.GetByHash(ctx, digest)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return errTokenUnknown
		}
		return internal.NewInternalError(MsgResetFailed, err)
	}
	if appErr := s.classify(tok); appErr != nil {
		s.metrics.PasswordReset("consume", string(appErr.Code))
		return appErr
	}
	return errTokenConsumed
}

func (s *Service) classify(tok *Token) *internal.AppError {
	switch {
	case tok.Consumed():
		return errTokenConsumed
	case tok.Expired(s.now()):
		return errTokenExpired
	default:
		return nil
	}
}
