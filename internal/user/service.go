package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/core/common/validation"
	"github.com/frahmantamala/police-portal/internal/core/permission"
	"github.com/frahmantamala/police-portal/internal/core/rank"
)

const (
	minUsernameLength = 3
	MinPasswordLength = 4
)

var (
	errUsernameTaken     = internal.NewConflictError(MsgUsernameTaken, internal.ErrCodeUsernameTaken)
	errUserNotFound      = internal.NewNotFoundError(MsgUserNotFound, internal.ErrCodeUserNotFound)
	errSelfModification  = internal.NewInvalidOperationError(MsgSelfModification, internal.ErrCodeSelfModification)
	errSelfDeletion      = internal.NewInvalidOperationError(MsgSelfDeletion, internal.ErrCodeSelfDeletion)
	errWrongCurrentPass  = internal.NewValidationFieldError("currentPassword", MsgWrongCurrentPassword, internal.ErrCodeWrongCurrentPass)
	errMissingFields     = internal.NewValidationError(MsgFillAllFields, internal.ErrCodeMissingFields)
	errInvalidRank       = internal.NewValidationFieldError("rank", MsgInvalidRank, internal.ErrCodeInvalidRank)
	errInvalidPermission = internal.NewValidationFieldError("permissions", MsgInvalidPermission, internal.ErrCodeInvalidPerm)
	errInvalidEmail      = internal.NewValidationFieldError("email", MsgInvalidEmail, internal.ErrCodeValidationFailed)
)

type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errUserNotFound
		}
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	return u, nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)

	v := validation.NewValidator()
	v.Field("username", username).
		Required(MsgFillAllFields).
		MinLength(minUsernameLength, MsgUsernameTooShort, internal.ErrCodeUsernameTooShort)
	v.Field("password", req.Password).
		Required(MsgFillAllFields).
		MinLength(MinPasswordLength, internal.MsgPasswordTooShort, internal.ErrCodePasswordTooShort)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	r, err := rank.Parse(req.Rank)
	if err != nil {
		return nil, errInvalidRank
	}

	perms := permission.NewSet(permission.ViewOnly)
	if req.Permissions != nil {
		if perms, err = permission.ParseSet(req.Permissions); err != nil {
			return nil, errInvalidPermission
		}
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = username
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, errUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}

	u := &User{
		Username:     username,
		PasswordHash: hash,
		Rank:         r,
		Permissions:  perms,
		DisplayName:  displayName,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, errUsernameTaken
		}
		s.logger.Error("failed to create user", "username", username, "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}

	s.logger.Info("user registered", "user_id", u.ID, "username", u.Username, "rank", u.Rank, "permissions", u.Permissions.Strings())
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	return users, nil
}

// UpdateAccess changes rank and permissions of another user. Callers can
// never target themselves, whatever they hold.
func (s *Service) UpdateAccess(ctx context.Context, callerID, targetID int64, req UpdateAccessRequest) error {
	if callerID == targetID {
		s.logger.Warn("self modification rejected", "user_id", callerID)
		return errSelfModification
	}

	var upd Update
	if req.Rank != nil {
		r, err := rank.Parse(*req.Rank)
		if err != nil {
			return errInvalidRank
		}
		upd.Rank = &r
	}
	if req.Permissions != nil {
		perms, err := permission.ParseSet(*req.Permissions)
		if err != nil {
			return errInvalidPermission
		}
		upd.Permissions = &perms
	}

	if err := s.update(ctx, targetID, upd); err != nil {
		return err
	}

	s.logger.Info("user access updated", "by", callerID, "user_id", targetID)
	return nil
}

func (s *Service) UpdateEmail(ctx context.Context, targetID int64, email string) error {
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return errInvalidEmail
	}
	return s.update(ctx, targetID, Update{Email: &email})
}

func (s *Service) Delete(ctx context.Context, callerID, targetID int64) error {
	if callerID == targetID {
		s.logger.Warn("self deletion rejected", "user_id", callerID)
		return errSelfDeletion
	}

	if err := s.repo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errUserNotFound
		}
		s.logger.Error("failed to delete user", "user_id", targetID, "error", err)
		return internal.NewInternalError(internal.MsgServerError, err)
	}

	s.logger.Info("user deleted", "by", callerID, "user_id", targetID)
	return nil
}

// ChangePassword leaves outstanding reset tokens alone.
func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return errMissingFields
	}
	if len([]rune(req.NewPassword)) < MinPasswordLength {
		return internal.ErrPasswordTooShort
	}

	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(req.CurrentPassword, u.PasswordHash) {
		s.logger.Warn("password change rejected: wrong current password", "user_id", userID)
		return errWrongCurrentPass
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return internal.NewInternalError(internal.MsgServerError, err)
	}

	if err := s.update(ctx, userID, Update{PasswordHash: &hash}); err != nil {
		return err
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

func (s *Service) update(ctx context.Context, id int64, upd Update) error {
	if upd.Empty() {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
		return nil
	}

	if err := s.repo.Update(ctx, id, upd); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errUserNotFound
		}
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return internal.NewInternalError(internal.MsgServerError, err)
	}
	return nil
}

const (
	AdminUsername    = "admin"
	AdminDisplayName = "مدير النظام"
)

// AdminPermissions is the permission set granted to the bootstrap admin.
var AdminPermissions = permission.NewSet(
	permission.ManageUsers,
	permission.ManageAnnouncements,
	permission.ManageWanted,
	permission.ManageReports,
	permission.ManagePersonnel,
)

// EnsureAdmin creates the bootstrap admin when no user named admin exists.
// It reports whether a user was created.
func (s *Service) EnsureAdmin(ctx context.Context, plaintext string) (bool, error) {
	if _, err := s.repo.GetByUsername(ctx, AdminUsername); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return false, err
	}

	admin := &User{
		Username:     AdminUsername,
		PasswordHash: hash,
		Rank:         rank.MajorGeneral,
		Permissions:  AdminPermissions,
		DisplayName:  AdminDisplayName,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info("bootstrap admin created", "user_id", admin.ID)
	return true, nil
}
