package announcement

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/core/common/validation"
)

var errInvalidType = internal.NewValidationFieldError("type", MsgInvalidType, internal.ErrCodeValidationFailed)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns every announcement when filter is nil.
func (s *Service) List(ctx context.Context, filter *Type) ([]*Announcement, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list announcements", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Announcement, error) {
	v := validation.NewValidator()
	v.Field("title", strings.TrimSpace(req.Title)).Required(MsgTitleRequired)
	v.Field("content", strings.TrimSpace(req.Content)).Required(MsgContentRequired)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	t, err := ParseType(req.Type)
	if err != nil {
		return nil, errInvalidType
	}

	a := &Announcement{
		Title:     strings.TrimSpace(req.Title),
		Content:   strings.TrimSpace(req.Content),
		Type:      t,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("failed to create announcement", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}

	s.logger.Info("announcement created", "id", a.ID, "type", a.Type)
	return a, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Announcement, error) {
	var patch Patch
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, internal.NewValidationFieldError("title", MsgTitleRequired, internal.ErrCodeMissingFields)
		}
		patch.Title = &title
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, internal.NewValidationFieldError("content", MsgContentRequired, internal.ErrCodeMissingFields)
		}
		patch.Content = &content
	}
	if req.Type != nil {
		t, err := ParseType(*req.Type)
		if err != nil {
			return nil, errInvalidType
		}
		patch.Type = &t
	}

	a, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrRecordNotFound
		}
		s.logger.Error("failed to update announcement", "id", id, "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrRecordNotFound
		}
		s.logger.Error("failed to delete announcement", "id", id, "error", err)
		return internal.NewInternalError(internal.MsgServerError, err)
	}
	s.logger.Info("announcement deleted", "id", id)
	return nil
}

func (s *Service) EnsureDefaults(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	defaults := Defaults()
	for _, a := range defaults {
		a.CreatedAt = time.Now().UTC()
		if err := s.repo.Create(ctx, a); err != nil {
			return 0, err
		}
	}
	s.logger.Info("seeded announcements", "count", len(defaults))
	return len(defaults), nil
}
