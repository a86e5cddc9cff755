package report

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/core/common/validation"
	"github.com/frahmantamala/police-portal/internal/discord"
)

var discordIDPattern = regexp.MustCompile(`^[0-9]{17,19}$`)

var (
	errInvalidStatus      = internal.NewValidationFieldError("status", MsgInvalidStatus, internal.ErrCodeInvalidStatus)
	errAttachmentsMissing = internal.NewValidationFieldError("attachments", MsgAttachmentsMissing, internal.ErrCodeMissingFields)
)

type Service struct {
	repo       Repository
	membership discord.Checker
	logger     *slog.Logger
}

type Option func(*Service)

// WithMembershipCheck makes public submissions require community membership.
func WithMembershipCheck(checker discord.Checker) Option {
	return func(s *Service) { s.membership = checker }
}

func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Report, error) {
	discordID := strings.TrimSpace(req.Discord)

	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(req.Name)).Required(MsgNameRequired)
	v.Field("discord", discordID).
		Required(MsgInvalidDiscord).
		Matches(discordIDPattern, MsgInvalidDiscord)
	v.Field("content", strings.TrimSpace(req.Content)).Required(MsgContentRequired)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	attachments := make([]string, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		if a = strings.TrimSpace(a); a != "" {
			attachments = append(attachments, a)
		}
	}
	if len(attachments) == 0 {
		return nil, errAttachmentsMissing
	}

	if s.membership != nil {
		m := s.membership.Verify(ctx, discordID)
		if !m.IsMember {
			msg := m.Error
			if msg == "" {
				msg = discord.MsgNotMember
			}
			s.logger.Warn("report rejected by membership check", "discord_id", discordID)
			return nil, internal.NewValidationFieldError("discord", msg, internal.ErrCodeNotCommunityMember)
		}
	}

	r := &Report{
		Name:        strings.TrimSpace(req.Name),
		Discord:     discordID,
		Content:     strings.TrimSpace(req.Content),
		Attachments: attachments,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error("failed to store report", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}

	s.logger.Info("report submitted", "id", r.ID, "attachments", len(attachments))
	return r, nil
}

func (s *Service) List(ctx context.Context) ([]*Report, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list reports", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	return items, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, raw string) (*Report, error) {
	status, err := ParseStatus(raw)
	if err != nil {
		return nil, errInvalidStatus
	}
	r, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, s.storeError("update report status", id, err)
	}
	s.logger.Info("report status changed", "id", id, "status", status)
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storeError("delete report", id, err)
	}
	return nil
}

func (s *Service) ListInternal(ctx context.Context) ([]*InternalReport, error) {
	items, err := s.repo.ListInternal(ctx)
	if err != nil {
		s.logger.Error("failed to list internal reports", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	return items, nil
}

func (s *Service) CreateInternal(ctx context.Context, req CreateInternalRequest) (*InternalReport, error) {
	v := validation.NewValidator()
	v.Field("fromName", strings.TrimSpace(req.FromName)).Required(MsgFromRequired)
	v.Field("toName", strings.TrimSpace(req.ToName)).Required(MsgToRequired)
	v.Field("subject", strings.TrimSpace(req.Subject)).Required(MsgSubjectRequired)
	v.Field("content", strings.TrimSpace(req.Content)).Required(MsgContentRequired)
	v.Field("attachment", strings.TrimSpace(req.Attachment)).Required(MsgAttachmentRequired)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	r := &InternalReport{
		FromPersonnelID: valueOrZero(req.FromPersonnelID),
		FromName:        strings.TrimSpace(req.FromName),
		ToPersonnelID:   valueOrZero(req.ToPersonnelID),
		ToName:          strings.TrimSpace(req.ToName),
		Subject:         strings.TrimSpace(req.Subject),
		Content:         strings.TrimSpace(req.Content),
		Attachment:      strings.TrimSpace(req.Attachment),
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.CreateInternal(ctx, r); err != nil {
		s.logger.Error("failed to store internal report", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}

	s.logger.Info("internal report created", "id", r.ID)
	return r, nil
}

func (s *Service) UpdateInternalStatus(ctx context.Context, id int64, raw string) (*InternalReport, error) {
	status, err := ParseStatus(raw)
	if err != nil {
		return nil, errInvalidStatus
	}
	r, err := s.repo.UpdateInternalStatus(ctx, id, status)
	if err != nil {
		return nil, s.storeError("update internal report status", id, err)
	}
	return r, nil
}

func (s *Service) DeleteInternal(ctx context.Context, id int64) error {
	if err := s.repo.DeleteInternal(ctx, id); err != nil {
		return s.storeError("delete internal report", id, err)
	}
	return nil
}

func (s *Service) storeError(op string, id int64, err error) error {
	if errors.Is(err, ErrNotFound) {
		return internal.ErrRecordNotFound
	}
	s.logger.Error("failed to "+op, "id", id, "error", err)
	return internal.NewInternalError(internal.MsgServerError, err)
}

func valueOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
