package personnel

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/core/common/validation"
	"github.com/frahmantamala/police-portal/internal/core/rank"
)

const fallbackAuthor = "admin"

var (
	errInvalidStatus     = internal.NewValidationFieldError("status", MsgInvalidStatus, internal.ErrCodeInvalidStatus)
	errInvalidRank       = internal.NewValidationFieldError("rank", MsgInvalidRank, internal.ErrCodeInvalidRank)
	errInvalidRecordType = internal.NewValidationFieldError("type", MsgInvalidRecordType, internal.ErrCodeValidationFailed)
	errInvalidDate       = internal.NewValidationFieldError("date", MsgInvalidDate, internal.ErrCodeValidationFailed)
	errPersonnelRequired = internal.NewValidationFieldError("personnelId", MsgPersonnelRequired, internal.ErrCodeMissingFields)
)

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context) ([]*Personnel, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list personnel", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Personnel, error) {
	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(req.Name)).Required(MsgNameRequired)
	v.Field("rank", strings.TrimSpace(req.Rank)).Required(MsgRankRequired)
	v.Field("department", strings.TrimSpace(req.Department)).Required(MsgDepartmentRequired)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	r, err := rank.Parse(strings.TrimSpace(req.Rank))
	if err != nil {
		return nil, errInvalidRank
	}
	status, err := ParseStatus(req.Status)
	if err != nil {
		return nil, errInvalidStatus
	}

	now := s.now()
	p := &Personnel{
		Name:       strings.TrimSpace(req.Name),
		Rank:       string(r),
		Badge:      optional(req.Badge),
		Department: strings.TrimSpace(req.Department),
		Discord:    optional(req.Discord),
		JoinDate:   now,
		Status:     status,
		ImageURL:   optional(req.ImageURL),
		Notes:      optional(req.Notes),
		CreatedAt:  now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create personnel", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	s.logger.Info("personnel created", "id", p.ID, "rank", p.Rank)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Personnel, error) {
	changes := Changes{}
	if err := setRequired(changes, "name", "name", req.Name, MsgNameRequired); err != nil {
		return nil, err
	}
	if err := setRequired(changes, "department", "department", req.Department, MsgDepartmentRequired); err != nil {
		return nil, err
	}
	if req.Rank != nil {
		raw := strings.TrimSpace(*req.Rank)
		if raw == "" {
			return nil, internal.NewValidationFieldError("rank", MsgRankRequired, internal.ErrCodeMissingFields)
		}
		r, err := rank.Parse(raw)
		if err != nil {
			return nil, errInvalidRank
		}
		changes["rank"] = string(r)
	}
	if req.Status != nil {
		status, err := ParseStatus(*req.Status)
		if err != nil || *req.Status == "" {
			return nil, errInvalidStatus
		}
		changes["status"] = string(status)
	}
	setOptional(changes, "badge", req.Badge)
	setOptional(changes, "discord", req.Discord)
	setOptional(changes, "image_url", req.ImageURL)
	setOptional(changes, "notes", req.Notes)

	p, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, s.storeError("update personnel", id, err)
	}
	return p, nil
}

// Delete removes the officer together with their records.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storeError("delete personnel", id, err)
	}
	s.logger.Info("personnel deleted", "id", id)
	return nil
}

// ListRecords returns every record when personnelID is nil.
func (s *Service) ListRecords(ctx context.Context, personnelID *int64) ([]*Record, error) {
	items, err := s.repo.ListRecords(ctx, personnelID)
	if err != nil {
		s.logger.Error("failed to list personnel records", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	return items, nil
}

// CreateRecord stamps the record with the caller's username.
func (s *Service) CreateRecord(ctx context.Context, author string, req CreateRecordRequest) (*Record, error) {
	if req.PersonnelID <= 0 {
		return nil, errPersonnelRequired
	}
	recordType, err := ParseRecordType(req.Type)
	if err != nil {
		return nil, errInvalidRecordType
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, internal.NewValidationFieldError("title", MsgTitleRequired, internal.ErrCodeMissingFields)
	}

	date := s.now()
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		date, err = parseDate(strings.TrimSpace(*req.Date))
		if err != nil {
			return nil, errInvalidDate
		}
	}

	exists, err := s.repo.Exists(ctx, req.PersonnelID)
	if err != nil {
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	if !exists {
		return nil, internal.ErrRecordNotFound
	}

	if author == "" {
		author = fallbackAuthor
	}
	rec := &Record{
		PersonnelID: req.PersonnelID,
		Type:        recordType,
		Title:       strings.TrimSpace(req.Title),
		Description: optional(req.Description),
		ImageURL:    optional(req.ImageURL),
		Date:        date,
		CreatedBy:   author,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		s.logger.Error("failed to create personnel record", "personnel_id", req.PersonnelID, "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	s.logger.Info("personnel record created", "id", rec.ID, "personnel_id", rec.PersonnelID, "type", rec.Type)
	return rec, nil
}

func (s *Service) DeleteRecord(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRecord(ctx, id); err != nil {
		return s.storeError("delete personnel record", id, err)
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

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, raw)
}

func setRequired(changes Changes, column, field string, value *string, msg string) *internal.AppError {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return internal.NewValidationFieldError(field, msg, internal.ErrCodeMissingFields)
	}
	changes[column] = trimmed
	return nil
}

func setOptional(changes Changes, column string, value *string) {
	if value == nil {
		return
	}
	changes[column] = optional(value)
}

func optional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
