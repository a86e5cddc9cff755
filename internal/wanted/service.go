package wanted

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/core/common/validation"
)

var (
	errInvalidStatus     = internal.NewValidationFieldError("status", MsgInvalidStatus, internal.ErrCodeInvalidStatus)
	errInvalidVisibility = internal.NewValidationFieldError("visibility", MsgInvalidVisibility, internal.ErrCodeValidationFailed)
)

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

func (s *Service) ListPersons(ctx context.Context) ([]*Person, error) {
	items, err := s.repo.ListPersons(ctx)
	if err != nil {
		s.logger.Error("failed to list wanted persons", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	return items, nil
}

func (s *Service) CreatePerson(ctx context.Context, req CreatePersonRequest) (*Person, error) {
	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(req.Name)).Required(MsgNameRequired)
	v.Field("crime", strings.TrimSpace(req.Crime)).Required(MsgCrimeRequired)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	status, err := ParsePersonStatus(req.Status)
	if err != nil {
		return nil, errInvalidStatus
	}

	p := &Person{
		Name:      strings.TrimSpace(req.Name),
		Crime:     strings.TrimSpace(req.Crime),
		Status:    status,
		ImageURL:  optional(req.ImageURL),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreatePerson(ctx, p); err != nil {
		s.logger.Error("failed to create wanted person", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	s.logger.Info("wanted person created", "id", p.ID)
	return p, nil
}

func (s *Service) UpdatePerson(ctx context.Context, id int64, req UpdatePersonRequest) (*Person, error) {
	changes := Changes{}
	if err := setRequired(changes, "name", "name", req.Name, MsgNameRequired); err != nil {
		return nil, err
	}
	if err := setRequired(changes, "crime", "crime", req.Crime, MsgCrimeRequired); err != nil {
		return nil, err
	}
	if req.Status != nil {
		status, err := ParsePersonStatus(*req.Status)
		if err != nil || *req.Status == "" {
			return nil, errInvalidStatus
		}
		changes["status"] = string(status)
	}
	setOptional(changes, "image_url", req.ImageURL)

	p, err := s.repo.UpdatePerson(ctx, id, changes)
	if err != nil {
		return nil, s.storeError("update wanted person", id, err)
	}
	return p, nil
}

func (s *Service) DeletePerson(ctx context.Context, id int64) error {
	if err := s.repo.DeletePerson(ctx, id); err != nil {
		return s.storeError("delete wanted person", id, err)
	}
	s.logger.Info("wanted person deleted", "id", id)
	return nil
}

// ListVehicles returns only public entries when publicOnly is set.
func (s *Service) ListVehicles(ctx context.Context, publicOnly bool) ([]*Vehicle, error) {
	var filter *Visibility
	if publicOnly {
		public := VisibilityPublic
		filter = &public
	}
	items, err := s.repo.ListVehicles(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list wanted vehicles", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	return items, nil
}

func (s *Service) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*Vehicle, error) {
	v := validation.NewValidator()
	v.Field("plateNumber", strings.TrimSpace(req.PlateNumber)).Required(MsgPlateRequired)
	v.Field("vehicleType", strings.TrimSpace(req.VehicleType)).Required(MsgVehicleTypeRequired)
	v.Field("reason", strings.TrimSpace(req.Reason)).Required(MsgReasonRequired)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	status, err := ParseVehicleStatus(req.Status)
	if err != nil {
		return nil, errInvalidStatus
	}
	visibility, err := ParseVisibility(req.Visibility)
	if err != nil {
		return nil, errInvalidVisibility
	}

	vehicle := &Vehicle{
		PlateNumber: strings.TrimSpace(req.PlateNumber),
		VehicleType: strings.TrimSpace(req.VehicleType),
		Color:       optional(req.Color),
		Reason:      strings.TrimSpace(req.Reason),
		Status:      status,
		Visibility:  visibility,
		ImageURL:    optional(req.ImageURL),
		Notes:       optional(req.Notes),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateVehicle(ctx, vehicle); err != nil {
		s.logger.Error("failed to create wanted vehicle", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	s.logger.Info("wanted vehicle created", "id", vehicle.ID, "visibility", vehicle.Visibility)
	return vehicle, nil
}

func (s *Service) UpdateVehicle(ctx context.Context, id int64, req UpdateVehicleRequest) (*Vehicle, error) {
	changes := Changes{}
	if err := setRequired(changes, "plate_number", "plateNumber", req.PlateNumber, MsgPlateRequired); err != nil {
		return nil, err
	}
	if err := setRequired(changes, "vehicle_type", "vehicleType", req.VehicleType, MsgVehicleTypeRequired); err != nil {
		return nil, err
	}
	if err := setRequired(changes, "reason", "reason", req.Reason, MsgReasonRequired); err != nil {
		return nil, err
	}
	if req.Status != nil {
		status, err := ParseVehicleStatus(*req.Status)
		if err != nil || *req.Status == "" {
			return nil, errInvalidStatus
		}
		changes["status"] = string(status)
	}
	if req.Visibility != nil {
		visibility, err := ParseVisibility(*req.Visibility)
		if err != nil || *req.Visibility == "" {
			return nil, errInvalidVisibility
		}
		changes["visibility"] = string(visibility)
	}
	setOptional(changes, "color", req.Color)
	setOptional(changes, "image_url", req.ImageURL)
	setOptional(changes, "notes", req.Notes)

	vehicle, err := s.repo.UpdateVehicle(ctx, id, changes)
	if err != nil {
		return nil, s.storeError("update wanted vehicle", id, err)
	}
	return vehicle, nil
}

func (s *Service) DeleteVehicle(ctx context.Context, id int64) error {
	if err := s.repo.DeleteVehicle(ctx, id); err != nil {
		return s.storeError("delete wanted vehicle", id, err)
	}
	s.logger.Info("wanted vehicle deleted", "id", id)
	return nil
}

func (s *Service) storeError(op string, id int64, err error) error {
	if errors.Is(err, ErrNotFound) {
		return internal.ErrRecordNotFound
	}
	s.logger.Error("failed to "+op, "id", id, "error", err)
	return internal.NewInternalError(internal.MsgServerError, err)
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

// setOptional clears the column when the client sends an empty string.
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
