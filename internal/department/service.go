package department

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/police-portal/internal"
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

func (s *Service) List(ctx context.Context) ([]*Department, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, internal.NewInternalError(internal.MsgServerError, err)
	}
	return items, nil
}

// EnsureDefaults seeds the catalogue only when the table is empty and
// reports how many rows it inserted.
func (s *Service) EnsureDefaults(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	defaults := Defaults()
	for _, d := range defaults {
		if err := s.repo.Create(ctx, d); err != nil {
			return 0, err
		}
	}
	s.logger.Info("seeded departments", "count", len(defaults))
	return len(defaults), nil
}
