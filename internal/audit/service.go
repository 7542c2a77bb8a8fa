package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const defaultListLimit = 200

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=audit
type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter ListFilter) ([]*Entry, error)
}

type ListFilter struct {
	UserID    *uuid.UUID
	Module    string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends e. Failures are logged and never reach the caller.
func (s *Service) Record(ctx context.Context, e Entry) {
	if err := s.repo.Insert(ctx, &e); err != nil {
		slog.Warn("failed to write audit entry",
			"action", e.Action,
			"module", e.Module,
			"error", err,
		)
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	if filter.Limit <= 0 || filter.Limit > defaultListLimit {
		filter.Limit = defaultListLimit
	}

	return s.repo.List(ctx, filter)
}
