package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/imprest"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
)

type ReconciliationLister interface {
	List(ctx context.Context, filter reconciliation.ListFilter) ([]*reconciliation.Reconciliation, error)
}

type ImprestLister interface {
	List(ctx context.Context, filter imprest.ListFilter) ([]*imprest.Imprest, error)
}

type Service struct {
	recs     ReconciliationLister
	imprests ImprestLister
}

func NewService(recs ReconciliationLister, imprests ImprestLister) *Service {
	return &Service{recs: recs, imprests: imprests}
}

type Filter struct {
	BranchID  *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

type Overview struct {
	Variance VarianceSummary
	Trend    []DayPoint
	Imprests ImprestSummary
}

func (s *Service) Overview(ctx context.Context, filter Filter) (*Overview, error) {
	recs, err := s.recs.List(ctx, reconciliation.ListFilter{
		BranchID:  filter.BranchID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	})
	if err != nil {
		return nil, err
	}

	imps, err := s.imprests.List(ctx, imprest.ListFilter{
		BranchID:  filter.BranchID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	})
	if err != nil {
		return nil, err
	}

	return &Overview{
		Variance: SummarizeVariance(recs),
		Trend:    DailyTrend(recs),
		Imprests: SummarizeImprests(imps),
	}, nil
}
