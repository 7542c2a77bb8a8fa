package reconciliation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/branch"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=reconciliation
type Repository interface {
	// Create assigns the serial number and persists r in one transaction.
	Create(ctx context.Context, r *Reconciliation) error
	Get(ctx context.Context, id uuid.UUID) (*Reconciliation, error)
	List(ctx context.Context, filter ListFilter) ([]*Reconciliation, error)
	// BeginUpdate opens a transaction holding a row lock on the reconciliation.
	BeginUpdate(ctx context.Context, id uuid.UUID) (UpdateTx, error)
}

type UpdateTx interface {
	Load(ctx context.Context) (*Reconciliation, error)
	Save(ctx context.Context, r *Reconciliation) error
	Delete(ctx context.Context) error
	Commit() error
	Rollback() error
}

type CashierResolver interface {
	GetCashier(ctx context.Context, id uuid.UUID) (*branch.Cashier, error)
}

type ListFilter struct {
	BranchID  *uuid.UUID
	CashierID *uuid.UUID
	Status    Status
	Category  VarianceCategory
	StartDate *time.Time
	EndDate   *time.Time
}

type Service struct {
	repo     Repository
	cashiers CashierResolver
	now      func() time.Time
}

func NewService(repo Repository, cashiers CashierResolver) *Service {
	return &Service{repo: repo, cashiers: cashiers, now: time.Now}
}

type CreateParams struct {
	CashierID uuid.UUID
	Date      time.Time
	Input     Input
	Notes     string
	CreatedBy uuid.UUID
	// BranchScope, when set, restricts the cashier to that branch.
	BranchScope *uuid.UUID
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Reconciliation, error) {
	if params.CashierID == uuid.Nil {
		return nil, apperr.Validation("cashier is required")
	}

	if params.Date.IsZero() {
		return nil, apperr.Validation("reconciliation date is required")
	}

	if err := params.Input.Validate(); err != nil {
		return nil, err
	}

	cashier, err := s.cashiers.GetCashier(ctx, params.CashierID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Validation("cashier %s does not exist", params.CashierID)
		}

		return nil, err
	}

	if !cashier.Active {
		return nil, apperr.Validation("cashier %s is inactive", cashier.Name)
	}

	if params.BranchScope != nil && *params.BranchScope != cashier.BranchID {
		return nil, apperr.Forbidden("cashier belongs to another branch")
	}

	r := &Reconciliation{
		CashierID:   cashier.ID,
		CashierName: cashier.Name,
		BranchID:    cashier.BranchID,
		Date:        truncateDay(params.Date),
		Input:       params.Input,
		Figures:     Compute(params.Input),
		Status:      StatusActive,
		Notes:       strings.TrimSpace(params.Notes),
		CreatedBy:   params.CreatedBy,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

// Preview computes the figures without recording anything.
func (s *Service) Preview(in Input) (Figures, error) {
	if err := in.Validate(); err != nil {
		return Figures{}, err
	}

	return Compute(in), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Reconciliation, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Reconciliation, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, apperr.Validation("unknown variance category %q", filter.Category)
	}

	if filter.Status != "" && filter.Status != StatusActive && filter.Status != StatusRetired {
		return nil, apperr.Validation("unknown status %q", filter.Status)
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, apperr.Validation("end date is before start date")
	}

	return s.repo.List(ctx, filter)
}

func (s *Service) Retire(ctx context.Context, id, by uuid.UUID) (*Reconciliation, error) {
	tx, err := s.repo.BeginUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	r, err := tx.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.Retire(by, s.now()); err != nil {
		return nil, err
	}

	if err := tx.Save(ctx, r); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r, nil
}

// Delete removes an active reconciliation. Retired ones are kept.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Reconciliation, error) {
	tx, err := s.repo.BeginUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	r, err := tx.Load(ctx)
	if err != nil {
		return nil, err
	}

	if r.Status == StatusRetired {
		return nil, apperr.Conflict("cannot delete retired reconciliation %s", r.SerialNumber)
	}

	if err := tx.Delete(ctx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
