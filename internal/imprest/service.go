package imprest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=imprest
type Repository interface {
	// Create assigns the imprest number and persists im in one transaction.
	Create(ctx context.Context, im *Imprest) error
	Get(ctx context.Context, id uuid.UUID) (*Imprest, error)
	// List filters on the stored status; OVERDUE is resolved by the service.
	List(ctx context.Context, filter ListFilter) ([]*Imprest, error)
	// BeginUpdate opens a transaction holding a row lock on the imprest.
	BeginUpdate(ctx context.Context, id uuid.UUID) (UpdateTx, error)
}

type UpdateTx interface {
	Load(ctx context.Context) (*Imprest, error)
	Save(ctx context.Context, im *Imprest) error
	Delete(ctx context.Context) error
	Commit() error
	Rollback() error
}

// CategorySuggester proposes a category from free text.
type CategorySuggester interface {
	Suggest(ctx context.Context, text string) (string, error)
}

type ListFilter struct {
	BranchID  *uuid.UUID
	Status    Status
	Category  string
	StaffName string
	StartDate *time.Time
	EndDate   *time.Time
}

type Service struct {
	repo         Repository
	categories   CategorySuggester
	overdueAfter time.Duration
	now          func() time.Time
}

func NewService(repo Repository, categories CategorySuggester, overdueAfter time.Duration) *Service {
	if overdueAfter <= 0 {
		overdueAfter = DefaultOverdueAfter
	}

	return &Service{repo: repo, categories: categories, overdueAfter: overdueAfter, now: time.Now}
}

type IssueParams struct {
	BranchID   *uuid.UUID
	StaffName  string
	Amount     decimal.Decimal
	Category   string
	Purpose    string
	DateIssued time.Time
	IssuedBy   uuid.UUID
}

func (s *Service) Issue(ctx context.Context, params IssueParams) (*Imprest, error) {
	staff := strings.TrimSpace(params.StaffName)
	purpose := strings.TrimSpace(params.Purpose)
	category := strings.TrimSpace(params.Category)

	if staff == "" {
		return nil, apperr.Validation("staff name is required")
	}

	if purpose == "" {
		return nil, apperr.Validation("purpose is required")
	}

	if !params.Amount.IsPositive() {
		return nil, apperr.Validation("amount must be greater than zero")
	}

	if err := money.CheckScale("amount", params.Amount); err != nil {
		return nil, err
	}

	if category == "" && s.categories != nil {
		suggested, err := s.categories.Suggest(ctx, purpose)
		if err != nil {
			slog.Warn("failed to suggest imprest category", "error", err)
		}

		category = suggested
	}

	if category == "" {
		return nil, apperr.Validation("category is required")
	}

	issued := params.DateIssued
	if issued.IsZero() {
		issued = s.now()
	}

	im := &Imprest{
		BranchID:   params.BranchID,
		StaffName:  staff,
		Amount:     params.Amount,
		Category:   category,
		Purpose:    purpose,
		DateIssued: truncateDay(issued),
		Status:     StatusIssued,
		IssuedBy:   params.IssuedBy,
	}

	if err := s.repo.Create(ctx, im); err != nil {
		return nil, err
	}

	return im, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Imprest, error) {
	im, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	im.Status = EffectiveStatus(im, s.now(), s.overdueAfter)

	return im, nil
}

// List returns imprests with their effective status. Filtering on ISSUED
// excludes overdue ones.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Imprest, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperr.Validation("unknown status %q", filter.Status)
	}

	want := filter.Status
	if want == StatusOverdue {
		filter.Status = StatusIssued
	}

	stored, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]*Imprest, 0, len(stored))

	for _, im := range stored {
		im.Status = EffectiveStatus(im, now, s.overdueAfter)
		if want != "" && im.Status != want {
			continue
		}

		out = append(out, im)
	}

	return out, nil
}

func (s *Service) Retire(ctx context.Context, id uuid.UUID, params RetireParams) (*Imprest, error) {
	tx, err := s.repo.BeginUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	im, err := tx.Load(ctx)
	if err != nil {
		return nil, err
	}

	params.Receipts = strings.TrimSpace(params.Receipts)
	params.Notes = strings.TrimSpace(params.Notes)

	if err := Retire(im, params, s.now()); err != nil {
		return nil, err
	}

	if err := tx.Save(ctx, im); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return im, nil
}

// Delete removes an imprest that has not been retired.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Imprest, error) {
	tx, err := s.repo.BeginUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	im, err := tx.Load(ctx)
	if err != nil {
		return nil, err
	}

	if im.Status == StatusRetired {
		return nil, apperr.Conflict("cannot delete retired imprest %s", im.Number)
	}

	if err := tx.Delete(ctx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return im, nil
}

// OverdueAfter reports the configured overdue limit.
func (s *Service) OverdueAfter() time.Duration {
	return s.overdueAfter
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
