package branch

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=branch
type Repository interface {
	CreateBranch(ctx context.Context, b *Branch) error
	GetBranch(ctx context.Context, id uuid.UUID) (*Branch, error)
	ListBranches(ctx context.Context) ([]*Branch, error)

	CreateCashier(ctx context.Context, c *Cashier) error
	GetCashier(ctx context.Context, id uuid.UUID) (*Cashier, error)
	ListCashiers(ctx context.Context, branchID *uuid.UUID) ([]*Cashier, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateBranch(ctx context.Context, code, name string) (*Branch, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)

	if code == "" || name == "" {
		return nil, apperr.Validation("branch code and name are required")
	}

	b := &Branch{Code: code, Name: name}
	if err := s.repo.CreateBranch(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) GetBranch(ctx context.Context, id uuid.UUID) (*Branch, error) {
	return s.repo.GetBranch(ctx, id)
}

func (s *Service) ListBranches(ctx context.Context) ([]*Branch, error) {
	return s.repo.ListBranches(ctx)
}

func (s *Service) CreateCashier(ctx context.Context, branchID uuid.UUID, name string) (*Cashier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("cashier name is required")
	}

	if _, err := s.repo.GetBranch(ctx, branchID); err != nil {
		return nil, err
	}

	c := &Cashier{BranchID: branchID, Name: name, Active: true}
	if err := s.repo.CreateCashier(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) GetCashier(ctx context.Context, id uuid.UUID) (*Cashier, error) {
	return s.repo.GetCashier(ctx, id)
}

func (s *Service) ListCashiers(ctx context.Context, branchID *uuid.UUID) ([]*Cashier, error) {
	return s.repo.ListCashiers(ctx, branchID)
}
