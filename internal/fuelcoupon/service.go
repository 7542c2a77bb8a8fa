package fuelcoupon

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/branch"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=fuelcoupon
type Repository interface {
	// Create assigns the coupon number and persists c in one transaction.
	Create(ctx context.Context, c *Coupon) error
	Get(ctx context.Context, id uuid.UUID) (*Coupon, error)
	List(ctx context.Context, filter ListFilter) ([]*Coupon, error)
}

type BranchLookup interface {
	GetBranch(ctx context.Context, id uuid.UUID) (*branch.Branch, error)
}

type ListFilter struct {
	BranchID  *uuid.UUID
	FuelType  FuelType
	StartDate *time.Time
	EndDate   *time.Time
}

type Service struct {
	repo     Repository
	branches BranchLookup
	now      func() time.Time
}

func NewService(repo Repository, branches BranchLookup) *Service {
	return &Service{repo: repo, branches: branches, now: time.Now}
}

type GenerateParams struct {
	BranchID      uuid.UUID
	VehicleNumber string
	DriverName    string
	FuelType      FuelType
	Litres        decimal.Decimal
	PricePerLitre decimal.Decimal
	IssueDate     time.Time
	IssuedBy      uuid.UUID
}

func (s *Service) Generate(ctx context.Context, params GenerateParams) (*Coupon, error) {
	vehicle := strings.ToUpper(strings.TrimSpace(params.VehicleNumber))
	driver := strings.TrimSpace(params.DriverName)
	fuel := FuelType(strings.ToUpper(string(params.FuelType)))

	switch {
	case vehicle == "":
		return nil, apperr.Validation("vehicle number is required")
	case driver == "":
		return nil, apperr.Validation("driver name is required")
	case !fuel.Valid():
		return nil, apperr.Validation("fuel type must be PETROL or DIESEL")
	case !params.Litres.IsPositive():
		return nil, apperr.Validation("litres must be greater than zero")
	case !params.PricePerLitre.IsPositive():
		return nil, apperr.Validation("price per litre must be greater than zero")
	}

	b, err := s.branches.GetBranch(ctx, params.BranchID)
	if err != nil {
		return nil, err
	}

	issued := params.IssueDate
	if issued.IsZero() {
		issued = s.now()
	}

	y, m, d := issued.Date()

	c := &Coupon{
		BranchID:      b.ID,
		BranchName:    b.Name,
		VehicleNumber: vehicle,
		DriverName:    driver,
		FuelType:      fuel,
		Litres:        params.Litres,
		PricePerLitre: params.PricePerLitre,
		Amount:        Cost(params.Litres, params.PricePerLitre),
		IssueDate:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		IssuedBy:      params.IssuedBy,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Coupon, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Coupon, error) {
	if filter.FuelType != "" && !filter.FuelType.Valid() {
		return nil, apperr.Validation("unknown fuel type %q", filter.FuelType)
	}

	return s.repo.List(ctx, filter)
}
