package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/database"
	"github.com/MrJamesThe3rd/findules/internal/fuelcoupon"
	"github.com/MrJamesThe3rd/findules/internal/sequence"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectCoupon = `
	SELECT f.id, f.coupon_number, f.branch_id, b.name, f.vehicle_number, f.driver_name, f.fuel_type,
		f.litres, f.price_per_litre, f.amount, f.issue_date, f.issued_by, f.created_at
	FROM fuel_coupons f
	JOIN branches b ON b.id = f.branch_id
`

func scanCoupon(s scanner) (*fuelcoupon.Coupon, error) {
	var (
		c    fuelcoupon.Coupon
		fuel string
	)

	if err := s.Scan(
		&c.ID, &c.Number, &c.BranchID, &c.BranchName, &c.VehicleNumber, &c.DriverName, &fuel,
		&c.Litres, &c.PricePerLitre, &c.Amount, &c.IssueDate, &c.IssuedBy, &c.CreatedAt,
	); err != nil {
		return nil, err
	}

	c.FuelType = fuelcoupon.FuelType(fuel)

	return &c, nil
}

func (s *Store) Create(ctx context.Context, c *fuelcoupon.Coupon) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Persistence("beginning transaction", err)
	}
	defer dbTx.Rollback()

	number, err := sequence.NextNumber(ctx, dbTx, sequence.KindFuelCoupon, time.Now())
	if err != nil {
		return apperr.Persistence("numbering fuel coupon", err)
	}

	query := `
		INSERT INTO fuel_coupons (
			coupon_number, branch_id, vehicle_number, driver_name, fuel_type,
			litres, price_per_litre, amount, issue_date, issued_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		number, c.BranchID, c.VehicleNumber, c.DriverName, c.FuelType,
		c.Litres, c.PricePerLitre, c.Amount, c.IssueDate, c.IssuedBy,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperr.Validation("fuel coupon references an unknown branch or user")
		}

		return apperr.Persistence("creating fuel coupon", err)
	}

	if err := dbTx.Commit(); err != nil {
		return apperr.Persistence("committing fuel coupon", err)
	}

	c.Number = number

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*fuelcoupon.Coupon, error) {
	c, err := scanCoupon(s.db.QueryRowContext(ctx, selectCoupon+` WHERE f.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("fuel coupon not found")
		}

		return nil, apperr.Persistence("getting fuel coupon", err)
	}

	return c, nil
}

func (s *Store) List(ctx context.Context, filter fuelcoupon.ListFilter) ([]*fuelcoupon.Coupon, error) {
	var (
		conditions []string
		args       []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.BranchID != nil {
		add("f.branch_id = $%d", *filter.BranchID)
	}

	if filter.FuelType != "" {
		add("f.fuel_type = $%d", filter.FuelType)
	}

	if filter.StartDate != nil {
		add("f.issue_date >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		add("f.issue_date <= $%d", *filter.EndDate)
	}

	query := selectCoupon
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}

	query += ` ORDER BY f.issue_date DESC, f.coupon_number DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("listing fuel coupons", err)
	}
	defer rows.Close()

	var out []*fuelcoupon.Coupon

	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, apperr.Persistence("scanning fuel coupon", err)
		}

		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterating fuel coupons", err)
	}

	return out, nil
}
