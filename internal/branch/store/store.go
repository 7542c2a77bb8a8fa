package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/branch"
	"github.com/MrJamesThe3rd/findules/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateBranch(ctx context.Context, b *branch.Branch) error {
	query := `
		INSERT INTO branches (code, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, b.Code, b.Name).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Conflict("branch code %s already exists", b.Code)
		}

		return apperr.Persistence("creating branch", err)
	}

	return nil
}

func (s *Store) GetBranch(ctx context.Context, id uuid.UUID) (*branch.Branch, error) {
	var b branch.Branch

	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, created_at FROM branches WHERE id = $1`, id,
	).Scan(&b.ID, &b.Code, &b.Name, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("branch not found")
		}

		return nil, apperr.Persistence("getting branch", err)
	}

	return &b, nil
}

func (s *Store) ListBranches(ctx context.Context) ([]*branch.Branch, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, code, name, created_at FROM branches ORDER BY code`)
	if err != nil {
		return nil, apperr.Persistence("listing branches", err)
	}
	defer rows.Close()

	var branches []*branch.Branch

	for rows.Next() {
		var b branch.Branch
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.CreatedAt); err != nil {
			return nil, apperr.Persistence("scanning branch", err)
		}

		branches = append(branches, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterating branches", err)
	}

	return branches, nil
}

func (s *Store) CreateCashier(ctx context.Context, c *branch.Cashier) error {
	query := `
		INSERT INTO cashiers (branch_id, name, active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, c.BranchID, c.Name, c.Active).Scan(&c.ID, &c.CreatedAt); err != nil {
		return apperr.Persistence("creating cashier", err)
	}

	return nil
}

func (s *Store) GetCashier(ctx context.Context, id uuid.UUID) (*branch.Cashier, error) {
	var c branch.Cashier

	err := s.db.QueryRowContext(ctx,
		`SELECT id, branch_id, name, active, created_at FROM cashiers WHERE id = $1`, id,
	).Scan(&c.ID, &c.BranchID, &c.Name, &c.Active, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("cashier not found")
		}

		return nil, apperr.Persistence("getting cashier", err)
	}

	return &c, nil
}

func (s *Store) ListCashiers(ctx context.Context, branchID *uuid.UUID) ([]*branch.Cashier, error) {
	query := `SELECT id, branch_id, name, active, created_at FROM cashiers`

	var args []any
	if branchID != nil {
		query += ` WHERE branch_id = $1`

		args = append(args, *branchID)
	}

	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("listing cashiers", err)
	}
	defer rows.Close()

	var cashiers []*branch.Cashier

	for rows.Next() {
		var c branch.Cashier
		if err := rows.Scan(&c.ID, &c.BranchID, &c.Name, &c.Active, &c.CreatedAt); err != nil {
			return nil, apperr.Persistence("scanning cashier", err)
		}

		cashiers = append(cashiers, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterating cashiers", err)
	}

	return cashiers, nil
}
