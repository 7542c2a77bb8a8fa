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
	"github.com/MrJamesThe3rd/findules/internal/imprest"
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

const selectColumns = `
	id, imprest_number, branch_id, staff_name, amount, category, purpose, date_issued, status,
	amount_spent, balance, date_retired, receipts, retirement_notes, issued_by, retired_by,
	created_at, updated_at
`

func scanImprest(s scanner) (*imprest.Imprest, error) {
	var (
		im        imprest.Imprest
		statusStr string
	)

	if err := s.Scan(
		&im.ID, &im.Number, &im.BranchID, &im.StaffName, &im.Amount, &im.Category, &im.Purpose,
		&im.DateIssued, &statusStr, &im.AmountSpent, &im.Balance, &im.DateRetired, &im.Receipts,
		&im.RetirementNotes, &im.IssuedBy, &im.RetiredBy, &im.CreatedAt, &im.UpdatedAt,
	); err != nil {
		return nil, err
	}

	im.Status = imprest.Status(statusStr)

	return &im, nil
}

func (s *Store) Create(ctx context.Context, im *imprest.Imprest) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Persistence("beginning transaction", err)
	}
	defer dbTx.Rollback()

	number, err := sequence.NextNumber(ctx, dbTx, sequence.KindImprest, time.Now())
	if err != nil {
		return apperr.Persistence("numbering imprest", err)
	}

	query := `
		INSERT INTO imprests (imprest_number, branch_id, staff_name, amount, category, purpose, date_issued, status, issued_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		number, im.BranchID, im.StaffName, im.Amount, im.Category, im.Purpose, im.DateIssued, im.Status, im.IssuedBy,
	).Scan(&im.ID, &im.CreatedAt, &im.UpdatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperr.Validation("imprest references an unknown branch or user")
		}

		return apperr.Persistence("creating imprest", err)
	}

	if err := dbTx.Commit(); err != nil {
		return apperr.Persistence("committing imprest", err)
	}

	im.Number = number

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*imprest.Imprest, error) {
	im, err := scanImprest(s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM imprests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("imprest not found")
		}

		return nil, apperr.Persistence("getting imprest", err)
	}

	return im, nil
}

func (s *Store) List(ctx context.Context, filter imprest.ListFilter) ([]*imprest.Imprest, error) {
	var (
		conditions []string
		args       []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.BranchID != nil {
		add("branch_id = $%d", *filter.BranchID)
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}

	if filter.Category != "" {
		add("lower(category) = lower($%d)", filter.Category)
	}

	if filter.StaffName != "" {
		add("position(lower($%d) in lower(staff_name)) > 0", filter.StaffName)
	}

	if filter.StartDate != nil {
		add("date_issued >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		add("date_issued <= $%d", *filter.EndDate)
	}

	query := `SELECT ` + selectColumns + ` FROM imprests`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}

	query += ` ORDER BY date_issued DESC, imprest_number DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("listing imprests", err)
	}
	defer rows.Close()

	var out []*imprest.Imprest

	for rows.Next() {
		im, err := scanImprest(rows)
		if err != nil {
			return nil, apperr.Persistence("scanning imprest", err)
		}

		out = append(out, im)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterating imprests", err)
	}

	return out, nil
}

type updateTx struct {
	tx *sql.Tx
	id uuid.UUID
}

func (s *Store) BeginUpdate(ctx context.Context, id uuid.UUID) (imprest.UpdateTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Persistence("beginning transaction", err)
	}

	return &updateTx{tx: dbTx, id: id}, nil
}

func (u *updateTx) Commit() error {
	if err := u.tx.Commit(); err != nil {
		return apperr.Persistence("committing imprest update", err)
	}

	return nil
}

func (u *updateTx) Rollback() error { return u.tx.Rollback() }

func (u *updateTx) Load(ctx context.Context) (*imprest.Imprest, error) {
	im, err := scanImprest(u.tx.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM imprests WHERE id = $1 FOR UPDATE`, u.id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("imprest not found")
		}

		return nil, apperr.Persistence("locking imprest", err)
	}

	return im, nil
}

func (u *updateTx) Save(ctx context.Context, im *imprest.Imprest) error {
	query := `
		UPDATE imprests
		SET status = $1, amount_spent = $2, balance = $3, date_retired = $4,
			receipts = $5, retirement_notes = $6, retired_by = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	err := u.tx.QueryRowContext(ctx, query,
		im.Status, im.AmountSpent, im.Balance, im.DateRetired,
		im.Receipts, im.RetirementNotes, im.RetiredBy, u.id,
	).Scan(&im.UpdatedAt)
	if err != nil {
		return apperr.Persistence("updating imprest", err)
	}

	return nil
}

func (u *updateTx) Delete(ctx context.Context) error {
	if _, err := u.tx.ExecContext(ctx, `DELETE FROM imprests WHERE id = $1`, u.id); err != nil {
		return apperr.Persistence("deleting imprest", err)
	}

	return nil
}
