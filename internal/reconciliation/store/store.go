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
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
	"github.com/MrJamesThe3rd/findules/internal/sequence"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `
	r.id, r.serial_number, r.cashier_id, c.name, r.branch_id, r.reconciliation_date,
	r.actual_opening_balance, r.actual_total_sales, r.pos_transactions_amount, r.cash_transaction,
	r.transfers_in, r.transfers_out, r.discounts_given, r.refunds_issued, r.cash_withdrawn,
	r.actual_closing_balance, r.turn_over, r.expected_closing_balance, r.overage_shortage,
	r.variance_category, r.status, r.notes, r.created_by, r.retired_by, r.retired_at, r.created_at
`

const fromClause = `
	FROM reconciliations r
	JOIN cashiers c ON c.id = r.cashier_id
`

func scanReconciliation(s scanner) (*reconciliation.Reconciliation, error) {
	var (
		r                   reconciliation.Reconciliation
		category, statusStr string
	)

	if err := s.Scan(
		&r.ID, &r.SerialNumber, &r.CashierID, &r.CashierName, &r.BranchID, &r.Date,
		&r.ActualOpeningBalance, &r.TotalSales, &r.POSTransactionsAmount, &r.CashTransaction,
		&r.TransfersIn, &r.TransfersOut, &r.DiscountsGiven, &r.RefundsIssued, &r.CashWithdrawn,
		&r.CashAtHand, &r.TurnOver, &r.ExpectedClosingBalance, &r.OverageShortage,
		&category, &statusStr, &r.Notes, &r.CreatedBy, &r.RetiredBy, &r.RetiredAt, &r.CreatedAt,
	); err != nil {
		return nil, err
	}

	r.VarianceCategory = reconciliation.VarianceCategory(category)
	r.Status = reconciliation.Status(statusStr)

	return &r, nil
}

func (s *Store) Create(ctx context.Context, r *reconciliation.Reconciliation) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Persistence("beginning transaction", err)
	}
	defer dbTx.Rollback()

	serial, err := sequence.NextNumber(ctx, dbTx, sequence.KindReconciliation, time.Now())
	if err != nil {
		return apperr.Persistence("numbering reconciliation", err)
	}

	query := `
		INSERT INTO reconciliations (
			serial_number, cashier_id, branch_id, reconciliation_date,
			actual_opening_balance, actual_total_sales, pos_transactions_amount, cash_transaction,
			transfers_in, transfers_out, discounts_given, refunds_issued, cash_withdrawn,
			actual_closing_balance, turn_over, expected_closing_balance, overage_shortage,
			variance_category, status, notes, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id, created_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		serial, r.CashierID, r.BranchID, r.Date,
		r.ActualOpeningBalance, r.TotalSales, r.POSTransactionsAmount, r.CashTransaction,
		r.TransfersIn, r.TransfersOut, r.DiscountsGiven, r.RefundsIssued, r.CashWithdrawn,
		r.CashAtHand, r.TurnOver, r.ExpectedClosingBalance, r.OverageShortage,
		r.VarianceCategory, r.Status, r.Notes, r.CreatedBy,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Conflict("cashier %s already has a reconciliation for %s", r.CashierName, r.Date.Format("2006-01-02"))
		}

		if database.IsForeignKeyViolation(err) {
			return apperr.Validation("reconciliation references an unknown cashier, branch or user")
		}

		return apperr.Persistence("creating reconciliation", err)
	}

	if err := dbTx.Commit(); err != nil {
		return apperr.Persistence("committing reconciliation", err)
	}

	r.SerialNumber = serial

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*reconciliation.Reconciliation, error) {
	query := `SELECT ` + selectColumns + fromClause + ` WHERE r.id = $1`

	r, err := scanReconciliation(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("reconciliation not found")
		}

		return nil, apperr.Persistence("getting reconciliation", err)
	}

	return r, nil
}

func (s *Store) List(ctx context.Context, filter reconciliation.ListFilter) ([]*reconciliation.Reconciliation, error) {
	var (
		conditions []string
		args       []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.BranchID != nil {
		add("r.branch_id = $%d", *filter.BranchID)
	}

	if filter.CashierID != nil {
		add("r.cashier_id = $%d", *filter.CashierID)
	}

	if filter.Status != "" {
		add("r.status = $%d", filter.Status)
	}

	if filter.Category != "" {
		add("r.variance_category = $%d", filter.Category)
	}

	if filter.StartDate != nil {
		add("r.reconciliation_date >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		add("r.reconciliation_date <= $%d", *filter.EndDate)
	}

	query := `SELECT ` + selectColumns + fromClause
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}

	query += ` ORDER BY r.reconciliation_date DESC, r.serial_number DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("listing reconciliations", err)
	}
	defer rows.Close()

	var out []*reconciliation.Reconciliation

	for rows.Next() {
		r, err := scanReconciliation(rows)
		if err != nil {
			return nil, apperr.Persistence("scanning reconciliation", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterating reconciliations", err)
	}

	return out, nil
}

type updateTx struct {
	tx *sql.Tx
	id uuid.UUID
}

func (s *Store) BeginUpdate(ctx context.Context, id uuid.UUID) (reconciliation.UpdateTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Persistence("beginning transaction", err)
	}

	return &updateTx{tx: dbTx, id: id}, nil
}

func (u *updateTx) Commit() error {
	if err := u.tx.Commit(); err != nil {
		return apperr.Persistence("committing reconciliation update", err)
	}

	return nil
}

func (u *updateTx) Rollback() error { return u.tx.Rollback() }

func (u *updateTx) Load(ctx context.Context) (*reconciliation.Reconciliation, error) {
	query := `SELECT ` + selectColumns + fromClause + ` WHERE r.id = $1 FOR UPDATE OF r`

	r, err := scanReconciliation(u.tx.QueryRowContext(ctx, query, u.id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("reconciliation not found")
		}

		return nil, apperr.Persistence("locking reconciliation", err)
	}

	return r, nil
}

// Save writes the mutable columns only; derived figures are never rewritten.
func (u *updateTx) Save(ctx context.Context, r *reconciliation.Reconciliation) error {
	query := `
		UPDATE reconciliations
		SET status = $1, notes = $2, retired_by = $3, retired_at = $4
		WHERE id = $5
	`

	if _, err := u.tx.ExecContext(ctx, query, r.Status, r.Notes, r.RetiredBy, r.RetiredAt, u.id); err != nil {
		return apperr.Persistence("updating reconciliation", err)
	}

	return nil
}

func (u *updateTx) Delete(ctx context.Context) error {
	if _, err := u.tx.ExecContext(ctx, `DELETE FROM reconciliations WHERE id = $1`, u.id); err != nil {
		return apperr.Persistence("deleting reconciliation", err)
	}

	return nil
}
