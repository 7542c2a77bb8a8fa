package store

import (
	"context"
	"database/sql"
	"errors"
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/branchbalance"
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

// Expected column order: id, branch_id, branch_name, opening_balance, current_balance,
// total_issued, total_retired, created_at, updated_at
func scanBalance(s scanner) (*branchbalance.Balance, error) {
	var b branchbalance.Balance

	if err := s.Scan(
		&b.ID, &b.BranchID, &b.BranchName, &b.OpeningBalance, &b.CurrentBalance,
		&b.TotalIssued, &b.TotalRetired, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &b, nil
}

const selectBalance = `
	SELECT bb.id, bb.branch_id, br.name, bb.opening_balance, bb.current_balance,
		COALESCE((SELECT SUM(i.amount) FROM imprests i WHERE i.branch_id = bb.branch_id), 0),
		COALESCE((SELECT SUM(i.amount_spent) FROM imprests i WHERE i.branch_id = bb.branch_id AND i.status = 'RETIRED'), 0),
		bb.created_at, bb.updated_at
	FROM branch_balances bb
	JOIN branches br ON br.id = bb.branch_id
`

func (s *Store) GetBalance(ctx context.Context, branchID uuid.UUID) (*branchbalance.Balance, error) {
	b, err := scanBalance(s.db.QueryRowContext(ctx, selectBalance+` WHERE bb.branch_id = $1`, branchID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("no balance recorded for branch %s", branchID)
		}

		return nil, apperr.Persistence("getting branch balance", err)
	}

	return b, nil
}

func (s *Store) ListBalances(ctx context.Context) ([]*branchbalance.Balance, error) {
	rows, err := s.db.QueryContext(ctx, selectBalance+` ORDER BY br.code`)
	if err != nil {
		return nil, apperr.Persistence("listing branch balances", err)
	}
	defer rows.Close()

	var balances []*branchbalance.Balance

	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, apperr.Persistence("scanning branch balance", err)
		}

		balances = append(balances, b)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterating branch balances", err)
	}

	return balances, nil
}

func (s *Store) ListTransactions(ctx context.Context, branchID uuid.UUID) ([]*branchbalance.Transaction, error) {
	query := `
		SELECT t.id, t.branch_balance_id, t.transaction_type, t.amount, t.balance_before,
			t.balance_after, t.performed_by, t.notes, t.created_at
		FROM branch_balance_transactions t
		JOIN branch_balances bb ON bb.id = t.branch_balance_id
		WHERE bb.branch_id = $1
		ORDER BY t.created_at ASC, t.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, branchID)
	if err != nil {
		return nil, apperr.Persistence("listing balance transactions", err)
	}
	defer rows.Close()

	var txs []*branchbalance.Transaction

	for rows.Next() {
		var (
			t       branchbalance.Transaction
			typeStr string
		)

		if err := rows.Scan(
			&t.ID, &t.BranchBalanceID, &typeStr, &t.Amount, &t.BalanceBefore,
			&t.BalanceAfter, &t.PerformedBy, &t.Notes, &t.CreatedAt,
		); err != nil {
			return nil, apperr.Persistence("scanning balance transaction", err)
		}

		t.Type = branchbalance.TransactionType(typeStr)
		txs = append(txs, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterating balance transactions", err)
	}

	return txs, nil
}

func ledgerLockKey(branchID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("branch_balance"))
	h.Write([]byte{0})
	h.Write(branchID[:])

	return int64(h.Sum64())
}

type topUpTx struct {
	tx       *sql.Tx
	branchID uuid.UUID
}

// BeginTopUp takes a transaction-scoped advisory lock on the branch. The lock
// also serialises the very first top-up, when there is no row to lock yet.
func (s *Store) BeginTopUp(ctx context.Context, branchID uuid.UUID) (branchbalance.TopUpTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Persistence("beginning top-up tx", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", ledgerLockKey(branchID)); err != nil {
		dbTx.Rollback()
		return nil, apperr.Persistence("acquiring ledger lock", err)
	}

	return &topUpTx{tx: dbTx, branchID: branchID}, nil
}

func (t *topUpTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return apperr.Persistence("committing top-up", err)
	}

	return nil
}

func (t *topUpTx) Rollback() error { return t.tx.Rollback() }

func (t *topUpTx) Current(ctx context.Context) (*branchbalance.Balance, error) {
	query := `
		SELECT bb.id, bb.branch_id, br.name, bb.opening_balance, bb.current_balance,
			0::numeric, 0::numeric, bb.created_at, bb.updated_at
		FROM branch_balances bb
		JOIN branches br ON br.id = bb.branch_id
		WHERE bb.branch_id = $1
		FOR UPDATE OF bb
	`

	b, err := scanBalance(t.tx.QueryRowContext(ctx, query, t.branchID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, apperr.Persistence("locking branch balance", err)
	}

	return b, nil
}

func (t *topUpTx) Save(ctx context.Context, b *branchbalance.Balance, entry *branchbalance.Transaction) error {
	if b.ID == uuid.Nil {
		query := `
			INSERT INTO branch_balances (branch_id, opening_balance, current_balance)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at
		`

		err := t.tx.QueryRowContext(ctx, query, b.BranchID, b.OpeningBalance, b.CurrentBalance).
			Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return apperr.Persistence("creating branch balance", err)
		}
	} else {
		query := `
			UPDATE branch_balances
			SET opening_balance = $1, current_balance = $2, updated_at = NOW()
			WHERE id = $3
			RETURNING updated_at
		`

		if err := t.tx.QueryRowContext(ctx, query, b.OpeningBalance, b.CurrentBalance, b.ID).Scan(&b.UpdatedAt); err != nil {
			return apperr.Persistence("updating branch balance", err)
		}
	}

	entry.BranchBalanceID = b.ID

	query := `
		INSERT INTO branch_balance_transactions
			(branch_balance_id, transaction_type, amount, balance_before, balance_after, performed_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		entry.BranchBalanceID, entry.Type, entry.Amount, entry.BalanceBefore,
		entry.BalanceAfter, entry.PerformedBy, entry.Notes,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return apperr.Persistence("recording balance transaction", err)
	}

	return nil
}
