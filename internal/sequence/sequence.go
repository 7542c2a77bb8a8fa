// Package sequence generates human-readable document numbers.
//
// Numbers come from a per-kind counter row in document_sequences that is
// incremented atomically inside the caller's transaction, so two concurrent
// creations can never be handed the same value.
package sequence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Kind string

const (
	KindImprest        Kind = "IMP"
	KindReconciliation Kind = "REC"
	KindFuelCoupon     Kind = "FC"
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Format renders the document number for kind at time t with sequence n.
//
//	IMP-2026-01-0007, REC-2026-01-0012, FC-20260115-0003
func Format(kind Kind, t time.Time, n int64) string {
	switch kind {
	case KindFuelCoupon:
		return fmt.Sprintf("%s-%s-%04d", kind, t.Format("20060102"), n)
	default:
		return fmt.Sprintf("%s-%04d-%02d-%04d", kind, t.Year(), int(t.Month()), n)
	}
}

const nextQuery = `
	INSERT INTO document_sequences (kind, last_value)
	VALUES ($1, 1)
	ON CONFLICT (kind) DO UPDATE SET last_value = document_sequences.last_value + 1
	RETURNING last_value
`

// Next reserves the next value for kind.
func Next(ctx context.Context, q Querier, kind Kind) (int64, error) {
	var n int64
	if err := q.QueryRowContext(ctx, nextQuery, kind).Scan(&n); err != nil {
		return 0, fmt.Errorf("reserving %s sequence: %w", kind, err)
	}

	return n, nil
}

// NextNumber reserves the next value for kind and formats it for time t.
func NextNumber(ctx context.Context, q Querier, kind Kind, t time.Time) (string, error) {
	n, err := Next(ctx, q, kind)
	if err != nil {
		return "", err
	}

	return Format(kind, t, n), nil
}
