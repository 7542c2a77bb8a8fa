package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, e *audit.Entry) error {
	query := `
		INSERT INTO audit_logs (user_id, action, module, details, ip_address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, e.UserID, e.Action, e.Module, e.Details, e.IPAddress).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return apperr.Persistence("writing audit entry", err)
	}

	return nil
}

func (s *Store) List(ctx context.Context, filter audit.ListFilter) ([]*audit.Entry, error) {
	var (
		conditions []string
		args       []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.UserID != nil {
		add("user_id = $%d", *filter.UserID)
	}

	if filter.Module != "" {
		add("module = $%d", filter.Module)
	}

	if filter.StartDate != nil {
		add("created_at >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		add("created_at < $%d::date + 1", *filter.EndDate)
	}

	query := `SELECT id, user_id, action, module, details, ip_address, created_at FROM audit_logs`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("listing audit entries", err)
	}
	defer rows.Close()

	var entries []*audit.Entry

	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Module, &e.Details, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, apperr.Persistence("scanning audit entry", err)
		}

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterating audit entries", err)
	}

	return entries, nil
}
