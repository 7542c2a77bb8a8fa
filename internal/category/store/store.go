package store

import (
	"context"
	"database/sql"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/category"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateRule(ctx context.Context, rule *category.Rule) error {
	query := `
		INSERT INTO category_rules (pattern, category, created_at)
		VALUES ($1, $2, NOW())
		RETURNING created_at
	`

	if err := s.db.QueryRowContext(ctx, query, rule.Pattern, rule.Category).Scan(&rule.CreatedAt); err != nil {
		return apperr.Persistence("creating category rule", err)
	}

	return nil
}

func (s *Store) ListRules(ctx context.Context) ([]*category.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT pattern, category, created_at FROM category_rules ORDER BY category, pattern`)
	if err != nil {
		return nil, apperr.Persistence("listing category rules", err)
	}
	defer rows.Close()

	var rules []*category.Rule

	for rows.Next() {
		var r category.Rule
		if err := rows.Scan(&r.Pattern, &r.Category, &r.CreatedAt); err != nil {
			return nil, apperr.Persistence("scanning category rule", err)
		}

		rules = append(rules, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterating category rules", err)
	}

	return rules, nil
}
