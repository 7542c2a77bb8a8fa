package category

import (
	"context"
	"strings"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	CreateRule(ctx context.Context, rule *Rule) error
	ListRules(ctx context.Context) ([]*Rule, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the longest pattern found in text, or an
// empty string when nothing matches.
func (s *Service) Suggest(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	rules, err := s.repo.ListRules(ctx)
	if err != nil {
		return "", err
	}

	return Match(rules, text), nil
}

// Learn remembers that purposes containing pattern belong to category.
func (s *Service) Learn(ctx context.Context, pattern, category string) (*Rule, error) {
	rule := &Rule{
		Pattern:  strings.TrimSpace(pattern),
		Category: strings.TrimSpace(category),
	}

	if rule.Pattern == "" || rule.Category == "" {
		return nil, apperr.Validation("pattern and category are required")
	}

	if err := s.repo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

func (s *Service) Rules(ctx context.Context) ([]*Rule, error) {
	return s.repo.ListRules(ctx)
}
