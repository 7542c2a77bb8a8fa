// Package category learns which imprest category a purpose text belongs to.
package category

import (
	"strings"
	"time"
)

// Rule maps any purpose containing Pattern (case-insensitive) to Category.
type Rule struct {
	Pattern   string
	Category  string
	CreatedAt time.Time
}

// Match returns the category of the longest pattern contained in text, the
// newest rule winning a tie. Patterns are literal text, so % and _ match only
// themselves. An empty string means no rule applies.
func Match(rules []*Rule, text string) string {
	text = strings.ToLower(text)

	var best *Rule

	for _, r := range rules {
		if r.Pattern == "" || !strings.Contains(text, strings.ToLower(r.Pattern)) {
			continue
		}

		if best == nil || len(r.Pattern) > len(best.Pattern) ||
			(len(r.Pattern) == len(best.Pattern) && r.CreatedAt.After(best.CreatedAt)) {
			best = r
		}
	}

	if best == nil {
		return ""
	}

	return best.Category
}
