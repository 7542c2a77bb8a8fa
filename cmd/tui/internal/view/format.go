package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/money"
)

const dbTimeout = 5 * time.Second

// FormatAmount renders d with thousands separators and two decimals.
func FormatAmount(d decimal.Decimal) string {
	return money.Format(d)
}

// FormatNullAmount renders a dash for an amount that has not been recorded.
func FormatNullAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}

	return money.Format(d.Decimal)
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// validateAmount is shared by the form inputs that take money.
func validateAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	d, err := money.Parse(s)
	if err != nil {
		return fmt.Errorf("not a valid amount")
	}

	if d.IsNegative() {
		return fmt.Errorf("amount cannot be negative")
	}

	if err := money.CheckScale("amount", d); err != nil {
		return err
	}

	return nil
}

// parseAmount treats an empty input as zero. Inputs are validated by the form
// before this is called.
func parseAmount(s string) decimal.Decimal {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero
	}

	d, err := money.Parse(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}
