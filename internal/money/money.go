// Package money parses and formats monetary amounts as exact decimals.
package money

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
)

var symbols = []string{"NGN", "₦", "$", " "}

// Parse reads an amount such as "1,234.56", "₦ 500" or "(20.00)".
// Parenthesised values are negative. Empty input is zero.
func Parse(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = clean[1 : len(clean)-1]
	}

	for _, sym := range symbols {
		clean = strings.ReplaceAll(clean, sym, "")
	}

	clean = strings.ReplaceAll(clean, ",", "")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, apperr.Validation("invalid amount %q", s)
	}

	if negative {
		d = d.Neg()
	}

	return d, nil
}

// Format renders d with two decimal places and thousands separators.
func Format(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")

	var sb strings.Builder

	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}

		sb.WriteRune(r)
	}

	return sign + sb.String() + "." + frac
}

// Scale is the number of decimal places amounts are stored with.
const Scale = 2

// CheckScale rejects d when it carries more precision than an amount column
// can hold. name is used in the error message.
func CheckScale(name string, d decimal.Decimal) error {
	if !d.Equal(d.Round(Scale)) {
		return apperr.Validation("%s has more than %d decimal places", name, Scale)
	}

	return nil
}
