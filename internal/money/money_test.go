package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/money"
)

func TestParse(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    string
		wantErr bool
	}

	tests := []testCase{
		{name: "Plain", input: "10000", want: "10000"},
		{name: "Thousands", input: "1,234.56", want: "1234.56"},
		{name: "Naira", input: "₦ 33,400.00", want: "33400"},
		{name: "Code", input: "NGN500", want: "500"},
		{name: "Parentheses", input: "(100.50)", want: "-100.5"},
		{name: "Negative", input: "-0.01", want: "-0.01"},
		{name: "Empty", input: "  ", want: "0"},
		{name: "Garbage", input: "12abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.IsValidation(err))

				return
			}

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := map[string]string{
		"0":           "0.00",
		"50":          "50.00",
		"1234.5":      "1,234.50",
		"33500":       "33,500.00",
		"-100":        "-100.00",
		"1234567.891": "1,234,567.89",
	}

	for in, want := range tests {
		assert.Equal(t, want, money.Format(decimal.RequireFromString(in)), in)
	}
}

func TestCheckScale(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "0"},
		{input: "50"},
		{input: "50.4"},
		{input: "50.40"},
		{input: "50.400"},
		{input: "-0.01"},
		{input: "50.004", wantErr: true},
		{input: "0.001", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := money.CheckScale("cash at hand", decimal.RequireFromString(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.IsValidation(err))
				assert.Contains(t, err.Error(), "cash at hand has more than 2 decimal places")

				return
			}

			assert.NoError(t, err)
		})
	}
}
