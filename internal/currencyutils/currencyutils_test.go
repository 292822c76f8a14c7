package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		amountStr string
		expected  decimal.Decimal
		hasError  bool
	}{
		{"Simple decimal", "123.45", decimal.RequireFromString("123.45"), false},
		{"Negative decimal", "-123.45", decimal.RequireFromString("-123.45"), false},
		{"Integer", "100", decimal.NewFromInt(100), false},
		{"With comma decimal separator", "123,45", decimal.RequireFromString("123.45"), false},
		{"With thousand separator (comma)", "1,234.56", decimal.RequireFromString("1234.56"), false},
		{"With thousand separator (apostrophe)", "1'234.56", decimal.RequireFromString("1234.56"), false},
		{"European format", "1.234,56", decimal.RequireFromString("1234.56"), false},
		{"With currency symbol (EUR)", "€123.45", decimal.RequireFromString("123.45"), false},
		{"With currency code", "CHF 123.45", decimal.RequireFromString("123.45"), false},
		{"With spaces", "  123.45  ", decimal.RequireFromString("123.45"), false},
		{"Malformed decimal", "123.45.67", decimal.Zero, true},
		{"Non-numeric", "abc", decimal.Zero, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseAmount(tc.amountStr)

			if tc.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.True(t, tc.expected.Equal(result), "Expected %s but got %s", tc.expected.String(), result.String())
			}
		})
	}
}

func TestParseAmount_Empty(t *testing.T) {
	_, err := ParseAmount("  ")
	assert.ErrorIs(t, err, ErrEmptyAmount)
}

func TestStandardizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Simple decimal", "123.45", "123.45"},
		{"Negative decimal", "-123.45", "-123.45"},
		{"With comma decimal separator", "123,45", "123.45"},
		{"With thousand separator (comma)", "1,234.56", "1234.56"},
		{"Multiple separators", "1,234,567.89", "1234567.89"},
		{"Comma thousands only", "1,234,567", "1234567"},
		{"Comma as thousands separator", "1,234", "1234"},
		{"European multiple separators", "1.234.567,89", "1234567.89"},
		{"Dot thousands only", "1.234.567", "1234567"},
		{"Euro symbol and European format", "€1.234,56", "1234.56"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StandardizeAmount(tc.input))
		})
	}
}

func TestApplyIndicator(t *testing.T) {
	amount := decimal.RequireFromString("12.50")

	credit, err := ApplyIndicator(amount, "CRDT")
	require.NoError(t, err)
	assert.Equal(t, "12.5", credit.String())

	debit, err := ApplyIndicator(amount, " dbit ")
	require.NoError(t, err)
	assert.Equal(t, "-12.5", debit.String())

	unsigned, err := ApplyIndicator(amount.Neg(), "")
	require.NoError(t, err)
	assert.True(t, unsigned.IsPositive())

	_, err = ApplyIndicator(amount, "XXXX")
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		currency string
		expected string
	}{
		{"EUR currency", decimal.RequireFromString("1234.56"), "EUR", "€1234.56"},
		{"USD currency", decimal.RequireFromString("1234.56"), "USD", "$1234.56"},
		{"CHF currency", decimal.RequireFromString("1234.56"), "CHF", "CHF 1234.56"},
		{"Other currency", decimal.RequireFromString("1234.56"), "CAD", "CAD 1234.56"},
		{"Empty currency", decimal.RequireFromString("1234.56"), "", "1234.56"},
		{"Negative amount", decimal.RequireFromString("-1234.56"), "EUR", "€-1234.56"},
		{"Zero amount", decimal.Zero, "USD", "$0.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatAmount(tc.amount, tc.currency))
		})
	}
}
