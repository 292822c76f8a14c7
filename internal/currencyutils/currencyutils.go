// Package currencyutils parses and formats the monetary amounts found in
// upstream files.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned when an amount field is blank.
var ErrEmptyAmount = errors.New("empty amount")

// Credit/debit indicators used by ISO 20022 statements.
const (
	IndicatorCredit = "CRDT"
	IndicatorDebit  = "DBIT"
)

var currencyNoise = regexp.MustCompile(`[€$£¥₣₤₧₹₺₽₩฿₫₲₴₸₼₪CHF\s]`)

// ParseAmount parses a string representation of an amount into a decimal value
// It handles various formats like "1,234.56", "1.234,56", "1234.56", "1234,56"
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	amount, err := decimal.NewFromString(StandardizeAmount(amountStr))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount converts various currency string formats to a standard format that can be parsed by decimal.NewFromString
// Handles patterns like "CHF 1'234.56", "€1.234,56", "$1,234.56", "1 234,56", etc.
func StandardizeAmount(amountStr string) string {
	amountStr = currencyNoise.ReplaceAllString(amountStr, "")
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	switch {
	case strings.Contains(amountStr, ",") && strings.Contains(amountStr, "."):
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// 1.234,56
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// 1,234.56
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case strings.Count(amountStr, ",") > 1:
		amountStr = strings.ReplaceAll(amountStr, ",", "")
	case strings.Contains(amountStr, ","):
		parts := strings.Split(amountStr, ",")
		if len(parts[len(parts)-1]) <= 2 {
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case strings.Count(amountStr, ".") > 1:
		// 1.234.567 with no decimals
		parts := strings.Split(amountStr, ".")
		if len(parts[len(parts)-1]) == 3 {
			amountStr = strings.ReplaceAll(amountStr, ".", "")
		}
	}

	return amountStr
}

// ApplyIndicator signs an unsigned statement amount: debits become negative.
func ApplyIndicator(amount decimal.Decimal, indicator string) (decimal.Decimal, error) {
	switch strings.ToUpper(strings.TrimSpace(indicator)) {
	case IndicatorCredit, "":
		return amount.Abs(), nil
	case IndicatorDebit:
		return amount.Abs().Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown credit/debit indicator %q", indicator)
	}
}

// FormatAmount formats a decimal amount to a consistent display format with the specified currency.
// The amount is formatted with two decimal places without inserting thousands separators.
// Returns strings like "CHF 1234.56" or "€1234.56"
func FormatAmount(amount decimal.Decimal, currency string) string {
	formattedAmount := amount.StringFixed(2)

	if currency != "" {
		switch strings.ToUpper(currency) {
		case "EUR":
			return "€" + formattedAmount
		case "USD":
			return "$" + formattedAmount
		case "GBP":
			return "£" + formattedAmount
		case "CHF":
			return "CHF " + formattedAmount
		default:
			return currency + " " + formattedAmount
		}
	}

	return formattedAmount
}
