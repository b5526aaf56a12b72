package utils

import (
	"regexp"

	"github.com/shopspring/decimal"
)

func IsValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	regex := regexp.MustCompile(pattern)
	return regex.MatchString(email)
}

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

// MoneyRound normalizes an amount to the currency precision (2 decimal
// places) used across balances and reports.
func MoneyRound(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
