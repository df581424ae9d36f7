package money

import (
	"fmt"
	"strings"
)

// Currency is a closed set of ISO 4217 codes accepted by the platform.
type Currency string

const EUR Currency = "EUR"

var currencies = map[Currency]struct{}{EUR: {}}

// ParseCurrency accepts a known code in any letter case.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := currencies[c]; !ok {
		return "", fmt.Errorf("unsupported currency %q", s)
	}
	return c, nil
}

func (c Currency) Lower() string { return strings.ToLower(string(c)) }

// FundingProgressPct is the display percentage of pooled over needed,
// floored and clamped to 0..100. It is not a storage check.
func FundingProgressPct(pooled, needed int64) int {
	if needed <= 0 {
		return 0
	}
	if pooled <= 0 {
		return 0
	}
	if pooled >= needed {
		return 100
	}
	return int(pooled * 100 / needed)
}

// Remaining returns needed-pooled, never below zero.
func Remaining(needed, pooled int64) int64 {
	if pooled >= needed {
		return 0
	}
	return needed - pooled
}
