// Package money converts between the cents integers persisted in the database
// and the 2-decimal currency values exchanged with clients.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CentsFromDecimal converts a currency amount into whole cents, rounding
// half-up beyond two fractional digits.
func CentsFromDecimal(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// DecimalFromCents renders whole cents as an exact 2dp decimal.
func DecimalFromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-2)
}

// FormatCents renders cents as a fixed 2dp string for display payloads.
func FormatCents(cents int64) string {
	return DecimalFromCents(cents).StringFixed(2)
}

// ParseAmount parses a client-supplied currency string into cents.
func ParseAmount(raw string) (int64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	return CentsFromDecimal(d), nil
}
