package decode

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParsePrice converts a comma-decimal price ("12,50") into minor units (1250).
// A blank price yields nil. Fractions below one cent are rounded half away from zero.
func ParsePrice(raw string) (*int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("invalid price %q: negative", raw)
	}

	cents := d.Mul(hundred).Round(0).IntPart()
	return &cents, nil
}
