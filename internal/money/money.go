// Package money parses and formats bill and expense amounts.
//
// Two parsing modes exist. Parse is strict and is used when a record is
// created: anything that is not a plain non-negative number is rejected.
// Coerce is lenient and is used when stored data is read back for display
// or aggregation, where old rows may hold strings or garbage.
package money

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrMissingAmount is returned by Parse for blank input.
	ErrMissingAmount = errors.New("amount is required")
	// ErrInvalidAmount is returned by Parse for malformed or negative input.
	ErrInvalidAmount = errors.New("amount must be a non-negative number")
)

// Stored amounts outside float64's range cannot come from the app and would
// make rounding or printing allocate one digit per power of ten.
const (
	maxMagnitude = 308
	minMagnitude = -324
)

var (
	leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	plainNumber   = regexp.MustCompile(`^(\d+(\.\d+)?|\.\d+)$`)
)

// Coerce reads the leading number of s and ignores the rest, so "12.5 TL"
// yields 12.5. Input with no leading number, negative values, and values
// outside float64's range yield zero.
// Coerce(Coerce(x).String()) == Coerce(x) for every x.
func Coerce(s string) decimal.Decimal {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return decimal.Zero
	}
	m = strings.TrimPrefix(m, "+")
	if strings.HasPrefix(m, "-") {
		return decimal.Zero
	}
	mantissa, exp, hasExp := strings.Cut(m, "e")
	if !hasExp {
		mantissa, exp, hasExp = strings.Cut(m, "E")
	}
	mantissa = strings.TrimSuffix(mantissa, ".")
	if strings.HasPrefix(mantissa, ".") {
		mantissa = "0" + mantissa
	}
	if hasExp {
		mantissa += "e" + exp
	}
	d, err := decimal.NewFromString(mantissa)
	if err != nil || d.IsNegative() || !inRange(d) {
		return decimal.Zero
	}
	return d
}

// inRange reports whether d's order of magnitude fits a float64. It only
// inspects the coefficient and exponent, never expanding the value.
func inRange(d decimal.Decimal) bool {
	if d.IsZero() {
		return true
	}
	digits := int64(len(d.Coefficient().String()))
	mag := digits + int64(d.Exponent()) - 1
	return mag >= minMagnitude && mag <= maxMagnitude
}

// Parse reads a user-entered amount. Both "12.50" and "12,50" are accepted.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrMissingAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if !plainNumber.MatchString(s) {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
