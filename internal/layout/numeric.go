package layout

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// User-supplied numeric fields arrive as raw form strings. They are
// parsed here into typed results before they reach the generator, so
// NaN or negative values never flow into grid arithmetic.

var (
	ErrNotANumber   = errors.New("not a number")
	ErrCountRange   = errors.New("cabin count out of range")
	ErrNegativeSum  = errors.New("amount must not be negative")
	ErrNonFiniteSum = errors.New("amount must be finite")
)

const (
	MinCabinsPerRow = 1
	MaxCabinsPerRow = 20
)

// ParseCount parses a cabin count and clamps nothing: out-of-range
// values are rejected, not silently truncated.
func ParseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrNotANumber
	}
	if n < MinCabinsPerRow || n > MaxCabinsPerRow {
		return 0, ErrCountRange
	}
	return n, nil
}

// ParseMoney parses a price or deposit field. Zero is a valid amount
// (an explicit zero deposit is meaningful).
func ParseMoney(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ErrNotANumber
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFiniteSum
	}
	if v < 0 {
		return 0, ErrNegativeSum
	}
	return v, nil
}

// ParseOptionalMoney treats an empty field as "no override".
func ParseOptionalMoney(s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := ParseMoney(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
