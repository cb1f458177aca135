package kernel

import (
	"fmt"
)

// Money is a monetary amount in integer cents of the platform currency.
// Storing cents avoids floating-point drift when totals are recomputed
// after sub-order rejections. Negative amounts are never valid for order
// totals and are rejected by Validate.
type Money int64

// NewMoney creates a Money amount from integer cents.
func NewMoney(cents int64) Money {
	return Money(cents)
}

// Cents returns the raw amount in cents.
func (m Money) Cents() int64 {
	return int64(m)
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return m + other
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// Multiply returns the amount scaled by a non-negative quantity.
func (m Money) Multiply(quantity int) Money {
	return m * Money(quantity)
}

// String formats the amount as a decimal, e.g. "12.50". The whole-unit and
// cent parts are negated separately so the formatting stays exact over the
// full int64 range, including math.MinInt64.
func (m Money) String() string {
	cents := int64(m)
	sign := ""
	if cents < 0 {
		sign = "-"
	}
	units := cents / 100
	rem := cents % 100
	if units < 0 {
		units = -units
	}
	if rem < 0 {
		rem = -rem
	}
	return fmt.Sprintf("%s%d.%02d", sign, units, rem)
}

// Validate checks that the amount is not negative.
func (m Money) Validate() error {
	if m.IsNegative() {
		return fmt.Errorf("money amount %s is negative", m)
	}
	return nil
}
