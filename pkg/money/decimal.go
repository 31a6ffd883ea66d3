// Package money implements the deterministic arbitrary-precision decimal
// kernel and the value objects built on top of it: Money, ExchangeRate,
// OrderBounds and ToleranceWindow. All arithmetic here is exact rational
// arithmetic with an explicit scale; nothing in this package ever touches
// an IEEE-754 float for a monetary or rate value.
package money

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mExOms/convroute/pkg/xerrors"
)

// MaxScale is the largest fractional-digit scale any Decimal may carry.
const MaxScale = 50

// CanonicalScale is the fixed internal scale used for cost, rate and
// tolerance computations throughout the search engine.
const CanonicalScale = 18

// Decimal is a signed arbitrary-precision value with an explicit scale
// (number of fractional digits it is presented at). Two Decimals compare
// equal iff their normalized numeric values compare equal; scale never
// participates in equality, only in presentation and rounding targets.
type Decimal struct {
	value decimal.Decimal
	scale int32
}

// Zero returns the zero value at the given scale.
func Zero(scale int32) Decimal {
	return Decimal{value: decimal.Zero, scale: scale}
}

// One returns the value 1 at the given scale.
func One(scale int32) Decimal {
	return Decimal{value: decimal.NewFromInt(1), scale: scale}
}

// NewFromString parses a base-10 string into a Decimal at the given scale,
// without rounding (the literal value is kept as-is; the scale is only a
// presentation target for subsequent ToScale calls).
func NewFromString(s string, scale int32) (Decimal, error) {
	if scale < 0 || scale > MaxScale {
		return Decimal{}, xerrors.NewPrecisionViolation("NewFromString", "scale out of range [0,50]")
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Decimal{}, xerrors.NewInvalidInput("value", "not a valid decimal: "+s)
	}
	return Decimal{value: d, scale: scale}, nil
}

// NewFromInt builds an exact Decimal from an int64 at the given scale.
func NewFromInt(v int64, scale int32) Decimal {
	return Decimal{value: decimal.NewFromInt(v), scale: scale}
}

// Scale reports the Decimal's presentation scale.
func (d Decimal) Scale() int32 { return d.scale }

// Raw exposes the underlying exact rational value; used only by sibling
// packages in this module that need to hand a value to shopspring/decimal
// APIs directly (e.g. Money arithmetic, rate inversion).
func (d Decimal) Raw() decimal.Decimal { return d.value }

// FromRaw wraps an existing shopspring decimal.Decimal at the given scale.
func FromRaw(v decimal.Decimal, scale int32) Decimal {
	return Decimal{value: v, scale: scale}
}

// RoundingMode enumerates the rounding policies ToScale accepts. The kernel
// only ever exercises HalfAwayFromZero in this codebase (spec mandates it
// for every rescale), but the type keeps the contract explicit the way the
// teacher threads an explicit side/direction through its rate math.
type RoundingMode int

const (
	// HalfAwayFromZero rounds ties away from zero: 0.5 -> 1, -0.5 -> -1.
	HalfAwayFromZero RoundingMode = iota
)

// ToScale rescales d to the requested scale under the given rounding mode.
// scale must be in [0,50]; anything else is a PrecisionViolation.
func (d Decimal) ToScale(scale int32, mode RoundingMode) (Decimal, error) {
	if scale < 0 || scale > MaxScale {
		return Decimal{}, xerrors.NewPrecisionViolation("ToScale", "scale out of range [0,50]")
	}
	switch mode {
	case HalfAwayFromZero:
		return Decimal{value: RoundHalfAwayFromZero(d.value, scale), scale: scale}, nil
	default:
		return Decimal{}, xerrors.NewPrecisionViolation("ToScale", "unsupported rounding mode")
	}
}

// RoundHalfAwayFromZero rounds v to scale fractional digits, rounding exact
// ties away from zero (0.5 -> 1, -0.5 -> -1). Implemented from first
// principles over exact rational arithmetic rather than relying on a
// particular library's default tie-breaking rule, since spec §3 pins this
// rounding mode as the one true mode for every rescale in this system.
func RoundHalfAwayFromZero(v decimal.Decimal, scale int32) decimal.Decimal {
	negative := v.IsNegative()
	abs := v.Abs()

	pow := decimal.New(1, scale) // 10^scale
	shifted := abs.Mul(pow)
	truncated := shifted.Truncate(0)
	frac := shifted.Sub(truncated)

	half := decimal.New(5, -1) // 0.5
	if frac.Cmp(half) >= 0 {
		truncated = truncated.Add(decimal.NewFromInt(1))
	}

	result := truncated.DivRound(pow, scale)
	if negative {
		result = result.Neg()
	}
	return result
}

// Add returns d+other, presented at max(d.scale, other.scale).
func (d Decimal) Add(other Decimal) Decimal {
	return Decimal{value: d.value.Add(other.value), scale: maxScale(d.scale, other.scale)}
}

// Sub returns d-other, presented at max(d.scale, other.scale).
func (d Decimal) Sub(other Decimal) Decimal {
	return Decimal{value: d.value.Sub(other.value), scale: maxScale(d.scale, other.scale)}
}

// Mul returns d*other, presented at max(d.scale, other.scale).
func (d Decimal) Mul(other Decimal) Decimal {
	return Decimal{value: d.value.Mul(other.value), scale: maxScale(d.scale, other.scale)}
}

// Div divides d by other, rounding the exact quotient to the requested
// scale with HalfAwayFromZero. Division by zero is a PrecisionViolation.
func (d Decimal) Div(other Decimal, scale int32) (Decimal, error) {
	if other.value.IsZero() {
		return Decimal{}, xerrors.NewPrecisionViolation("Div", "division by zero")
	}
	if scale < 0 || scale > MaxScale {
		return Decimal{}, xerrors.NewPrecisionViolation("Div", "scale out of range [0,50]")
	}
	q := d.value.DivRound(other.value, int32(scale))
	return Decimal{value: q, scale: scale}, nil
}

// Compare returns -1, 0 or 1 comparing the exact numeric values of d and
// other (scale is never consulted).
func (d Decimal) Compare(other Decimal) int {
	return d.value.Cmp(other.value)
}

// IsZero reports whether d's exact value is zero.
func (d Decimal) IsZero() bool { return d.value.IsZero() }

// IsNegative reports whether d's exact value is strictly negative.
func (d Decimal) IsNegative() bool { return d.value.IsNegative() }

// Neg returns -d at the same scale.
func (d Decimal) Neg() Decimal { return Decimal{value: d.value.Neg(), scale: d.scale} }

// String renders d rounded to its own scale, half-away-from-zero.
func (d Decimal) String() string {
	return d.value.StringFixed(d.scale)
}

func maxScale(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
