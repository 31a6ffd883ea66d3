package money

import (
	"github.com/shopspring/decimal"

	"github.com/mExOms/convroute/pkg/xerrors"
)

// ln2 is the natural log of 2 to more digits than MaxScale+guard digits
// ever needs; Ln uses it for power-of-two range reduction instead of
// recomputing it (which would be circular: ln(2) can't be derived from the
// same series without a seed value).
const ln2Digits = "0.693147180559945309417232121458176568075500134360255254120680009493393621969694715605863326996418687542001481020570685733685520235758130557032670751635075961930727570828371435190307038623891673471123350115364497955239120475172681574932065155524734139525882950453007095833004427930263055"

var ln2 = decimal.RequireFromString(ln2Digits)

// two is the constant 2 used for range reduction.
var two = decimal.NewFromInt(2)

// Ln computes the natural logarithm of a strictly-positive Decimal at the
// given scale using power-of-two range reduction into [1,2) followed by the
// atanh series ln(x) = 2*atanh((x-1)/(x+1)). Intermediate divisions are
// rounded to scale+15 guard digits in decimal arithmetic (shopspring/decimal)
// and the sum is rounded to scale at the end, preserving the float-free
// policy of spec §9.
func Ln(d Decimal, scale int32) (Decimal, error) {
	if d.IsZero() || d.IsNegative() {
		return Decimal{}, xerrors.NewPrecisionViolation("Ln", "argument must be strictly positive")
	}
	if scale < 0 || scale > MaxScale {
		return Decimal{}, xerrors.NewPrecisionViolation("Ln", "scale out of range [0,50]")
	}

	guard := scale + 15
	x := d.value

	k := 0
	for x.Cmp(two) >= 0 {
		x = x.DivRound(two, guard)
		k++
	}
	one := decimal.NewFromInt(1)
	for x.Cmp(one) < 0 {
		x = x.Mul(two)
		k--
	}

	z := x.Sub(one).DivRound(x.Add(one), guard)
	zSquared := z.Mul(z)

	sum := z
	term := z
	// z is in [0, 1/3) after reduction so this converges in well under
	// guard/2 terms; bail out defensively to avoid an unbounded loop on a
	// pathological input.
	for n := 1; n < 200; n++ {
		term = term.Mul(zSquared)
		denom := decimal.NewFromInt(int64(2*n + 1))
		next := term.DivRound(denom, guard)
		sum = sum.Add(next)
		if next.Abs().Cmp(epsilon(guard)) < 0 {
			break
		}
	}

	result := sum.Mul(two).Add(ln2.Mul(decimal.NewFromInt(int64(k))))
	rounded := RoundHalfAwayFromZero(result, scale)
	return Decimal{value: rounded, scale: scale}, nil
}

func epsilon(scale int32) decimal.Decimal {
	return decimal.New(1, -(scale + 2))
}
