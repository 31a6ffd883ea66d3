package money

import "github.com/mExOms/convroute/pkg/xerrors"

// ToleranceWindow bounds how far an execution's actual spend may diverge
// from the caller's desired spend: [min,max) as fractions in [0,1),
// canonical scale 18.
type ToleranceWindow struct {
	Min Decimal
	Max Decimal
}

// NewToleranceWindow validates and constructs a ToleranceWindow. min and
// max must each lie in [0,1) and min <= max.
func NewToleranceWindow(min, max Decimal) (ToleranceWindow, error) {
	one := One(CanonicalScale)
	if min.IsNegative() || min.Compare(one) >= 0 {
		return ToleranceWindow{}, xerrors.NewInvalidInput("min", "tolerance min must be in [0,1)")
	}
	if max.IsNegative() || max.Compare(one) >= 0 {
		return ToleranceWindow{}, xerrors.NewInvalidInput("max", "tolerance max must be in [0,1)")
	}
	if min.Compare(max) > 0 {
		return ToleranceWindow{}, xerrors.NewInvalidInput("bounds", "tolerance min must be <= max")
	}
	return ToleranceWindow{Min: min, Max: max}, nil
}

// Heuristic returns the single scalar tolerance used to drive pruning and
// feasibility windows: Min when Min==Max, else Max (spec §3).
func (t ToleranceWindow) Heuristic() Decimal {
	if t.Min.Compare(t.Max) == 0 {
		return t.Min
	}
	return t.Max
}

// SpendWindow computes [spend*(1-min), spend*(1+max)] at working scale
// max(spend.Scale(),8), rounded back to spend's own scale.
func (t ToleranceWindow) SpendWindow(spend Money) (Money, Money, error) {
	workingScale := spend.Scale()
	if workingScale < 8 {
		workingScale = 8
	}
	one := One(workingScale)
	lowFactor := one.Sub(t.Min)
	highFactor := one.Add(t.Max)

	lowRaw := spend.Amount.Mul(lowFactor)
	highRaw := spend.Amount.Mul(highFactor)

	low, err := lowRaw.ToScale(spend.Scale(), HalfAwayFromZero)
	if err != nil {
		return Money{}, Money{}, err
	}
	high, err := highRaw.ToScale(spend.Scale(), HalfAwayFromZero)
	if err != nil {
		return Money{}, Money{}, err
	}
	if low.IsNegative() {
		low = Zero(spend.Scale())
	}
	return Money{Currency: spend.Currency, Amount: low}, Money{Currency: spend.Currency, Amount: high}, nil
}
