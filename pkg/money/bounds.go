package money

import "github.com/mExOms/convroute/pkg/xerrors"

// OrderBounds is an inclusive [Min,Max] interval denominated in a single
// currency, with Min <= Max. Both may be zero.
type OrderBounds struct {
	Min Money
	Max Money
}

// NewOrderBounds validates and constructs OrderBounds. min and max must
// share a currency and min <= max.
func NewOrderBounds(min, max Money) (OrderBounds, error) {
	if min.Currency != max.Currency {
		return OrderBounds{}, xerrors.NewInvalidInput("currency", "bounds min/max currency mismatch")
	}
	cmp, err := min.Compare(max)
	if err != nil {
		return OrderBounds{}, err
	}
	if cmp > 0 {
		return OrderBounds{}, xerrors.NewInvalidInput("bounds", "min must be <= max")
	}
	return OrderBounds{Min: min, Max: max}, nil
}

// Contains reports whether x (in the bounds' currency) falls within
// [Min,Max] inclusive.
func (b OrderBounds) Contains(x Money) (bool, error) {
	if x.Currency != b.Min.Currency {
		return false, xerrors.NewInvalidInput("currency", "value currency does not match bounds currency")
	}
	loCmp, err := b.Min.Compare(x)
	if err != nil {
		return false, err
	}
	hiCmp, err := x.Compare(b.Max)
	if err != nil {
		return false, err
	}
	return loCmp <= 0 && hiCmp <= 0, nil
}

// Clamp constrains x into [Min,Max].
func (b OrderBounds) Clamp(x Money) (Money, error) {
	if x.Currency != b.Min.Currency {
		return Money{}, xerrors.NewInvalidInput("currency", "value currency does not match bounds currency")
	}
	if cmp, err := x.Compare(b.Min); err != nil {
		return Money{}, err
	} else if cmp < 0 {
		return b.Min, nil
	}
	if cmp, err := x.Compare(b.Max); err != nil {
		return Money{}, err
	} else if cmp > 0 {
		return b.Max, nil
	}
	return x, nil
}
