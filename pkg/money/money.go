package money

import "github.com/mExOms/convroute/pkg/xerrors"

// Money is a non-negative amount of a single currency at an explicit scale.
type Money struct {
	Currency AssetCode
	Amount   Decimal
}

// NewMoney validates and constructs a Money value. Amount must be >= 0.
func NewMoney(currency AssetCode, amount Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, xerrors.NewInvalidInput("amount", "money amount must be non-negative")
	}
	return Money{Currency: currency, Amount: amount}, nil
}

// Scale reports the presentation scale of the underlying amount.
func (m Money) Scale() int32 { return m.Amount.Scale() }

// Add returns m+other; both must share a currency. Result scale is
// max(m.Scale(), other.Scale()).
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, xerrors.NewInvalidInput("currency", "cannot add Money of differing currencies")
	}
	return Money{Currency: m.Currency, Amount: m.Amount.Add(other.Amount)}, nil
}

// Sub returns m-other; both must share a currency. The result may be
// negative if the caller doesn't enforce non-negativity themselves — Sub is
// a raw arithmetic primitive, not a balance transition (see pkg/portfolio
// for the invariant-preserving spend operation).
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, xerrors.NewInvalidInput("currency", "cannot subtract Money of differing currencies")
	}
	return Money{Currency: m.Currency, Amount: m.Amount.Sub(other.Amount)}, nil
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.Amount.IsZero() }

// Compare compares m and other's amounts; both must share a currency.
func (m Money) Compare(other Money) (int, error) {
	if m.Currency != other.Currency {
		return 0, xerrors.NewInvalidInput("currency", "cannot compare Money of differing currencies")
	}
	return m.Amount.Compare(other.Amount), nil
}

// String renders the amount at its own scale followed by the currency code.
func (m Money) String() string {
	return m.Amount.String() + " " + string(m.Currency)
}

// ZeroCache returns a shared zero-Money representation for (currency,scale),
// matching spec §4.3's instruction that zero-value Money instances be
// cached per (currency, scale) pair. Money is an immutable value type so
// "caching" here means deterministic construction, not pointer sharing.
func ZeroCache(currency AssetCode, scale int32) Money {
	return Money{Currency: currency, Amount: Zero(scale)}
}
