package money

import "github.com/mExOms/convroute/pkg/xerrors"

// ExchangeRate converts Money denominated in Base into Money denominated in
// Quote: quote = base_amount * rate.
type ExchangeRate struct {
	Base  AssetCode
	Quote AssetCode
	Rate  Decimal
}

// NewExchangeRate validates and constructs an ExchangeRate. Base and Quote
// must differ (case-insensitively — both are already-normalized AssetCodes)
// and Rate must be strictly positive.
func NewExchangeRate(base, quote AssetCode, rate Decimal) (ExchangeRate, error) {
	if base == quote {
		return ExchangeRate{}, xerrors.NewInvalidInput("pair", "base and quote must differ")
	}
	if rate.IsZero() || rate.IsNegative() {
		return ExchangeRate{}, xerrors.NewInvalidInput("rate", "rate must be strictly positive")
	}
	return ExchangeRate{Base: base, Quote: quote, Rate: rate}, nil
}

// Convert converts money (denominated in Base) into Quote, rounding to
// targetScale with HalfAwayFromZero. money.Currency must equal r.Base.
func (r ExchangeRate) Convert(m Money, targetScale int32) (Money, error) {
	if m.Currency != r.Base {
		return Money{}, xerrors.NewInvalidInput("currency", "money currency must equal rate base")
	}
	raw := m.Amount.Mul(r.Rate)
	scaled, err := raw.ToScale(targetScale, HalfAwayFromZero)
	if err != nil {
		return Money{}, err
	}
	return Money{Currency: r.Quote, Amount: scaled}, nil
}

// Invert swaps Base/Quote and returns 1/Rate, computed with one extra digit
// of intermediate precision (scale+1) before rounding back to scale, which
// preserves round-trip fidelity per spec §4.2.
func (r ExchangeRate) Invert() (ExchangeRate, error) {
	scale := r.Rate.Scale()
	one := One(scale + 1)
	inverted, err := one.Div(r.Rate, scale+1)
	if err != nil {
		return ExchangeRate{}, err
	}
	rounded, err := inverted.ToScale(scale, HalfAwayFromZero)
	if err != nil {
		return ExchangeRate{}, err
	}
	return ExchangeRate{Base: r.Quote, Quote: r.Base, Rate: rounded}, nil
}
