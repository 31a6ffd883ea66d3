// Package feepolicy implements the FeePolicy capability described in spec
// §3/§9: a tagged variant of known fee shapes plus a pluggable Custom
// capability, each able to compute a FeeBreakdown for a trade and report a
// deterministic fingerprint for graph-build determinism.
package feepolicy

import (
	"fmt"

	"github.com/mExOms/convroute/pkg/money"
	"github.com/mExOms/convroute/pkg/xerrors"
)

// Side is the direction of an order: the side the traveller is dealing on.
type Side string

const (
	// Buy means the order offers to acquire Base by spending Quote —
	// the graph edge runs Quote -> Base.
	Buy Side = "BUY"
	// Sell means the order offers to dispose of Base for Quote — the
	// graph edge runs Base -> Quote.
	Sell Side = "SELL"
)

// FeeBreakdown is the result of evaluating a FeePolicy at a particular fill
// size: an optional fee denominated in Base and/or an optional fee
// denominated in Quote.
type FeeBreakdown struct {
	BaseFee  *money.Money
	QuoteFee *money.Money
}

// IsZero reports whether the breakdown carries no fees at all.
func (f FeeBreakdown) IsZero() bool {
	if f.BaseFee != nil && !f.BaseFee.IsZero() {
		return false
	}
	if f.QuoteFee != nil && !f.QuoteFee.IsZero() {
		return false
	}
	return true
}

// FeePolicy computes the fee charged on one fill of an order and exposes a
// fingerprint that uniquely identifies its configuration, used by
// GraphBuilder to guarantee bit-identical output for identical inputs.
type FeePolicy interface {
	Compute(side Side, baseAmount, quoteAmount money.Money) (FeeBreakdown, error)
	Fingerprint() string
}

// None is the absence of a fee policy: every Compute call returns a
// zero-value FeeBreakdown. A nil FeePolicy on an Order is equivalent to
// None per spec §3.
type None struct{}

func (None) Compute(_ Side, _, _ money.Money) (FeeBreakdown, error) { return FeeBreakdown{}, nil }
func (None) Fingerprint() string                                   { return "none" }

// PercentageOfQuote charges Rate (a fraction, e.g. 0.001 = 0.1%) of the
// quote-side amount, deducted from the quote the traveller receives.
type PercentageOfQuote struct {
	Rate money.Decimal
}

func (p PercentageOfQuote) Compute(_ Side, _, quoteAmount money.Money) (FeeBreakdown, error) {
	return computeQuoteFee(p.Rate, quoteAmount)
}

func (p PercentageOfQuote) Fingerprint() string {
	return fmt.Sprintf("pct_quote:%s", p.Rate.String())
}

// PercentageOfBase charges Rate of the base-side amount, deducted from the
// base the traveller must additionally supply (added to the gross base
// capacity in GraphBuilder's grossBase measure).
type PercentageOfBase struct {
	Rate money.Decimal
}

func (p PercentageOfBase) Compute(_ Side, baseAmount, _ money.Money) (FeeBreakdown, error) {
	return computeBaseFee(p.Rate, baseAmount)
}

func (p PercentageOfBase) Fingerprint() string {
	return fmt.Sprintf("pct_base:%s", p.Rate.String())
}

// BothSides charges BaseRate of the base amount and QuoteRate of the quote
// amount simultaneously.
type BothSides struct {
	BaseRate  money.Decimal
	QuoteRate money.Decimal
}

func (b BothSides) Compute(side Side, baseAmount, quoteAmount money.Money) (FeeBreakdown, error) {
	baseBreak, err := computeBaseFee(b.BaseRate, baseAmount)
	if err != nil {
		return FeeBreakdown{}, err
	}
	quoteBreak, err := computeQuoteFee(b.QuoteRate, quoteAmount)
	if err != nil {
		return FeeBreakdown{}, err
	}
	return FeeBreakdown{BaseFee: baseBreak.BaseFee, QuoteFee: quoteBreak.QuoteFee}, nil
}

func (b BothSides) Fingerprint() string {
	return fmt.Sprintf("both:%s:%s", b.BaseRate.String(), b.QuoteRate.String())
}

// Tier is one threshold/rate pair in a Tiered fee schedule: notional
// amounts at or above Threshold (in quote terms) use Rate.
type Tier struct {
	Threshold money.Decimal
	Rate      money.Decimal
}

// Tiered selects a quote-side percentage fee rate based on which tier the
// quote notional falls into; Tiers must be sorted ascending by Threshold
// and the policy picks the highest threshold not exceeding the notional
// (falling back to the lowest tier's rate below every threshold).
type Tiered struct {
	Tiers []Tier
}

func (t Tiered) Compute(_ Side, _, quoteAmount money.Money) (FeeBreakdown, error) {
	if len(t.Tiers) == 0 {
		return FeeBreakdown{}, nil
	}
	rate := t.Tiers[0].Rate
	for _, tier := range t.Tiers {
		if quoteAmount.Amount.Compare(tier.Threshold) >= 0 {
			rate = tier.Rate
		}
	}
	return computeQuoteFee(rate, quoteAmount)
}

func (t Tiered) Fingerprint() string {
	s := "tiered"
	for _, tier := range t.Tiers {
		s += fmt.Sprintf(":%s@%s", tier.Rate.String(), tier.Threshold.String())
	}
	return s
}

// Custom adapts a caller-supplied fee computation (and its fingerprint)
// into the FeePolicy interface, the pluggable capability spec §9 calls out.
type Custom struct {
	FingerprintValue string
	ComputeFunc      func(side Side, baseAmount, quoteAmount money.Money) (FeeBreakdown, error)
}

func (c Custom) Compute(side Side, baseAmount, quoteAmount money.Money) (FeeBreakdown, error) {
	if c.ComputeFunc == nil {
		return FeeBreakdown{}, xerrors.NewInvalidInput("feePolicy", "custom policy has no compute function")
	}
	return c.ComputeFunc(side, baseAmount, quoteAmount)
}

func (c Custom) Fingerprint() string {
	if c.FingerprintValue == "" {
		return "custom:unnamed"
	}
	return "custom:" + c.FingerprintValue
}

func computeQuoteFee(rate money.Decimal, quoteAmount money.Money) (FeeBreakdown, error) {
	raw := quoteAmount.Amount.Mul(rate)
	scaled, err := raw.ToScale(quoteAmount.Scale(), money.HalfAwayFromZero)
	if err != nil {
		return FeeBreakdown{}, err
	}
	fee, err := money.NewMoney(quoteAmount.Currency, scaled)
	if err != nil {
		return FeeBreakdown{}, xerrors.NewInvalidInput("feePolicy", "computed negative quote fee")
	}
	return FeeBreakdown{QuoteFee: &fee}, nil
}

func computeBaseFee(rate money.Decimal, baseAmount money.Money) (FeeBreakdown, error) {
	raw := baseAmount.Amount.Mul(rate)
	scaled, err := raw.ToScale(baseAmount.Scale(), money.HalfAwayFromZero)
	if err != nil {
		return FeeBreakdown{}, err
	}
	fee, err := money.NewMoney(baseAmount.Currency, scaled)
	if err != nil {
		return FeeBreakdown{}, xerrors.NewInvalidInput("feePolicy", "computed negative base fee")
	}
	return FeeBreakdown{BaseFee: &fee}, nil
}
