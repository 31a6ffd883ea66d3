// Package materialize turns the raw fills a search.Engine decided to
// execute into an ExecutionPlan: per-step fee application, aggregated fee
// totals, and the residual-tolerance feasibility check, per spec §4.8.
package materialize

import (
	"sort"

	"github.com/mExOms/convroute/pkg/money"
	"github.com/mExOms/convroute/pkg/order"
	"github.com/mExOms/convroute/pkg/search"
)

// ExecutionStep is one executed edge traversal: the amount spent in From,
// the amount actually received in To after fees, and the fees charged in
// either currency.
type ExecutionStep struct {
	SequenceNumber int
	From           money.AssetCode
	To             money.AssetCode
	Spent          money.Money
	Received       money.Money
	Fees           map[money.AssetCode]money.Money
	Order          order.Order
}

// ExecutionPlan is the materialized outcome of a search: an ordered step
// sequence plus the aggregates a caller needs to judge whether the plan
// satisfies its spend tolerance.
type ExecutionPlan struct {
	PlanID            string
	SourceCurrency    money.AssetCode
	TargetCurrency    money.AssetCode
	Steps             []ExecutionStep
	TotalSpent        money.Money
	TotalReceived     money.Money
	FeeBreakdown      []money.Money
	ResidualTolerance money.Decimal
	IsLinear          bool
}

// Materializer converts raw fills into an ExecutionPlan.
type Materializer struct{}

// NewMaterializer returns a Materializer.
func NewMaterializer() Materializer { return Materializer{} }

// Materialize builds an ExecutionPlan from fills, or reports ok=false when
// the fill sequence cannot produce a consistent plan — any step's net
// received amount is non-positive, or the resulting totalSpent falls
// outside the tolerance window's [minSpend,maxSpend].
func (Materializer) Materialize(
	source, target money.AssetCode,
	desiredSpend money.Money,
	tolerance money.ToleranceWindow,
	fills []search.RawFill,
) (ExecutionPlan, bool, error) {
	steps := make([]ExecutionStep, 0, len(fills))
	for i, fill := range fills {
		step, ok, err := buildStep(fill, i+1)
		if err != nil {
			return ExecutionPlan{}, false, err
		}
		if !ok {
			return ExecutionPlan{}, false, nil
		}
		steps = append(steps, step)
	}

	totalSpent := money.ZeroCache(source, desiredSpend.Scale())
	for _, step := range steps {
		if step.From != source {
			continue
		}
		var err error
		totalSpent, err = totalSpent.Add(step.Spent)
		if err != nil {
			return ExecutionPlan{}, false, err
		}
	}

	totalReceived := money.ZeroCache(target, desiredSpend.Scale())
	for _, step := range steps {
		if step.To != target {
			continue
		}
		var err error
		totalReceived, err = totalReceived.Add(step.Received)
		if err != nil {
			return ExecutionPlan{}, false, err
		}
	}

	minSpend, maxSpend, err := tolerance.SpendWindow(desiredSpend)
	if err != nil {
		return ExecutionPlan{}, false, err
	}
	if cmp, _ := totalSpent.Compare(minSpend); cmp < 0 {
		return ExecutionPlan{}, false, nil
	}
	if cmp, _ := totalSpent.Compare(maxSpend); cmp > 0 {
		return ExecutionPlan{}, false, nil
	}

	residual, err := residualTolerance(totalSpent, desiredSpend, tolerance.Heuristic())
	if err != nil {
		return ExecutionPlan{}, false, err
	}

	return ExecutionPlan{
		SourceCurrency:    source,
		TargetCurrency:    target,
		Steps:             steps,
		TotalSpent:        totalSpent,
		TotalReceived:     totalReceived,
		FeeBreakdown:      aggregateFees(steps),
		ResidualTolerance: residual,
		IsLinear:          isLinear(steps),
	}, true, nil
}

// buildStep evaluates the edge's fee policy at the exact spent amount,
// derives the net (fee-deducted) received amount, and reports ok=false
// when that amount would be non-positive.
func buildStep(fill search.RawFill, sequenceNumber int) (ExecutionStep, bool, error) {
	o := fill.Edge.Order
	from := fill.Edge.From
	to := fill.Edge.To

	spentMoney, err := money.NewMoney(from, fill.Spent)
	if err != nil {
		return ExecutionStep{}, false, err
	}
	rawReceived, err := fill.Edge.Rate.Convert(spentMoney, money.CanonicalScale)
	if err != nil {
		return ExecutionStep{}, false, err
	}

	var baseAmount, quoteAmount money.Money
	if from == o.Pair.Base {
		baseAmount = spentMoney
		quoteAmount = rawReceived
	} else {
		quoteAmount = spentMoney
		baseAmount = rawReceived
	}

	breakdown, err := o.EffectivePolicy().Compute(o.Side, baseAmount, quoteAmount)
	if err != nil {
		return ExecutionStep{}, false, err
	}

	fees := map[money.AssetCode]money.Money{}
	netReceived := rawReceived

	if breakdown.BaseFee != nil {
		fees[breakdown.BaseFee.Currency] = addFee(fees, *breakdown.BaseFee)
		if breakdown.BaseFee.Currency == to {
			netReceived, err = netReceived.Sub(*breakdown.BaseFee)
			if err != nil {
				return ExecutionStep{}, false, err
			}
		}
	}
	if breakdown.QuoteFee != nil {
		fees[breakdown.QuoteFee.Currency] = addFee(fees, *breakdown.QuoteFee)
		if breakdown.QuoteFee.Currency == to {
			netReceived, err = netReceived.Sub(*breakdown.QuoteFee)
			if err != nil {
				return ExecutionStep{}, false, err
			}
		}
	}

	if netReceived.IsZero() || netReceived.Amount.IsNegative() {
		return ExecutionStep{}, false, nil
	}

	return ExecutionStep{
		SequenceNumber: sequenceNumber,
		From:           from,
		To:             to,
		Spent:          spentMoney,
		Received:       netReceived,
		Fees:           fees,
		Order:          o,
	}, true, nil
}

func addFee(existing map[money.AssetCode]money.Money, fee money.Money) money.Money {
	prior, ok := existing[fee.Currency]
	if !ok {
		return fee
	}
	sum, err := prior.Add(fee)
	if err != nil {
		return fee
	}
	return sum
}

// aggregateFees sums every step's per-currency fees into a lexicographically
// sorted, zero-dropped slice, per spec §4.8 step 3.
func aggregateFees(steps []ExecutionStep) []money.Money {
	totals := map[money.AssetCode]money.Money{}
	for _, step := range steps {
		for currency, fee := range step.Fees {
			if existing, ok := totals[currency]; ok {
				sum, err := existing.Add(fee)
				if err == nil {
					totals[currency] = sum
				}
			} else {
				totals[currency] = fee
			}
		}
	}

	currencies := make([]string, 0, len(totals))
	for currency := range totals {
		currencies = append(currencies, string(currency))
	}
	sort.Strings(currencies)

	out := make([]money.Money, 0, len(currencies))
	for _, c := range currencies {
		currency := money.AssetCode(c)
		m := totals[currency]
		if m.IsZero() {
			continue
		}
		out = append(out, m)
	}
	return out
}

func isLinear(steps []ExecutionStep) bool {
	for i := 0; i+1 < len(steps); i++ {
		if steps[i].To != steps[i+1].From {
			return false
		}
	}
	return true
}

// residualTolerance computes max(0, 1 - |totalSpent-desiredSpend| /
// (desiredSpend * heuristicTolerance)) at canonical scale. A zero
// heuristic tolerance collapses to an exact-match check.
func residualTolerance(totalSpent, desiredSpend money.Money, heuristic money.Decimal) (money.Decimal, error) {
	scale := money.CanonicalScale
	diff := totalSpent.Amount.Sub(desiredSpend.Amount)
	if diff.IsNegative() {
		diff = diff.Neg()
	}

	if heuristic.IsZero() {
		if diff.IsZero() {
			return money.One(scale), nil
		}
		return money.Zero(scale), nil
	}

	denom := desiredSpend.Amount.Mul(heuristic)
	if denom.IsZero() {
		if diff.IsZero() {
			return money.One(scale), nil
		}
		return money.Zero(scale), nil
	}

	ratio, err := diff.Div(denom, scale)
	if err != nil {
		return money.Decimal{}, err
	}

	residual := money.One(scale).Sub(ratio)
	if residual.IsNegative() {
		return money.Zero(scale), nil
	}
	return residual, nil
}
