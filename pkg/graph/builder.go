package graph

import (
	"github.com/hashicorp/go-multierror"

	"github.com/mExOms/convroute/pkg/feepolicy"
	"github.com/mExOms/convroute/pkg/money"
	"github.com/mExOms/convroute/pkg/order"
	"github.com/mExOms/convroute/pkg/xerrors"
)

// GraphBuilder turns an order.OrderBook into a Graph per spec §4.3: each
// order contributes exactly one directed Edge (Quote->Base for BUY,
// Base->Quote for SELL), and its Bounds/FeePolicy are resolved into an
// EdgeSegmentCollection.
type GraphBuilder struct {
	// QuoteScale is the working scale used when converting base amounts to
	// quote amounts for fee evaluation. Defaults to money.CanonicalScale.
	QuoteScale int32
}

// NewGraphBuilder returns a GraphBuilder using the canonical scale.
func NewGraphBuilder() GraphBuilder {
	return GraphBuilder{QuoteScale: money.CanonicalScale}
}

// Build constructs a Graph from book, one edge per order. Every order is
// attempted regardless of earlier failures; if any order is malformed,
// Build returns a combined *multierror.Error naming every bad order
// instead of stopping at the first one.
func (b GraphBuilder) Build(book order.OrderBook) (*Graph, error) {
	quoteScale := b.QuoteScale
	if quoteScale == 0 {
		quoteScale = money.CanonicalScale
	}

	g := &Graph{adjacency: make(map[money.AssetCode][]*Edge)}

	var result *multierror.Error
	for _, o := range book.Orders {
		edge, err := b.buildEdge(o, quoteScale)
		if err != nil {
			result = multierror.Append(result, xerrors.NewInvalidInput("order:"+o.ID, err.Error()))
			continue
		}
		g.edges = append(g.edges, edge)
		g.adjacency[edge.From] = append(g.adjacency[edge.From], edge)
		g.addNode(edge.From)
		g.addNode(edge.To)
	}

	if result != nil {
		return nil, result.ErrorOrNil()
	}
	return g, nil
}

func (g *Graph) addNode(c money.AssetCode) {
	for _, n := range g.nodes {
		if n == c {
			return
		}
	}
	g.nodes = append(g.nodes, c)
}

func (b GraphBuilder) buildEdge(o order.Order, quoteScale int32) (*Edge, error) {
	// A BUY edge inverts the order's rate at that rate's own scale, so the
	// rate is lifted to CanonicalScale first to keep the reciprocal's digits.
	rated := o
	if o.EffectiveRate.Rate.Scale() < money.CanonicalScale {
		canonical, err := o.EffectiveRate.Rate.ToScale(money.CanonicalScale, money.HalfAwayFromZero)
		if err != nil {
			return nil, err
		}
		rated.EffectiveRate.Rate = canonical
	}
	dirRate, err := rated.DirectionalRate()
	if err != nil {
		return nil, err
	}

	segments, err := b.buildSegments(o, quoteScale)
	if err != nil {
		return nil, err
	}

	return &Edge{
		Order:    o,
		From:     o.Spend(),
		To:       o.Receive(),
		Rate:     dirRate,
		Segments: EdgeSegmentCollection{Segments: segments},
	}, nil
}

// buildSegments resolves o.Bounds and o.EffectivePolicy() into one or two
// EdgeSegments per spec §4.3:
//
//   - If the fee policy yields zero fees at both the order's minimum and
//     maximum, the whole range collapses into a single optional segment
//     [0,max].
//   - Otherwise, when min > 0, the order splits into a mandatory segment
//     pinned at exactly min (an order cannot be partially filled below its
//     minimum) and an optional segment covering the remaining headroom
//     [0, max-min].
//
// Each segment's quote and grossBase capacities are derived by evaluating
// the fee policy at the segment's own base endpoints.
func (b GraphBuilder) buildSegments(o order.Order, quoteScale int32) ([]EdgeSegment, error) {
	base := o.Pair.Base
	minAmt := o.Bounds.Min.Amount
	maxAmt := o.Bounds.Max.Amount
	policy := o.EffectivePolicy()

	feeAtMin, err := evaluateFee(o, policy, base, minAmt, quoteScale)
	if err != nil {
		return nil, err
	}
	feeAtMax, err := evaluateFee(o, policy, base, maxAmt, quoteScale)
	if err != nil {
		return nil, err
	}

	if feeAtMin.IsZero() && feeAtMax.IsZero() {
		seg, err := b.buildSegment(o, false, base, money.Zero(minAmt.Scale()), maxAmt, quoteScale)
		if err != nil {
			return nil, err
		}
		return []EdgeSegment{seg}, nil
	}

	if minAmt.IsZero() {
		seg, err := b.buildSegment(o, false, base, money.Zero(minAmt.Scale()), maxAmt, quoteScale)
		if err != nil {
			return nil, err
		}
		return []EdgeSegment{seg}, nil
	}

	mandatory, err := b.buildSegment(o, true, base, minAmt, minAmt, quoteScale)
	if err != nil {
		return nil, err
	}

	headroom := maxAmt.Sub(minAmt)
	if headroom.IsZero() {
		return []EdgeSegment{mandatory}, nil
	}

	optional, err := b.buildSegment(o, false, base, money.Zero(minAmt.Scale()), headroom, quoteScale)
	if err != nil {
		return nil, err
	}
	return []EdgeSegment{mandatory, optional}, nil
}

func evaluateFee(o order.Order, policy feepolicy.FeePolicy, base money.AssetCode, baseAmt money.Decimal, quoteScale int32) (feepolicy.FeeBreakdown, error) {
	baseMoney, err := money.NewMoney(base, baseAmt)
	if err != nil {
		return feepolicy.FeeBreakdown{}, err
	}
	quoteMoney, err := o.EffectiveRate.Convert(baseMoney, quoteScale)
	if err != nil {
		return feepolicy.FeeBreakdown{}, err
	}
	return policy.Compute(o.Side, baseMoney, quoteMoney)
}

// buildSegment evaluates the fee policy at lo and hi (in Base units, either
// global order levels or local segment-relative amounts depending on the
// caller) and derives the Base/Quote/GrossBase capacities for one segment.
func (b GraphBuilder) buildSegment(o order.Order, mandatory bool, base money.AssetCode, lo, hi money.Decimal, quoteScale int32) (EdgeSegment, error) {
	loMoney, err := money.NewMoney(base, lo)
	if err != nil {
		return EdgeSegment{}, err
	}
	hiMoney, err := money.NewMoney(base, hi)
	if err != nil {
		return EdgeSegment{}, err
	}

	quoteLo, err := o.EffectiveRate.Convert(loMoney, quoteScale)
	if err != nil {
		return EdgeSegment{}, err
	}
	quoteHi, err := o.EffectiveRate.Convert(hiMoney, quoteScale)
	if err != nil {
		return EdgeSegment{}, err
	}

	policy := o.EffectivePolicy()
	feeLo, err := policy.Compute(o.Side, loMoney, quoteLo)
	if err != nil {
		return EdgeSegment{}, err
	}
	feeHi, err := policy.Compute(o.Side, hiMoney, quoteHi)
	if err != nil {
		return EdgeSegment{}, err
	}

	grossLo, err := applyBaseFee(loMoney, feeLo)
	if err != nil {
		return EdgeSegment{}, err
	}
	grossHi, err := applyBaseFee(hiMoney, feeHi)
	if err != nil {
		return EdgeSegment{}, err
	}

	netQuoteLo, err := subtractQuoteFee(quoteLo, feeLo)
	if err != nil {
		return EdgeSegment{}, err
	}
	netQuoteHi, err := subtractQuoteFee(quoteHi, feeHi)
	if err != nil {
		return EdgeSegment{}, err
	}

	baseCap, err := NewCapacity(loMoney, hiMoney)
	if err != nil {
		return EdgeSegment{}, err
	}
	quoteCap, err := NewCapacity(netQuoteLo, netQuoteHi)
	if err != nil {
		return EdgeSegment{}, err
	}
	grossCap, err := NewCapacity(grossLo, grossHi)
	if err != nil {
		return EdgeSegment{}, err
	}

	return EdgeSegment{
		Mandatory: mandatory,
		Base:      baseCap,
		Quote:     quoteCap,
		GrossBase: grossCap,
	}, nil
}

func applyBaseFee(base money.Money, fee feepolicy.FeeBreakdown) (money.Money, error) {
	if fee.BaseFee == nil {
		return base, nil
	}
	return base.Add(*fee.BaseFee)
}

func subtractQuoteFee(quote money.Money, fee feepolicy.FeeBreakdown) (money.Money, error) {
	if fee.QuoteFee == nil {
		return quote, nil
	}
	net, err := quote.Sub(*fee.QuoteFee)
	if err != nil {
		return money.Money{}, err
	}
	if net.Amount.IsNegative() {
		return money.Money{}, xerrors.NewInvalidInput("fee", "quote fee exceeds quote amount")
	}
	return net, nil
}
