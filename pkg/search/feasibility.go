package search

import (
	"github.com/mExOms/convroute/pkg/graph"
	"github.com/mExOms/convroute/pkg/money"
	"github.com/mExOms/convroute/pkg/xerrors"
)

// edgeSupportsAmount intersects rng (denominated in edge.From) with the
// edge's From-side capacity. Reports false when the intersection is empty,
// or when rng is exactly zero and zero doesn't lie within the edge's
// capacity.
func edgeSupportsAmount(edge *graph.Edge, rng graph.Capacity) (graph.Capacity, bool) {
	edgeCap := sumCapacity(edge, edge.FromMeasure())

	lo := rng.Min
	if cmp := edgeCap.Min.Amount.Compare(lo.Amount); cmp > 0 {
		lo = edgeCap.Min
	}
	hi := rng.Max
	if cmp := edgeCap.Max.Amount.Compare(hi.Amount); cmp < 0 {
		hi = edgeCap.Max
	}

	if lo.Amount.Compare(hi.Amount) > 0 {
		return graph.Capacity{}, false
	}
	if rng.Max.IsZero() && !edgeCap.Min.IsZero() {
		return graph.Capacity{}, false
	}
	return graph.Capacity{Min: lo, Max: hi}, true
}

var segmentPruner = graph.NewSegmentPruner()

// sumCapacity returns the aggregate [min,max] capacity across every
// segment of edge for the requested measure, mandatory segments
// contributing their fixed amount and optional segments contributing their
// headroom on top. Segments are walked in the edge's memoized greedy-fill
// order (graph.Edge.PrunedSegments) — the sum itself is order-independent,
// but this keeps the traversal order consistent with what a future
// per-segment fill assignment would see.
func sumCapacity(edge *graph.Edge, measure graph.Measure) graph.Capacity {
	currency := edge.From
	scale := money.CanonicalScale

	totalMin := money.ZeroCache(currency, scale)
	totalMax := money.ZeroCache(currency, scale)

	for _, seg := range edge.PrunedSegments(segmentPruner, measure) {
		c := seg.CapacityFor(measure)
		if seg.Mandatory {
			totalMin, _ = totalMin.Add(c.Min)
		}
		totalMax, _ = totalMax.Add(c.Max)
	}

	return graph.Capacity{Min: totalMin, Max: totalMax}
}

// calculateNextRange converts the intersected From-side range into the
// To-side range via the edge's effective conversion rate at canonical
// scale.
func calculateNextRange(edge *graph.Edge, rng graph.Capacity) (graph.Capacity, error) {
	fromCurrency := edge.From
	if rng.Min.Currency != fromCurrency || rng.Max.Currency != fromCurrency {
		return graph.Capacity{}, xerrors.NewInvalidInput("range", "range currency must match edge from currency")
	}

	minMoney, err := money.NewMoney(fromCurrency, rng.Min.Amount)
	if err != nil {
		return graph.Capacity{}, err
	}
	maxMoney, err := money.NewMoney(fromCurrency, rng.Max.Amount)
	if err != nil {
		return graph.Capacity{}, err
	}

	convertedMin := minMoney.Amount.Mul(edge.Rate.Rate)
	convertedMax := maxMoney.Amount.Mul(edge.Rate.Rate)

	lo, err := money.NewMoney(edge.To, convertedMin)
	if err != nil {
		return graph.Capacity{}, err
	}
	hi, err := money.NewMoney(edge.To, convertedMax)
	if err != nil {
		return graph.Capacity{}, err
	}
	return graph.NewCapacity(lo, hi)
}

// edgeCost is -ln(rate) at canonical scale: the per-edge contribution to
// the path's accumulated cost. A cheaper path (more received per unit
// spent) has a lower accumulated cost.
func edgeCost(edge *graph.Edge) (money.Decimal, error) {
	lnRate, err := money.Ln(edge.Rate.Rate, money.CanonicalScale)
	if err != nil {
		return money.Decimal{}, err
	}
	return lnRate.Neg(), nil
}
