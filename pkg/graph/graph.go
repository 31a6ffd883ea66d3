// Package graph translates an order book into the directed multigraph of
// capacity-bearing edges the search engine walks: GraphBuilder, Graph,
// Edge, EdgeSegment and the SegmentPruner greedy-fill ordering.
package graph

import (
	"sync"

	"github.com/mExOms/convroute/pkg/money"
	"github.com/mExOms/convroute/pkg/order"
	"github.com/mExOms/convroute/pkg/xerrors"
)

// Measure names which of an EdgeSegment's three capacity dimensions a
// caller wants totals or pruning for.
type Measure int

const (
	MeasureBase Measure = iota
	MeasureQuote
	MeasureGrossBase

	numMeasures = 3
)

// Capacity is an inclusive [Min,Max] interval of Money, Min <= Max.
type Capacity struct {
	Min money.Money
	Max money.Money
}

// NewCapacity validates and constructs a Capacity.
func NewCapacity(min, max money.Money) (Capacity, error) {
	if min.Currency != max.Currency {
		return Capacity{}, xerrors.NewInvalidInput("capacity", "min/max currency mismatch")
	}
	cmp, err := min.Compare(max)
	if err != nil {
		return Capacity{}, err
	}
	if cmp > 0 {
		return Capacity{}, xerrors.NewInvalidInput("capacity", "min must be <= max")
	}
	return Capacity{Min: min, Max: max}, nil
}

// EdgeSegment is one fillable slice of an edge's capacity. A mandatory
// segment must be filled entirely once the edge is touched; an optional
// segment contributes anywhere from zero up to its maximum.
type EdgeSegment struct {
	Mandatory bool
	Base      Capacity
	Quote     Capacity
	GrossBase Capacity
}

// CapacityFor returns the segment's capacity for the requested measure.
func (s EdgeSegment) CapacityFor(m Measure) Capacity {
	switch m {
	case MeasureQuote:
		return s.Quote
	case MeasureGrossBase:
		return s.GrossBase
	default:
		return s.Base
	}
}

// EdgeSegmentCollection is the ordered set of segments composing one edge's
// capacity.
type EdgeSegmentCollection struct {
	Segments []EdgeSegment
}

// Totals is the aggregate {mandatory, maximum, optionalHeadroom} for a
// given measure across every segment in the collection.
type Totals struct {
	Mandatory        money.Money
	Maximum          money.Money
	OptionalHeadroom money.Money
}

// TotalsFor computes Totals for the given measure. currency/scale are used
// to seed the zero accumulator when the collection is empty.
func (c EdgeSegmentCollection) TotalsFor(m Measure, currency money.AssetCode, scale int32) (Totals, error) {
	mandatory := money.ZeroCache(currency, scale)
	maximum := money.ZeroCache(currency, scale)

	for _, seg := range c.Segments {
		cap := seg.CapacityFor(m)
		if seg.Mandatory {
			var err error
			mandatory, err = mandatory.Add(cap.Max)
			if err != nil {
				return Totals{}, err
			}
			maximum, err = maximum.Add(cap.Max)
			if err != nil {
				return Totals{}, err
			}
		} else {
			var err error
			maximum, err = maximum.Add(cap.Max)
			if err != nil {
				return Totals{}, err
			}
		}
	}

	headroom, err := maximum.Sub(mandatory)
	if err != nil {
		return Totals{}, err
	}
	return Totals{Mandatory: mandatory, Maximum: maximum, OptionalHeadroom: headroom}, nil
}

// Edge models the flow from -> to obtainable from one Order: for a BUY
// order the edge is quote -> base, for a SELL order base -> quote. Rate is
// the effective spend->receive conversion factor at canonical scale.
type Edge struct {
	Order    order.Order
	From     money.AssetCode
	To       money.AssetCode
	Rate     money.ExchangeRate
	Segments EdgeSegmentCollection

	prunedOnce  [numMeasures]sync.Once
	prunedCache [numMeasures][]EdgeSegment
}

// PrunedSegments returns this edge's segments in pruner's greedy-fill
// order for measure, computing and memoizing the result on first call.
// Graph.Warmup pre-populates this cache; callers that skip Warmup still
// get a correct (just not pre-sorted) result on first touch.
func (e *Edge) PrunedSegments(pruner SegmentPruner, measure Measure) []EdgeSegment {
	idx := int(measure)
	e.prunedOnce[idx].Do(func() {
		e.prunedCache[idx] = pruner.Order(e.Segments.Segments, measure)
	})
	return e.prunedCache[idx]
}

// FromMeasure is the segment measure denominating capacity in this edge's
// From currency: grossBase when the traveller spends Base (a SELL edge —
// the fee-inclusive amount actually required), quote when the traveller
// spends Quote (a BUY edge — the fee-net quote outlay this edge accepts).
func (e *Edge) FromMeasure() Measure {
	if e.From == e.Order.Pair.Base {
		return MeasureGrossBase
	}
	return MeasureQuote
}

// ToMeasure is the segment measure denominating capacity in this edge's To
// currency, the counterpart of FromMeasure.
func (e *Edge) ToMeasure() Measure {
	if e.To == e.Order.Pair.Base {
		return MeasureBase
	}
	return MeasureQuote
}

// Graph is an immutable directed multigraph over asset nodes, adjacency
// indexed by the spend ("from") currency, preserving the insertion order of
// the orders it was built from.
type Graph struct {
	adjacency map[money.AssetCode][]*Edge
	nodes     []money.AssetCode
	edges     []*Edge
}

// Neighbors returns the edges whose From currency is cur, in insertion
// order. The returned slice must not be mutated by callers.
func (g *Graph) Neighbors(cur money.AssetCode) []*Edge {
	return g.adjacency[cur]
}

// Nodes returns every asset that appears as an edge endpoint, in first-seen
// order.
func (g *Graph) Nodes() []money.AssetCode {
	return g.nodes
}

// Edges returns every edge in the graph, in insertion order.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// HasNode reports whether currency appears anywhere in the graph.
func (g *Graph) HasNode(currency money.AssetCode) bool {
	for _, n := range g.nodes {
		if n == currency {
			return true
		}
	}
	return false
}
