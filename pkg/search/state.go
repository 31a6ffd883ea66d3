// Package search implements SearchEngine: the successive-shortest
// augmenting-paths algorithm that walks a graph.Graph against a
// portfolio.State, bounded by guards.Guards, producing raw fills for the
// materializer.
package search

import (
	"strings"

	"github.com/mExOms/convroute/pkg/graph"
	"github.com/mExOms/convroute/pkg/money"
)

// pathState is one node of the per-path Dijkstra search: a partial route
// from some balance-holding origin currency, carrying the cost/hops/amount
// range accumulated so far.
type pathState struct {
	node    money.AssetCode
	origin  money.AssetCode
	cost    money.Decimal
	hops    int
	edges   []*graph.Edge
	rng     graph.Capacity
	visited map[money.AssetCode]struct{}

	routeSignature string
	insertion      int64
}

// routeSignatureAppend extends a route signature, the dot-joined sequence of
// currencies visited so far that the priority queue uses as a deterministic
// tie-breaker (spec's glossary "route signature"). It is not part of the
// dominance-registry key; see stateSignature.
func routeSignatureAppend(prefix string, next money.AssetCode) string {
	if prefix == "" {
		return string(next)
	}
	return prefix + "." + string(next)
}

// stateSignature is the dominance-registry key: (node, amount-range
// bucket). Amounts are rendered at the range's own scale rather than
// coarsened into approximate buckets.
func stateSignature(node money.AssetCode, rng graph.Capacity) string {
	var b strings.Builder
	b.WriteString(string(node))
	b.WriteByte(':')
	b.WriteString(rng.Min.Amount.String())
	b.WriteByte(':')
	b.WriteString(rng.Max.Amount.String())
	return b.String()
}

func (s *pathState) cloneVisited() map[money.AssetCode]struct{} {
	out := make(map[money.AssetCode]struct{}, len(s.visited)+1)
	for k := range s.visited {
		out[k] = struct{}{}
	}
	return out
}

func (s *pathState) cloneEdges() []*graph.Edge {
	out := make([]*graph.Edge, len(s.edges), len(s.edges)+1)
	copy(out, s.edges)
	return out
}
