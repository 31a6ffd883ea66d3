package graph

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Warmup pre-computes and memoizes every edge's greedy-fill segment order
// (spec §4.4) across all three capacity measures, one goroutine per
// edge/measure pair, so the search engine's per-expansion lookups
// (Edge.PrunedSegments) hit an already-sorted cache instead of paying the
// sort cost on a hot path. Intended for order books large enough that the
// warmup's own concurrency pays for itself; safe to skip for small books
// since PrunedSegments computes lazily and correctly either way.
func (g *Graph) Warmup(ctx context.Context) error {
	pruner := NewSegmentPruner()
	measures := [numMeasures]Measure{MeasureBase, MeasureQuote, MeasureGrossBase}

	eg, _ := errgroup.WithContext(ctx)
	for _, edge := range g.edges {
		edge := edge
		for _, measure := range measures {
			measure := measure
			eg.Go(func() error {
				edge.PrunedSegments(pruner, measure)
				return nil
			})
		}
	}
	return eg.Wait()
}
