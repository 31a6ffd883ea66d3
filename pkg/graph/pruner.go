package graph

import "sort"

// SegmentPruner reorders an edge's segments into the deterministic
// greedy-fill order the search engine consumes them in per spec §4.4:
// mandatory segments first (insertion order preserved among themselves),
// then optional segments with zero Max (in the chosen measure) dropped and
// the remainder sorted by descending Max, ties broken by descending Min,
// ties broken by original insertion order.
type SegmentPruner struct{}

// NewSegmentPruner returns a SegmentPruner.
func NewSegmentPruner() SegmentPruner {
	return SegmentPruner{}
}

type indexedSegment struct {
	segment EdgeSegment
	index   int
}

// Order returns segments reordered for greedy fill under the given measure,
// without mutating the input slice.
func (SegmentPruner) Order(segments []EdgeSegment, measure Measure) []EdgeSegment {
	mandatory := make([]indexedSegment, 0, len(segments))
	optional := make([]indexedSegment, 0, len(segments))

	for i, seg := range segments {
		if seg.Mandatory {
			mandatory = append(mandatory, indexedSegment{seg, i})
			continue
		}
		if seg.CapacityFor(measure).Max.IsZero() {
			continue
		}
		optional = append(optional, indexedSegment{seg, i})
	}

	sort.SliceStable(mandatory, func(i, j int) bool {
		return mandatory[i].index < mandatory[j].index
	})

	sort.SliceStable(optional, func(i, j int) bool {
		a, b := optional[i].segment.CapacityFor(measure), optional[j].segment.CapacityFor(measure)
		if cmp := a.Max.Amount.Compare(b.Max.Amount); cmp != 0 {
			return cmp > 0
		}
		if cmp := a.Min.Amount.Compare(b.Min.Amount); cmp != 0 {
			return cmp > 0
		}
		return optional[i].index < optional[j].index
	})

	out := make([]EdgeSegment, 0, len(mandatory)+len(optional))
	for _, s := range mandatory {
		out = append(out, s.segment)
	}
	for _, s := range optional {
		out = append(out, s.segment)
	}
	return out
}
