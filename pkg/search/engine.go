package search

import (
	"sort"

	"github.com/mExOms/convroute/pkg/graph"
	"github.com/mExOms/convroute/pkg/guards"
	"github.com/mExOms/convroute/pkg/money"
	"github.com/mExOms/convroute/pkg/portfolio"
)

// HopLimits bounds the number of edges a candidate plan — or any single
// augmenting path within it — may traverse.
type HopLimits struct {
	Min int
	Max int
}

// RawFill is one edge traversal the engine decided to execute: the edge,
// the amount spent (in edge.From units) and its 1-based sequence number in
// execution order. The materializer turns these into ExecutionSteps.
type RawFill struct {
	Edge     *graph.Edge
	Spent    money.Decimal
	Sequence int
}

// Candidate is a just-completed augmenting path offered to the caller's
// acceptance callback before it is executed against the portfolio.
type Candidate struct {
	Hops  int
	Fills []RawFill
}

// AcceptCandidate decides whether a just-found augmenting path should be
// executed. SearchService uses this to enforce hop-count constraints;
// tolerance feasibility can only be judged once against the complete,
// merged fill list, so it is checked after the outer loop exits instead.
type AcceptCandidate func(Candidate) bool

// Outcome is everything the engine produced: the raw fills (empty if no
// plan was found), the portfolio's final state, and the guard report.
type Outcome struct {
	Fills      []RawFill
	FinalState portfolio.State
	Guards     guards.Report
	Found      bool
}

// Engine runs successive-shortest-augmenting-paths search per spec §4.6.
type Engine struct{}

// NewEngine returns an Engine.
func NewEngine() Engine { return Engine{} }

// Search drives the outer augmenting-path loop: repeatedly find the
// cheapest path from any balance-holding currency to the target (or to
// another balance-holding currency, enabling merges), execute it against
// the portfolio, and repeat until the portfolio holds nothing but the
// target currency, no further augmenting path exists, or guards halt the
// search.
func (Engine) Search(g *graph.Graph, source, target money.AssetCode, spend money.Money, hopLimits HopLimits, grds *guards.Guards, accept AcceptCandidate) (Outcome, error) {
	state, err := portfolio.Initial(source, spend.Amount)
	if err != nil {
		return Outcome{}, err
	}

	var fills []RawFill
	seq := 1
	var insertionSeq int64

	for !state.IsExhausted(target) {
		result, breached, err := findCheapestPath(g, state, target, hopLimits, grds, accept, &insertionSeq)
		if err != nil {
			return Outcome{FinalState: state, Guards: grds.Snapshot()}, err
		}
		if breached {
			break
		}
		if result == nil {
			break
		}

		for _, step := range result {
			state, err = state.Spend(step.Edge.From, step.Spent)
			if err != nil {
				return Outcome{FinalState: state, Guards: grds.Snapshot()}, err
			}
			receivedMoney, err := step.Edge.Rate.Convert(spendMoney(step), money.CanonicalScale)
			if err != nil {
				return Outcome{FinalState: state, Guards: grds.Snapshot()}, err
			}
			state, err = state.Receive(step.Edge.To, receivedMoney.Amount)
			if err != nil {
				return Outcome{FinalState: state, Guards: grds.Snapshot()}, err
			}
			state, err = state.Consume(step.Edge.Order.ID)
			if err != nil {
				return Outcome{FinalState: state, Guards: grds.Snapshot()}, err
			}
			fills = append(fills, RawFill{Edge: step.Edge, Spent: step.Spent, Sequence: seq})
			seq++
		}
	}

	return Outcome{
		Fills:      fills,
		FinalState: state,
		Guards:     grds.Snapshot(),
		Found:      len(fills) > 0,
	}, nil
}

func spendMoney(f RawFill) money.Money {
	m, _ := money.NewMoney(f.Edge.From, f.Spent)
	return m
}

// findCheapestPath runs one Dijkstra-variant search over pathStates,
// seeded from every currency currently holding a positive balance, and
// returns the first accepted augmenting path. breached is true when a
// guard halted the search with no path decided either way.
func findCheapestPath(g *graph.Graph, state portfolio.State, target money.AssetCode, hopLimits HopLimits, grds *guards.Guards, accept AcceptCandidate, insertionSeq *int64) ([]RawFill, bool, error) {
	pq := newPriorityQueue()
	dom := newDominanceRegistry()

	origins := state.PositiveBalances()
	sort.Slice(origins, func(i, j int) bool { return origins[i] < origins[j] })

	for _, origin := range origins {
		balance := state.Balance(origin, money.CanonicalScale)
		zero, _ := money.NewMoney(origin, money.Zero(money.CanonicalScale))
		initRange, err := graph.NewCapacity(zero, balance)
		if err != nil {
			continue
		}
		s := &pathState{
			node:           origin,
			origin:         origin,
			cost:           money.Zero(money.CanonicalScale),
			hops:           0,
			rng:            initRange,
			visited:        map[money.AssetCode]struct{}{origin: {}},
			routeSignature: string(origin),
			insertion:      nextInsertion(insertionSeq),
		}
		if dom.insert(stateSignature(s.node, s.rng), s) {
			breached, err := grds.RecordUniqueState()
			if err != nil {
				return nil, false, err
			}
			if breached {
				return nil, true, nil
			}
			pq.push(s)
		}
	}

	for pq.Len() > 0 {
		breached, err := grds.RecordExpansion()
		if err != nil {
			return nil, false, err
		}
		if breached {
			return nil, true, nil
		}

		current := pq.pop()

		if current.hops > 0 && isSink(current, target, state) {
			fills, err := materializeRawFills(current)
			if err != nil {
				continue
			}
			candidate := Candidate{Hops: current.hops, Fills: fills}
			if current.hops >= hopLimits.Min && current.hops <= hopLimits.Max && accept(candidate) {
				return fills, false, nil
			}
			continue
		}

		if current.hops >= hopLimits.Max {
			continue
		}

		for _, edge := range g.Neighbors(current.node) {
			if _, ok := current.visited[edge.To]; ok {
				continue
			}
			if state.IsConsumed(edge.Order.ID) {
				continue
			}

			intersected, ok := edgeSupportsAmount(edge, current.rng)
			if !ok {
				continue
			}
			nextRange, err := calculateNextRange(edge, intersected)
			if err != nil {
				continue
			}
			cost, err := edgeCost(edge)
			if err != nil {
				continue
			}

			next := &pathState{
				node:           edge.To,
				origin:         current.origin,
				cost:           current.cost.Add(cost),
				hops:           current.hops + 1,
				edges:          append(current.cloneEdges(), edge),
				rng:            nextRange,
				visited:        current.cloneVisited(),
				routeSignature: routeSignatureAppend(current.routeSignature, edge.To),
				insertion:      nextInsertion(insertionSeq),
			}
			next.visited[edge.To] = struct{}{}

			sig := stateSignature(next.node, next.rng)
			if !dom.insert(sig, next) {
				continue
			}
			breached, err := grds.RecordUniqueState()
			if err != nil {
				return nil, false, err
			}
			if breached {
				return nil, true, nil
			}
			pq.push(next)
		}
	}

	return nil, false, nil
}

func isSink(s *pathState, target money.AssetCode, state portfolio.State) bool {
	if s.node == target {
		return true
	}
	if s.node == s.origin {
		return false
	}
	return !state.Balance(s.node, money.CanonicalScale).IsZero()
}

func nextInsertion(seq *int64) int64 {
	*seq++
	return *seq
}

// materializeRawFills converts a completed pathState into RawFills by
// walking the path backward from its final bottleneck, converting through
// each edge's inverse rate to recover the exact spend amount that edge
// must have carried.
func materializeRawFills(s *pathState) ([]RawFill, error) {
	n := len(s.edges)
	fills := make([]RawFill, n)

	amount := s.rng.Max.Amount
	for i := n - 1; i >= 0; i-- {
		edge := s.edges[i]
		spend, err := amount.Div(edge.Rate.Rate, money.CanonicalScale)
		if err != nil {
			return nil, err
		}
		fills[i] = RawFill{Edge: edge, Spent: spend}
		amount = spend
	}
	return fills, nil
}
