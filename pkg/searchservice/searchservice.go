// Package searchservice is the orchestration facade spec §4.9 calls out:
// SearchRequest in, SearchOutcome out, wiring together the graph builder,
// guards, search engine and materializer.
package searchservice

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mExOms/convroute/pkg/graph"
	"github.com/mExOms/convroute/pkg/guards"
	"github.com/mExOms/convroute/pkg/logging"
	"github.com/mExOms/convroute/pkg/materialize"
	"github.com/mExOms/convroute/pkg/money"
	"github.com/mExOms/convroute/pkg/order"
	"github.com/mExOms/convroute/pkg/search"
)

// Config carries every tunable of a single search invocation besides the
// order book and target asset themselves.
type Config struct {
	Spend             money.Money
	ToleranceBounds   money.ToleranceWindow
	HopLimits         search.HopLimits
	SearchGuards      guards.Limits
	ThrowOnGuardLimit bool
}

// Request is the input to SearchService.Search: the order book, the
// config above, and the target asset (normalized by the service itself).
type Request struct {
	RequestID   string
	TargetAsset money.AssetCode
	OrderBook   order.OrderBook
	Config      Config
}

// Outcome is the SearchService's result: the plan (nil when no feasible
// plan was found) and the guard report that accompanied the search.
type Outcome struct {
	Plan        *materialize.ExecutionPlan
	GuardReport guards.Report
}

// OrderFilter is an external collaborator narrowing the order book before
// the graph is built — e.g. excluding stale quotes or counterparties the
// caller doesn't want to route through.
type OrderFilter func(order.Order) bool

// Service is the search orchestration facade.
type Service struct {
	builder      graph.GraphBuilder
	engine       search.Engine
	materializer materialize.Materializer
	logger       *logrus.Entry
}

// NewService constructs a Service with a default-scale GraphBuilder.
func NewService() Service {
	return Service{
		builder:      graph.NewGraphBuilder(),
		engine:       search.NewEngine(),
		materializer: materialize.NewMaterializer(),
		logger:       logging.New("search_service"),
	}
}

// Search runs the full orchestration contract described in spec §4.9.
func (s Service) Search(req Request, filters ...OrderFilter) (Outcome, error) {
	target, err := money.NewAssetCode(string(req.TargetAsset))
	if err != nil {
		return Outcome{}, err
	}

	book := req.OrderBook
	for _, filter := range filters {
		book = book.Filter(filter)
	}

	source := req.Config.Spend.Currency

	if len(book.Orders) == 0 {
		return Outcome{GuardReport: guards.Idle(req.Config.SearchGuards)}, nil
	}

	g, err := s.builder.Build(book)
	if err != nil {
		return Outcome{}, err
	}

	if !g.HasNode(source) || !g.HasNode(target) {
		return Outcome{GuardReport: guards.Idle(req.Config.SearchGuards)}, nil
	}

	if err := g.Warmup(context.Background()); err != nil {
		return Outcome{}, err
	}

	grds := guards.New(req.Config.SearchGuards, req.Config.ThrowOnGuardLimit)

	// accept only screens the hop count of a just-found augmenting path;
	// tolerance feasibility can only be judged against the *complete*
	// fill list once the outer loop has finished merging every branch
	// (spec §4.6 step 3), so materialization happens once below instead
	// of per candidate.
	accept := func(candidate search.Candidate) bool {
		return candidate.Hops >= req.Config.HopLimits.Min && candidate.Hops <= req.Config.HopLimits.Max
	}

	outcome, err := s.engine.Search(g, source, target, req.Config.Spend, req.Config.HopLimits, grds, accept)
	if err != nil {
		logging.GuardReport(s.logger, grds.Snapshot())
		return Outcome{GuardReport: grds.Snapshot()}, err
	}

	logging.GuardReport(s.logger, outcome.Guards)

	if !outcome.Found {
		return Outcome{GuardReport: outcome.Guards}, nil
	}

	plan, ok, err := s.materializer.Materialize(source, target, req.Config.Spend, req.Config.ToleranceBounds, outcome.Fills)
	if err != nil {
		return Outcome{GuardReport: outcome.Guards}, err
	}
	if !ok {
		return Outcome{GuardReport: outcome.Guards}, nil
	}

	plan.PlanID = req.RequestID
	return Outcome{Plan: &plan, GuardReport: outcome.Guards}, nil
}
