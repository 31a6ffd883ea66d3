// Package api exposes searchservice.Service over HTTP, the gin-based external
// adapter spec §1 calls out as a collaborator: POST /v1/plan accepts a
// SearchRequest JSON body and returns a SearchOutcome; GET /healthz reports
// liveness the same way cmd/rest-server's healthCheck does.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mExOms/convroute/internal/events"
	"github.com/mExOms/convroute/pkg/feepolicy"
	"github.com/mExOms/convroute/pkg/guards"
	"github.com/mExOms/convroute/pkg/money"
	"github.com/mExOms/convroute/pkg/order"
	"github.com/mExOms/convroute/pkg/search"
	"github.com/mExOms/convroute/pkg/searchservice"
)

// Server wires a searchservice.Service (and, optionally, an outcome
// publisher) behind a gin.Engine.
type Server struct {
	service   searchservice.Service
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewServer constructs a Server. publisher may be nil when outcome
// publishing is disabled.
func NewServer(service searchservice.Service, publisher *events.Publisher) *Server {
	return &Server{
		service:   service,
		publisher: publisher,
		logger:    logrus.WithField("component", "api_server"),
	}
}

// Router builds the gin.Engine exposing this Server's routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", s.healthz)
	v1 := r.Group("/v1")
	v1.POST("/plan", s.plan)
	return r
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PlanRequestBody is the wire request for POST /v1/plan.
type PlanRequestBody struct {
	RequestID   string       `json:"requestId,omitempty"`
	TargetAsset string       `json:"targetAsset" binding:"required"`
	Spend       MoneyDTO     `json:"spend" binding:"required"`
	Tolerance   ToleranceDTO `json:"tolerance" binding:"required"`
	HopLimits   HopLimitsDTO `json:"hopLimits" binding:"required"`
	Guards      *GuardsDTO   `json:"guards,omitempty"`
	Orders      []OrderDTO   `json:"orders" binding:"required"`
}

// MoneyDTO is the wire representation of a money.Money value.
type MoneyDTO struct {
	Currency string `json:"currency" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
}

// ToleranceDTO is the wire representation of a money.ToleranceWindow.
type ToleranceDTO struct {
	Min string `json:"min" binding:"required"`
	Max string `json:"max" binding:"required"`
}

// HopLimitsDTO is the wire representation of search.HopLimits.
type HopLimitsDTO struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// GuardsDTO overrides the default guard budgets for a single request.
type GuardsDTO struct {
	MaxExpansions     int64 `json:"maxExpansions"`
	MaxVisitedStates  int64 `json:"maxVisitedStates"`
	TimeBudgetMs      int64 `json:"timeBudgetMs"`
	ThrowOnGuardLimit bool  `json:"throwOnGuardLimit"`
}

// FeePolicyDTO describes one order's fee policy by kind.
type FeePolicyDTO struct {
	Kind      string    `json:"kind"` // "none", "percentageOfQuote", "percentageOfBase", "bothSides", "tiered"
	Rate      string    `json:"rate,omitempty"`
	BaseRate  string    `json:"baseRate,omitempty"`
	QuoteRate string    `json:"quoteRate,omitempty"`
	Tiers     []TierDTO `json:"tiers,omitempty"`
}

// TierDTO is one threshold/rate pair of a tiered fee schedule.
type TierDTO struct {
	Threshold string `json:"threshold"`
	Rate      string `json:"rate"`
}

// OrderDTO is the wire representation of one order.Order.
type OrderDTO struct {
	ID        string        `json:"id" binding:"required"`
	Side      string        `json:"side" binding:"required"`
	Base      string        `json:"base" binding:"required"`
	Quote     string        `json:"quote" binding:"required"`
	Rate      string        `json:"rate" binding:"required"`
	MinBase   string        `json:"minBase" binding:"required"`
	MaxBase   string        `json:"maxBase" binding:"required"`
	FeePolicy *FeePolicyDTO `json:"feePolicy,omitempty"`
}

func (s *Server) plan(c *gin.Context) {
	var body PlanRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, guardLimits, throwOnGuardLimit, err := ToSearchRequest(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Config.SearchGuards = guardLimits
	req.Config.ThrowOnGuardLimit = throwOnGuardLimit

	outcome, err := s.service.Search(req)
	if err != nil {
		s.logger.WithError(err).Warn("search failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if s.publisher != nil {
		if pubErr := s.publisher.Publish(outcome); pubErr != nil {
			s.logger.WithError(pubErr).Warn("failed to publish outcome event")
		}
	}

	c.JSON(http.StatusOK, events.ToOutcomeEvent(outcome))
}

// ToSearchRequest converts a decoded PlanRequestBody into a
// searchservice.Request plus the guard configuration to apply, so
// cmd/planner can reuse the same JSON shape as POST /v1/plan.
func ToSearchRequest(body PlanRequestBody) (searchservice.Request, guards.Limits, bool, error) {
	requestID := body.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	target, err := money.NewAssetCode(body.TargetAsset)
	if err != nil {
		return searchservice.Request{}, guards.Limits{}, false, err
	}

	spend, err := toMoney(body.Spend)
	if err != nil {
		return searchservice.Request{}, guards.Limits{}, false, err
	}

	min, err := money.NewFromString(body.Tolerance.Min, money.CanonicalScale)
	if err != nil {
		return searchservice.Request{}, guards.Limits{}, false, err
	}
	max, err := money.NewFromString(body.Tolerance.Max, money.CanonicalScale)
	if err != nil {
		return searchservice.Request{}, guards.Limits{}, false, err
	}
	tolerance, err := money.NewToleranceWindow(min, max)
	if err != nil {
		return searchservice.Request{}, guards.Limits{}, false, err
	}

	orders := make([]order.Order, 0, len(body.Orders))
	for _, dto := range body.Orders {
		o, err := toOrder(dto)
		if err != nil {
			return searchservice.Request{}, guards.Limits{}, false, err
		}
		orders = append(orders, o)
	}

	guardLimits := guards.Limits{
		MaxExpansions:    250000,
		MaxVisitedStates: 250000,
		TimeBudgetMs:     guards.NoBudget,
	}
	throwOnGuardLimit := false
	if body.Guards != nil {
		guardLimits = guards.Limits{
			MaxExpansions:    body.Guards.MaxExpansions,
			MaxVisitedStates: body.Guards.MaxVisitedStates,
			TimeBudgetMs:     body.Guards.TimeBudgetMs,
		}
		throwOnGuardLimit = body.Guards.ThrowOnGuardLimit
	}

	return searchservice.Request{
		RequestID:   requestID,
		TargetAsset: target,
		OrderBook:   order.NewOrderBook(orders),
		Config: searchservice.Config{
			Spend:           spend,
			ToleranceBounds: tolerance,
			HopLimits:       search.HopLimits{Min: body.HopLimits.Min, Max: body.HopLimits.Max},
		},
	}, guardLimits, throwOnGuardLimit, nil
}

func toMoney(dto MoneyDTO) (money.Money, error) {
	currency, err := money.NewAssetCode(dto.Currency)
	if err != nil {
		return money.Money{}, err
	}
	amount, err := money.NewFromString(dto.Amount, money.CanonicalScale)
	if err != nil {
		return money.Money{}, err
	}
	return money.NewMoney(currency, amount)
}

func toOrder(dto OrderDTO) (order.Order, error) {
	base, err := money.NewAssetCode(dto.Base)
	if err != nil {
		return order.Order{}, err
	}
	quote, err := money.NewAssetCode(dto.Quote)
	if err != nil {
		return order.Order{}, err
	}
	rate, err := money.NewFromString(dto.Rate, money.CanonicalScale)
	if err != nil {
		return order.Order{}, err
	}
	exchangeRate, err := money.NewExchangeRate(base, quote, rate)
	if err != nil {
		return order.Order{}, err
	}
	minBase, err := money.NewFromString(dto.MinBase, money.CanonicalScale)
	if err != nil {
		return order.Order{}, err
	}
	maxBase, err := money.NewFromString(dto.MaxBase, money.CanonicalScale)
	if err != nil {
		return order.Order{}, err
	}
	minMoney, err := money.NewMoney(base, minBase)
	if err != nil {
		return order.Order{}, err
	}
	maxMoney, err := money.NewMoney(base, maxBase)
	if err != nil {
		return order.Order{}, err
	}
	bounds, err := money.NewOrderBounds(minMoney, maxMoney)
	if err != nil {
		return order.Order{}, err
	}

	policy, err := toFeePolicy(dto.FeePolicy)
	if err != nil {
		return order.Order{}, err
	}

	return order.NewOrder(dto.ID, feepolicy.Side(dto.Side), order.Pair{Base: base, Quote: quote}, bounds, exchangeRate, policy)
}

func toFeePolicy(dto *FeePolicyDTO) (feepolicy.FeePolicy, error) {
	if dto == nil || dto.Kind == "" || dto.Kind == "none" {
		return feepolicy.None{}, nil
	}

	switch dto.Kind {
	case "percentageOfQuote":
		rate, err := money.NewFromString(dto.Rate, money.CanonicalScale)
		if err != nil {
			return nil, err
		}
		return feepolicy.PercentageOfQuote{Rate: rate}, nil
	case "percentageOfBase":
		rate, err := money.NewFromString(dto.Rate, money.CanonicalScale)
		if err != nil {
			return nil, err
		}
		return feepolicy.PercentageOfBase{Rate: rate}, nil
	case "bothSides":
		baseRate, err := money.NewFromString(dto.BaseRate, money.CanonicalScale)
		if err != nil {
			return nil, err
		}
		quoteRate, err := money.NewFromString(dto.QuoteRate, money.CanonicalScale)
		if err != nil {
			return nil, err
		}
		return feepolicy.BothSides{BaseRate: baseRate, QuoteRate: quoteRate}, nil
	case "tiered":
		tiers := make([]feepolicy.Tier, 0, len(dto.Tiers))
		for _, t := range dto.Tiers {
			threshold, err := money.NewFromString(t.Threshold, money.CanonicalScale)
			if err != nil {
				return nil, err
			}
			rate, err := money.NewFromString(t.Rate, money.CanonicalScale)
			if err != nil {
				return nil, err
			}
			tiers = append(tiers, feepolicy.Tier{Threshold: threshold, Rate: rate})
		}
		return feepolicy.Tiered{Tiers: tiers}, nil
	default:
		return feepolicy.None{}, nil
	}
}
