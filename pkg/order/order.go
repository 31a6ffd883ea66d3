// Package order holds the domain records describing one-sided offers in a
// peer-to-peer order book: Order and OrderBook.
package order

import (
	"github.com/mExOms/convroute/pkg/feepolicy"
	"github.com/mExOms/convroute/pkg/money"
	"github.com/mExOms/convroute/pkg/xerrors"
)

// Pair names the two assets an Order trades between.
type Pair struct {
	Base  money.AssetCode
	Quote money.AssetCode
}

// Order is a one-sided offer to exchange Base for Quote (or vice versa,
// per Side), bounded by Bounds (denominated in Base) at EffectiveRate, with
// an optional FeePolicy.
type Order struct {
	// ID uniquely identifies this order for single-use tracking in
	// PortfolioState.consume; it need not be globally unique outside a
	// single search invocation.
	ID            string
	Side          feepolicy.Side
	Pair          Pair
	Bounds        money.OrderBounds
	EffectiveRate money.ExchangeRate
	FeePolicy     feepolicy.FeePolicy
}

// NewOrder validates and constructs an Order per spec §3: bounds are
// denominated in Base, rate currencies match Pair.
func NewOrder(id string, side feepolicy.Side, pair Pair, bounds money.OrderBounds, rate money.ExchangeRate, policy feepolicy.FeePolicy) (Order, error) {
	if id == "" {
		return Order{}, xerrors.NewInvalidInput("id", "order id must not be empty")
	}
	if side != feepolicy.Buy && side != feepolicy.Sell {
		return Order{}, xerrors.NewInvalidInput("side", "side must be BUY or SELL")
	}
	if pair.Base == pair.Quote {
		return Order{}, xerrors.NewInvalidInput("pair", "base and quote must differ")
	}
	if bounds.Min.Currency != pair.Base {
		return Order{}, xerrors.NewInvalidInput("bounds", "bounds must be denominated in base")
	}
	if rate.Base != pair.Base || rate.Quote != pair.Quote {
		return Order{}, xerrors.NewInvalidInput("rate", "rate currencies must match pair")
	}
	return Order{
		ID:            id,
		Side:          side,
		Pair:          pair,
		Bounds:        bounds,
		EffectiveRate: rate,
		FeePolicy:     policy,
	}, nil
}

// EffectivePolicy returns o.FeePolicy, or feepolicy.None{} when absent —
// "absence of a policy is equivalent to zero fees" per spec §3.
func (o Order) EffectivePolicy() feepolicy.FeePolicy {
	if o.FeePolicy == nil {
		return feepolicy.None{}
	}
	return o.FeePolicy
}

// Spend is the asset the traveller gives up when walking this order's edge:
// Quote for a BUY order (buying Base with Quote), Base for a SELL order.
func (o Order) Spend() money.AssetCode {
	if o.Side == feepolicy.Buy {
		return o.Pair.Quote
	}
	return o.Pair.Base
}

// Receive is the asset the traveller gains when walking this order's edge.
func (o Order) Receive() money.AssetCode {
	if o.Side == feepolicy.Buy {
		return o.Pair.Base
	}
	return o.Pair.Quote
}

// DirectionalRate returns EffectiveRate reoriented so its Base is always
// Spend() and its Quote is always Receive(), letting callers apply it with
// a plain ExchangeRate.Convert(spendMoney). EffectiveRate is already
// Base->Quote, which is exactly a SELL edge's Spend->Receive direction, so
// SELL passes it through; a BUY edge runs Quote->Base, the opposite
// orientation, so BUY inverts it.
func (o Order) DirectionalRate() (money.ExchangeRate, error) {
	if o.Side == feepolicy.Sell {
		return o.EffectiveRate, nil
	}
	return o.EffectiveRate.Invert()
}

// OrderBook is an unordered collection of Orders, carrying each order's
// insertion index for deterministic downstream processing (spec §4.3).
type OrderBook struct {
	Orders []Order
}

// NewOrderBook wraps a slice of orders, preserving insertion order.
func NewOrderBook(orders []Order) OrderBook {
	return OrderBook{Orders: append([]Order(nil), orders...)}
}

// Filter returns a new OrderBook containing only orders for which keep
// returns true, preserving relative order — the external "order filters"
// collaborator spec §4.9 calls out.
func (b OrderBook) Filter(keep func(Order) bool) OrderBook {
	out := make([]Order, 0, len(b.Orders))
	for _, o := range b.Orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return OrderBook{Orders: out}
}
