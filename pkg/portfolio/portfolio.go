// Package portfolio implements PortfolioState: the immutable per-currency
// balance vector, visited-currency set and per-order single-use tracking
// that the search engine threads through every augmenting path it walks.
package portfolio

import (
	"github.com/mExOms/convroute/pkg/money"
	"github.com/mExOms/convroute/pkg/xerrors"
)

// State is an immutable snapshot: balances >= 0 for every currency, a set
// of currencies that have been "visited" (drained to zero by a spend, and
// therefore forbidden from receiving into again — this is what keeps the
// flow acyclic), and a set of order IDs already consumed in this search.
// Every operation below returns a new State; the receiver is never
// mutated.
type State struct {
	balances map[money.AssetCode]money.Money
	visited  map[money.AssetCode]struct{}
	consumed map[string]struct{}
}

// Initial returns a State holding exactly one positive balance, with no
// visited marks and no consumed orders.
func Initial(currency money.AssetCode, amount money.Decimal) (State, error) {
	m, err := money.NewMoney(currency, amount)
	if err != nil {
		return State{}, err
	}
	if m.IsZero() {
		return State{}, xerrors.NewInvalidInput("amount", "initial spend must be positive")
	}
	return State{
		balances: map[money.AssetCode]money.Money{currency: m},
		visited:  map[money.AssetCode]struct{}{},
		consumed: map[string]struct{}{},
	}, nil
}

// Balance returns the current balance of currency, or a zero Money at the
// requested scale if the currency has never been touched.
func (s State) Balance(currency money.AssetCode, scale int32) money.Money {
	if m, ok := s.balances[currency]; ok {
		return m
	}
	return money.ZeroCache(currency, scale)
}

// IsVisited reports whether currency has been drained to zero by a prior
// spend (and is therefore forbidden from receiving into again).
func (s State) IsVisited(currency money.AssetCode) bool {
	_, ok := s.visited[currency]
	return ok
}

// IsConsumed reports whether orderID has already been used in this search.
func (s State) IsConsumed(orderID string) bool {
	_, ok := s.consumed[orderID]
	return ok
}

// PositiveBalances returns every currency currently holding a strictly
// positive balance, in no particular order (callers that need determinism
// should sort the result).
func (s State) PositiveBalances() []money.AssetCode {
	out := make([]money.AssetCode, 0, len(s.balances))
	for c, m := range s.balances {
		if !m.IsZero() {
			out = append(out, c)
		}
	}
	return out
}

// Spend subtracts amount from currency's balance, marking currency visited
// if the resulting balance is exactly zero. Fails if amount exceeds the
// current balance, or if amount is negative.
func (s State) Spend(currency money.AssetCode, amount money.Decimal) (State, error) {
	spendMoney, err := money.NewMoney(currency, amount)
	if err != nil {
		return State{}, err
	}
	current := s.Balance(currency, amount.Scale())
	cmp, err := spendMoney.Compare(current)
	if err != nil {
		return State{}, err
	}
	if cmp > 0 {
		return State{}, xerrors.NewInvalidInput("amount", "spend exceeds available balance")
	}

	remaining, err := current.Sub(spendMoney)
	if err != nil {
		return State{}, err
	}

	next := s.clone()
	next.balances[currency] = remaining
	if remaining.IsZero() {
		next.visited[currency] = struct{}{}
	}
	return next, nil
}

// Receive adds amount to currency's balance. Fails if currency has already
// been visited (drained to zero), which would otherwise reopen a cycle.
func (s State) Receive(currency money.AssetCode, amount money.Decimal) (State, error) {
	if s.IsVisited(currency) {
		return State{}, xerrors.NewInvalidInput("currency", "cannot receive into a visited currency")
	}
	incoming, err := money.NewMoney(currency, amount)
	if err != nil {
		return State{}, err
	}
	current := s.Balance(currency, amount.Scale())
	updated, err := current.Add(incoming)
	if err != nil {
		return State{}, err
	}

	next := s.clone()
	next.balances[currency] = updated
	return next, nil
}

// IsExhausted reports whether every currency with a positive balance is
// exactly targetCurrency — i.e. the portfolio holds nothing but the target
// asset and can stop searching.
func (s State) IsExhausted(targetCurrency money.AssetCode) bool {
	for c, m := range s.balances {
		if m.IsZero() {
			continue
		}
		if c != targetCurrency {
			return false
		}
	}
	return true
}

// Consume records orderID as used. Fails if it was already consumed.
func (s State) Consume(orderID string) (State, error) {
	if s.IsConsumed(orderID) {
		return State{}, xerrors.NewInvalidInput("orderId", "order already consumed in this search")
	}
	next := s.clone()
	next.consumed[orderID] = struct{}{}
	return next, nil
}

func (s State) clone() State {
	balances := make(map[money.AssetCode]money.Money, len(s.balances))
	for k, v := range s.balances {
		balances[k] = v
	}
	visited := make(map[money.AssetCode]struct{}, len(s.visited))
	for k := range s.visited {
		visited[k] = struct{}{}
	}
	consumed := make(map[string]struct{}, len(s.consumed))
	for k := range s.consumed {
		consumed[k] = struct{}{}
	}
	return State{balances: balances, visited: visited, consumed: consumed}
}
