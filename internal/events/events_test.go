package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mExOms/convroute/pkg/feepolicy"
	"github.com/mExOms/convroute/pkg/guards"
	"github.com/mExOms/convroute/pkg/money"
	"github.com/mExOms/convroute/pkg/order"
	"github.com/mExOms/convroute/pkg/search"
	"github.com/mExOms/convroute/pkg/searchservice"
)

func asset(t *testing.T, s string) money.AssetCode {
	t.Helper()
	a, err := money.NewAssetCode(s)
	require.NoError(t, err)
	return a
}

func dec(t *testing.T, s string, scale int32) money.Decimal {
	t.Helper()
	d, err := money.NewFromString(s, scale)
	require.NoError(t, err)
	return d
}

func mustMoney(t *testing.T, c money.AssetCode, s string, scale int32) money.Money {
	t.Helper()
	m, err := money.NewMoney(c, dec(t, s, scale))
	require.NoError(t, err)
	return m
}

func buildOrder(t *testing.T, id string, base, quote money.AssetCode, rate, minB, maxB string) order.Order {
	t.Helper()
	bounds, err := money.NewOrderBounds(mustMoney(t, base, minB, 8), mustMoney(t, base, maxB, 8))
	require.NoError(t, err)
	r, err := money.NewExchangeRate(base, quote, dec(t, rate, 8))
	require.NoError(t, err)
	o, err := order.NewOrder(id, feepolicy.Buy, order.Pair{Base: base, Quote: quote}, bounds, r, nil)
	require.NoError(t, err)
	return o
}

func baseConfig(t *testing.T, spend money.Money) searchservice.Config {
	t.Helper()
	tolerance, err := money.NewToleranceWindow(dec(t, "0", money.CanonicalScale), dec(t, "0.10", money.CanonicalScale))
	require.NoError(t, err)
	return searchservice.Config{
		Spend:           spend,
		ToleranceBounds: tolerance,
		HopLimits:       search.HopLimits{Min: 1, Max: 3},
		SearchGuards:    guards.Limits{MaxExpansions: 10000, MaxVisitedStates: 10000, TimeBudgetMs: guards.NoBudget},
	}
}

func TestToOutcomeEvent_FoundPlanPopulatesFields(t *testing.T) {
	usd := asset(t, "USD")
	btc := asset(t, "BTC")
	o := buildOrder(t, "o1", btc, usd, "30000", "0.01", "1.0")

	req := searchservice.Request{
		TargetAsset: btc,
		OrderBook:   order.NewOrderBook([]order.Order{o}),
		Config:      baseConfig(t, mustMoney(t, usd, "1000.00", 2)),
	}

	outcome, err := searchservice.NewService().Search(req)
	require.NoError(t, err)
	require.NotNil(t, outcome.Plan)

	evt := ToOutcomeEvent(outcome)
	assert.True(t, evt.Found)
	assert.Equal(t, "USD", evt.SourceCurrency)
	assert.Equal(t, "BTC", evt.TargetCurrency)
	assert.True(t, evt.IsLinear)
	require.Len(t, evt.Steps, 1)
	assert.Equal(t, "o1", evt.Steps[0].OrderID)
	assert.NotEmpty(t, evt.Steps[0].Spent)
	assert.NotEmpty(t, evt.Steps[0].Received)

	payload, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"sourceCurrency":"USD"`)
	assert.Contains(t, string(payload), `"orderId":"o1"`)
}

func TestToOutcomeEvent_NoPlanLeavesMonetaryFieldsEmpty(t *testing.T) {
	outcome := searchservice.Outcome{
		GuardReport: guards.Report{Expansions: 3, UniqueVisitedStates: 2, ElapsedMs: 1},
	}

	evt := ToOutcomeEvent(outcome)
	assert.False(t, evt.Found)
	assert.Empty(t, evt.SourceCurrency)
	assert.Empty(t, evt.Steps)
	assert.Equal(t, int64(3), evt.Expansions)
}
