package materialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mExOms/convroute/pkg/feepolicy"
	"github.com/mExOms/convroute/pkg/graph"
	"github.com/mExOms/convroute/pkg/money"
	"github.com/mExOms/convroute/pkg/order"
	"github.com/mExOms/convroute/pkg/search"
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

func buildEdge(t *testing.T, side feepolicy.Side, base, quote money.AssetCode, rate string, policy feepolicy.FeePolicy) *graph.Edge {
	t.Helper()
	bounds, err := money.NewOrderBounds(mustMoney(t, base, "0.01", 8), mustMoney(t, base, "10", 8))
	require.NoError(t, err)
	r, err := money.NewExchangeRate(base, quote, dec(t, rate, 8))
	require.NoError(t, err)
	o, err := order.NewOrder("o1", side, order.Pair{Base: base, Quote: quote}, bounds, r, policy)
	require.NoError(t, err)

	book := order.NewOrderBook([]order.Order{o})
	g, err := graph.NewGraphBuilder().Build(book)
	require.NoError(t, err)
	return g.Edges()[0]
}

func toleranceWindow(t *testing.T, min, max string) money.ToleranceWindow {
	t.Helper()
	tw, err := money.NewToleranceWindow(dec(t, min, money.CanonicalScale), dec(t, max, money.CanonicalScale))
	require.NoError(t, err)
	return tw
}

func TestMaterialize_SingleDirectHopNoFees(t *testing.T) {
	usd := asset(t, "USD")
	btc := asset(t, "BTC")
	edge := buildEdge(t, feepolicy.Buy, btc, usd, "30000", nil)

	fills := []search.RawFill{{Edge: edge, Spent: dec(t, "1000.00", 2), Sequence: 1}}
	tolerance := toleranceWindow(t, "0", "0.10")
	desiredSpend := mustMoney(t, usd, "1000.00", 2)

	plan, ok, err := NewMaterializer().Materialize(usd, btc, desiredSpend, tolerance, fills)
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, usd, plan.Steps[0].From)
	assert.Equal(t, btc, plan.Steps[0].To)
	assert.Equal(t, 0, plan.TotalSpent.Amount.Compare(dec(t, "1000.00", 2)))
	assert.Empty(t, plan.FeeBreakdown)
	assert.True(t, plan.IsLinear)
	assert.Equal(t, 0, plan.ResidualTolerance.Compare(money.One(money.CanonicalScale)))
}

func TestMaterialize_RejectsSpendOutsideToleranceWindow(t *testing.T) {
	usd := asset(t, "USD")
	btc := asset(t, "BTC")
	edge := buildEdge(t, feepolicy.Buy, btc, usd, "30000", nil)

	fills := []search.RawFill{{Edge: edge, Spent: dec(t, "100.00", 2), Sequence: 1}}
	tolerance := toleranceWindow(t, "0", "0.01")
	desiredSpend := mustMoney(t, usd, "1000.00", 2)

	_, ok, err := NewMaterializer().Materialize(usd, btc, desiredSpend, tolerance, fills)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMaterialize_AggregatesBaseFeeInSpentCurrency(t *testing.T) {
	usd := asset(t, "USD")
	btc := asset(t, "BTC")
	policy := feepolicy.PercentageOfBase{Rate: dec(t, "0.01", 8)}
	edge := buildEdge(t, feepolicy.Sell, btc, usd, "30000", policy)

	fills := []search.RawFill{{Edge: edge, Spent: dec(t, "1.00", 8), Sequence: 1}}
	tolerance := toleranceWindow(t, "0", "0.10")
	desiredSpend := mustMoney(t, btc, "1.00", 8)

	plan, ok, err := NewMaterializer().Materialize(btc, usd, desiredSpend, tolerance, fills)
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, plan.FeeBreakdown, 1)
	assert.Equal(t, btc, plan.FeeBreakdown[0].Currency)
	assert.True(t, plan.FeeBreakdown[0].Amount.IsNegative() == false)
}

func TestMaterialize_NonLinearDiamondFlagged(t *testing.T) {
	usd := asset(t, "USD")
	eur := asset(t, "EUR")
	gbp := asset(t, "GBP")
	btc := asset(t, "BTC")

	usdEur := buildEdge(t, feepolicy.Buy, eur, usd, "1.10", nil)
	usdGbp := buildEdge(t, feepolicy.Buy, gbp, usd, "0.80", nil)
	eurBtc := buildEdge(t, feepolicy.Buy, btc, eur, "27000", nil)
	gbpBtc := buildEdge(t, feepolicy.Buy, btc, gbp, "24000", nil)

	fills := []search.RawFill{
		{Edge: usdEur, Spent: dec(t, "4000", 2), Sequence: 1},
		{Edge: usdGbp, Spent: dec(t, "4000", 2), Sequence: 2},
		{Edge: eurBtc, Spent: dec(t, "3636.36", 8), Sequence: 3},
		{Edge: gbpBtc, Spent: dec(t, "5000", 8), Sequence: 4},
	}
	tolerance := toleranceWindow(t, "0", "0.50")
	desiredSpend := mustMoney(t, usd, "8000", 2)

	plan, ok, err := NewMaterializer().Materialize(usd, btc, desiredSpend, tolerance, fills)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, plan.IsLinear)
	assert.Equal(t, 0, plan.TotalSpent.Amount.Compare(dec(t, "8000.00", 2)))
}
