package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mExOms/convroute/pkg/feepolicy"
	"github.com/mExOms/convroute/pkg/money"
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

func buildOrder(t *testing.T, side feepolicy.Side) Order {
	t.Helper()
	usd := asset(t, "USD")
	btc := asset(t, "BTC")

	minM, _ := money.NewMoney(btc, dec(t, "0.01", 8))
	maxM, _ := money.NewMoney(btc, dec(t, "1.00", 8))
	bounds, err := money.NewOrderBounds(minM, maxM)
	require.NoError(t, err)

	rate, err := money.NewExchangeRate(btc, usd, dec(t, "30000", 8))
	require.NoError(t, err)

	o, err := NewOrder("order-1", side, Pair{Base: btc, Quote: usd}, bounds, rate, nil)
	require.NoError(t, err)
	return o
}

func TestNewOrder_RejectsMismatchedBounds(t *testing.T) {
	usd := asset(t, "USD")
	btc := asset(t, "BTC")
	minM, _ := money.NewMoney(usd, dec(t, "1", 2))
	maxM, _ := money.NewMoney(usd, dec(t, "2", 2))
	bounds, _ := money.NewOrderBounds(minM, maxM)
	rate, _ := money.NewExchangeRate(btc, usd, dec(t, "30000", 8))

	_, err := NewOrder("o1", feepolicy.Buy, Pair{Base: btc, Quote: usd}, bounds, rate, nil)
	require.Error(t, err)
}

func TestOrder_SpendReceive_Buy(t *testing.T) {
	o := buildOrder(t, feepolicy.Buy)
	assert.Equal(t, o.Pair.Quote, o.Spend())
	assert.Equal(t, o.Pair.Base, o.Receive())
}

func TestOrder_SpendReceive_Sell(t *testing.T) {
	o := buildOrder(t, feepolicy.Sell)
	assert.Equal(t, o.Pair.Base, o.Spend())
	assert.Equal(t, o.Pair.Quote, o.Receive())
}

func TestOrder_DirectionalRate_SellPassesThrough(t *testing.T) {
	o := buildOrder(t, feepolicy.Sell)
	dr, err := o.DirectionalRate()
	require.NoError(t, err)
	assert.Equal(t, o.Pair.Base, dr.Base)
	assert.Equal(t, o.Pair.Quote, dr.Quote)
	assert.Equal(t, 0, dr.Rate.Compare(o.EffectiveRate.Rate))
}

func TestOrder_DirectionalRate_BuyInverts(t *testing.T) {
	o := buildOrder(t, feepolicy.Buy)
	dr, err := o.DirectionalRate()
	require.NoError(t, err)
	assert.Equal(t, o.Pair.Quote, dr.Base)
	assert.Equal(t, o.Pair.Base, dr.Quote)

	inverseCheck, err := o.EffectiveRate.Invert()
	require.NoError(t, err)
	assert.Equal(t, 0, dr.Rate.Compare(inverseCheck.Rate))
}

func TestOrder_EffectivePolicy_DefaultsToNone(t *testing.T) {
	o := buildOrder(t, feepolicy.Buy)
	_, ok := o.EffectivePolicy().(feepolicy.None)
	assert.True(t, ok)
}

func TestOrderBook_Filter(t *testing.T) {
	o1 := buildOrder(t, feepolicy.Buy)
	o2 := buildOrder(t, feepolicy.Sell)
	book := NewOrderBook([]Order{o1, o2})

	filtered := book.Filter(func(o Order) bool { return o.Side == feepolicy.Buy })
	require.Len(t, filtered.Orders, 1)
	assert.Equal(t, feepolicy.Buy, filtered.Orders[0].Side)
}
