package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeRate_RejectsSameCurrency(t *testing.T) {
	usd := mustAsset(t, "USD")
	_, err := NewExchangeRate(usd, usd, NewFromInt(1, 8))
	require.Error(t, err)
}

func TestExchangeRate_Convert(t *testing.T) {
	usd := mustAsset(t, "USD")
	btc := mustAsset(t, "BTC")
	rate, err := NewExchangeRate(btc, usd, mustDecimal(t, "30000", 8))
	require.NoError(t, err)

	spend, err := NewMoney(btc, mustDecimal(t, "0.5", 8))
	require.NoError(t, err)

	got, err := rate.Convert(spend, 2)
	require.NoError(t, err)
	assert.Equal(t, usd, got.Currency)
	assert.Equal(t, "15000.00", got.Amount.String())
}

func TestExchangeRate_ConvertWrongCurrency(t *testing.T) {
	usd := mustAsset(t, "USD")
	btc := mustAsset(t, "BTC")
	eur := mustAsset(t, "EUR")
	rate, _ := NewExchangeRate(btc, usd, mustDecimal(t, "30000", 8))
	wrong, _ := NewMoney(eur, mustDecimal(t, "1", 2))
	_, err := rate.Convert(wrong, 2)
	require.Error(t, err)
}

func TestExchangeRate_InvertRoundTrip(t *testing.T) {
	usd := mustAsset(t, "USD")
	eur := mustAsset(t, "EUR")
	rate, err := NewExchangeRate(eur, usd, mustDecimal(t, "1.10000000", 8))
	require.NoError(t, err)

	inverted, err := rate.Invert()
	require.NoError(t, err)
	assert.Equal(t, usd, inverted.Base)
	assert.Equal(t, eur, inverted.Quote)

	roundTripped, err := inverted.Invert()
	require.NoError(t, err)

	tolerance := mustDecimal(t, "0.00000001", 8)
	diff := rate.Rate.Sub(roundTripped.Rate)
	if diff.IsNegative() {
		diff = diff.Neg()
	}
	assert.True(t, diff.Compare(tolerance) <= 0, "round trip drift too large: %s", diff.String())
}

func mustDecimal(t *testing.T, s string, scale int32) Decimal {
	t.Helper()
	d, err := NewFromString(s, scale)
	require.NoError(t, err)
	return d
}
