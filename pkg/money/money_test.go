package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAsset(t *testing.T, s string) AssetCode {
	t.Helper()
	a, err := NewAssetCode(s)
	require.NoError(t, err)
	return a
}

func TestNewMoney_RejectsNegative(t *testing.T) {
	usd := mustAsset(t, "usd")
	_, err := NewMoney(usd, NewFromInt(-1, 2))
	require.Error(t, err)
}

func TestMoneyAdd_ClosureAndScale(t *testing.T) {
	usd := mustAsset(t, "USD")
	a, err := NewMoney(usd, NewFromInt(100, 2))
	require.NoError(t, err)
	b, err := NewMoney(usd, NewFromInt(5, 4))
	require.NoError(t, err)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, usd, sum.Currency)
	assert.Equal(t, int32(4), sum.Scale())
}

func TestMoneyAdd_CurrencyMismatch(t *testing.T) {
	usd := mustAsset(t, "USD")
	eur := mustAsset(t, "EUR")
	a, _ := NewMoney(usd, NewFromInt(1, 2))
	b, _ := NewMoney(eur, NewFromInt(1, 2))
	_, err := a.Add(b)
	require.Error(t, err)
}

func TestAssetCode_NormalizesAndValidates(t *testing.T) {
	a, err := NewAssetCode(" btc ")
	require.NoError(t, err)
	assert.Equal(t, AssetCode("BTC"), a)

	_, err = NewAssetCode("B1")
	require.Error(t, err)

	_, err = NewAssetCode("TOOLONGASSETCODE")
	require.Error(t, err)
}
