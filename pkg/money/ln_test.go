package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLn_One(t *testing.T) {
	one := NewFromInt(1, CanonicalScale)
	result, err := Ln(one, CanonicalScale)
	require.NoError(t, err)
	assert.True(t, result.IsZero())
}

func TestLn_Two(t *testing.T) {
	two := NewFromInt(2, CanonicalScale)
	result, err := Ln(two, 10)
	require.NoError(t, err)
	assert.Equal(t, "0.6931471806", result.String())
}

func TestLn_RejectsNonPositive(t *testing.T) {
	_, err := Ln(Zero(CanonicalScale), CanonicalScale)
	require.Error(t, err)
	_, err = Ln(NewFromInt(-1, CanonicalScale), CanonicalScale)
	require.Error(t, err)
}

func TestLn_ProductAdditivity(t *testing.T) {
	a := mustDecimal(t, "1.10", CanonicalScale)
	b := mustDecimal(t, "27000", CanonicalScale)

	lnA, err := Ln(a, 12)
	require.NoError(t, err)
	lnB, err := Ln(b, 12)
	require.NoError(t, err)

	product := a.Mul(b)
	lnProduct, err := Ln(product, 12)
	require.NoError(t, err)

	sum := lnA.Add(lnB)
	diff := sum.Sub(lnProduct)
	if diff.IsNegative() {
		diff = diff.Neg()
	}
	tolerance := mustDecimal(t, "0.000001", 12)
	assert.True(t, diff.Compare(tolerance) <= 0, "ln(a*b) should equal ln(a)+ln(b): diff=%s", diff.String())
}
