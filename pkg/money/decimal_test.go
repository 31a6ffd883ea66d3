package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalToScale_HalfAwayFromZero(t *testing.T) {
	d, err := NewFromString("1.005", 3)
	require.NoError(t, err)

	rounded, err := d.ToScale(2, HalfAwayFromZero)
	require.NoError(t, err)
	assert.Equal(t, "1.01", rounded.String())

	neg, err := NewFromString("-1.005", 3)
	require.NoError(t, err)
	negRounded, err := neg.ToScale(2, HalfAwayFromZero)
	require.NoError(t, err)
	assert.Equal(t, "-1.01", negRounded.String())
}

func TestDecimalToScale_OutOfRange(t *testing.T) {
	d := NewFromInt(1, 2)
	_, err := d.ToScale(51, HalfAwayFromZero)
	require.Error(t, err)
	_, err = d.ToScale(-1, HalfAwayFromZero)
	require.Error(t, err)
}

func TestDecimalDiv_ByZero(t *testing.T) {
	d := NewFromInt(10, 2)
	zero := NewFromInt(0, 2)
	_, err := d.Div(zero, 8)
	require.Error(t, err)
}

func TestDecimalDiv_Deterministic(t *testing.T) {
	a := NewFromInt(1, 2)
	b := NewFromInt(3, 2)
	q1, err := a.Div(b, 8)
	require.NoError(t, err)
	q2, err := a.Div(b, 8)
	require.NoError(t, err)
	assert.Equal(t, q1.String(), q2.String())
	assert.Equal(t, "0.33333333", q1.String())
}

func TestDecimalAddSubScale(t *testing.T) {
	a := NewFromInt(1, 2)
	b := NewFromInt(2, 4)
	sum := a.Add(b)
	assert.Equal(t, int32(4), sum.Scale())

	diff := a.Sub(b)
	assert.Equal(t, int32(4), diff.Scale())
}

func TestDecimalCompareIgnoresScale(t *testing.T) {
	a, err := NewFromString("1.50", 2)
	require.NoError(t, err)
	b, err := NewFromString("1.5", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Compare(b))
}

func TestDecimalIsZeroIsNegative(t *testing.T) {
	assert.True(t, Zero(2).IsZero())
	neg := NewFromInt(-5, 2)
	assert.True(t, neg.IsNegative())
	assert.False(t, neg.IsZero())
}
