package sf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsOutOfRange(t *testing.T) {
	_, err := New(-0.1)
	require.Error(t, err)
	_, err = New(1.1)
	require.Error(t, err)
}

func TestShortFloatArithmeticExhaustive(t *testing.T) {
	// Translated from the original implementation's exhaustive loop tests
	// over the full 0..=SHORT_MAX integer range.
	for i := uint32(0); i <= shortMax; i++ {
		s := NewUnchecked(i)
		require.True(t, s.IsValid())

		notTwice := s.Not().Not()
		assert.Equal(t, s.v, notTwice.v)

		assert.True(t, s.Or(Zero).Equal(s))
		assert.True(t, s.And(One).Equal(s))
		assert.True(t, s.And(Zero).Equal(Zero))
		assert.True(t, s.Or(One).Equal(One))
	}
}

func TestAddSubSaturate(t *testing.T) {
	assert.True(t, One.Add(One).Equal(One))
	assert.True(t, Zero.Sub(One).Equal(Zero))
}

func TestCompareAndGTE(t *testing.T) {
	assert.Equal(t, -1, Zero.Compare(One))
	assert.Equal(t, 1, One.Compare(Zero))
	assert.Equal(t, 0, Half.Compare(Half))
	assert.True(t, One.GTE(Half))
	assert.False(t, Zero.GTE(Half))
}

func TestW2CAndC2WRoundTrip(t *testing.T) {
	c := W2C(9.0, 1.0)
	w := C2W(c, 1.0)
	assert.InDelta(t, 9.0, w, 0.01)
}

func TestStringAndBrief(t *testing.T) {
	assert.Equal(t, "1.0000", One.String())
	assert.Equal(t, "0.0000", Zero.String())
	assert.Equal(t, "1.00", One.Brief())
	assert.Equal(t, "0.00", Zero.Brief())
}

func TestGeometricAndArithmeticMean(t *testing.T) {
	g := GeometricMean(One, One, Zero)
	assert.True(t, g.Equal(Zero))
	a := ArithmeticMean(One, Zero)
	assert.InDelta(t, 0.5, a.Float(), 0.01)
}
