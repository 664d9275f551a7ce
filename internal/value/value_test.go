package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareSameTag(t *testing.T) {
	cmp, err := Compare(Int(1), Int(2))
	require.NoError(t, err)
	assert.Equal(t, Less, cmp)

	cmp, err = Compare(Str("b"), Str("a"))
	require.NoError(t, err)
	assert.Equal(t, Greater, cmp)
}

func TestCompareCrossTagErrors(t *testing.T) {
	_, err := Compare(Int(1), Str("1"))
	require.Error(t, err)
	var crossTag *ErrCrossTag
	require.ErrorAs(t, err, &crossTag)
}

func TestCompareNullNull(t *testing.T) {
	cmp, err := Compare(Nil(), Nil())
	require.NoError(t, err)
	assert.Equal(t, Equal, cmp)
}

func TestFloatEpsilonEquality(t *testing.T) {
	eq, err := SameTagEqual(Flt(0.1+0.2), Flt(0.3))
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestFloatNaNComparesEqualForStability(t *testing.T) {
	nan := Flt(float64(0))
	nan.F = nan.F / nan.F // NaN
	cmp, err := Compare(nan, Flt(1.0))
	require.NoError(t, err)
	assert.Equal(t, Equal, cmp)
}

func TestParseTagRoundTrip(t *testing.T) {
	for _, tag := range []Tag{Integer, Float, Text, Boolean, Null} {
		assert.Equal(t, tag, ParseTag(tag.String()))
	}
	assert.Equal(t, Null, ParseTag("not-a-tag"))
}
