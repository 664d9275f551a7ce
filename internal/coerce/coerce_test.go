package coerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexumdb/internal/value"
)

func TestToIntegerFromText(t *testing.T) {
	v, err := To("id", value.Integer, value.Str("42"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.I)
}

func TestToIntegerFromFloatWithFraction(t *testing.T) {
	_, err := To("id", value.Integer, value.Flt(3.5))
	require.Error(t, err)
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestToIntegerFromFloatWhole(t *testing.T) {
	v, err := To("id", value.Integer, value.Flt(7.0))
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.I)
}

func TestToBooleanFromIntegerInvalid(t *testing.T) {
	_, err := To("active", value.Boolean, value.Int(2))
	require.Error(t, err)
}

func TestToBooleanFromText(t *testing.T) {
	v, err := To("active", value.Boolean, value.Str("TRUE"))
	require.NoError(t, err)
	assert.True(t, v.B)

	v, err = To("active", value.Boolean, value.Str("0"))
	require.NoError(t, err)
	assert.False(t, v.B)
}

func TestToTextFromFloat(t *testing.T) {
	v := toText("note", value.Flt(9.0))
	assert.Equal(t, "9", v.S)
}

func TestNullPassesThroughAnyTarget(t *testing.T) {
	for _, target := range []value.Tag{value.Integer, value.Float, value.Text, value.Boolean} {
		v, err := To("x", target, value.Nil())
		require.NoError(t, err)
		assert.True(t, v.IsNull())
	}
}

func TestToFloatFromBoolean(t *testing.T) {
	v, err := To("score", value.Float, value.Bool(true))
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.F)
}
