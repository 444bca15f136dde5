package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_Conversions(t *testing.T) {
	q := NewQuantityFromFloat64(2.5)
	assert.Equal(t, int64(25000), q.Int64Scaled())
	assert.Equal(t, 2.5, q.Float64())
	assert.Equal(t, "2.5000", q.String())

	neg := NewQuantityFromFloat64(-0.25)
	assert.Equal(t, int64(-2500), neg.Int64Scaled())
	assert.Equal(t, "-0.2500", neg.String())
	assert.Equal(t, neg, neg.Neg().Neg())
	assert.Equal(t, neg.Neg(), neg.Abs())
}

func TestQuantity_Predicates(t *testing.T) {
	assert.True(t, Quantity(0).IsZero())
	assert.True(t, Quantity(1).IsPositive())
	assert.True(t, Quantity(-1).IsNegative())
	assert.False(t, Quantity(-1).IsPositive())
}

func TestQuantity_Decimal(t *testing.T) {
	q := NewQuantityFromFloat64(4)
	price := MustMoney("100")
	total := price.Mul(q.Decimal())
	assert.True(t, total.Equal(MustMoney("400")), "got %s", total)
}

func TestQuantity_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want Quantity
	}{
		{`2.5`, 25000},
		{`"2.5"`, 25000},
		{`-1.25`, -12500},
		{`3`, 30000},
		{`0.00001`, 0},   // truncated past 4 digits
		{`"1.23456"`, 12345},
		{`null`, 0},
		{`2.5e1`, 250000},
	}

	for _, tc := range cases {
		var q Quantity
		require.NoError(t, json.Unmarshal([]byte(tc.in), &q), "input %s", tc.in)
		assert.Equal(t, tc.want, q, "input %s", tc.in)
	}
}

func TestQuantity_UnmarshalJSON_Invalid(t *testing.T) {
	for _, in := range []string{`""`, `"abc"`, `"1.2.3"`} {
		var q Quantity
		assert.Error(t, json.Unmarshal([]byte(in), &q), "input %s", in)
	}
}

func TestQuantity_MarshalRoundTrip(t *testing.T) {
	q := NewQuantityFromFloat64(12.3456)

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, "12.3456", string(data))

	var back Quantity
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, q, back)
}
