package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Cents
	}{
		{"10", 1000},
		{"10.5", 1050},
		{"10.50", 1050},
		{"0.01", 1},
		{"129.99", 12999},
	} {
		got, err := ParseAmount(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "abc", "10.505", "1e-3"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestCentsFormatting(t *testing.T) {
	assert.Equal(t, "70.00", Cents(7000).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "-12.50", Cents(-1250).String())
}

func TestCentsJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Cents(12999))
	require.NoError(t, err)
	assert.Equal(t, "129.99", string(b))

	var c Cents
	require.NoError(t, json.Unmarshal([]byte(`129.99`), &c))
	assert.Equal(t, Cents(12999), c)
	require.NoError(t, json.Unmarshal([]byte(`"10.50"`), &c))
	assert.Equal(t, Cents(1050), c)
}

func TestCentsMulExact(t *testing.T) {
	// 0.10 * 3 has no binary representation drift in fixed point
	assert.Equal(t, Cents(30), Cents(10).Mul(3))
	assert.Equal(t, Cents(38997), Cents(12999).Mul(3))
}
