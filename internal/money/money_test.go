package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
		ok   bool
	}{
		{"45", 4500, true},
		{"45.00", 4500, true},
		{"45.5", 4550, true},
		{" 0.01 ", 1, true},
		{"1.005", 101, true},
		{"-5", -500, true},
		{"$1,234.56", 123456, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"100000000", 0, false},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if !tc.ok {
			assert.Error(t, err, "%q should fail", tc.in)
			continue
		}
		require.NoError(t, err, "%q", tc.in)
		assert.Equal(t, tc.want, got, "%q", tc.in)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("ten")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Parse("123456789.00")
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestString(t *testing.T) {
	assert.Equal(t, "$0.00", Amount(0).String())
	assert.Equal(t, "$45.00", Amount(4500).String())
	assert.Equal(t, "$1,234.56", Amount(123456).String())
	assert.Equal(t, "$1,000,000.05", Amount(100000005).String())
	assert.Equal(t, "-$12.30", Amount(-1230).String())
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 45.0, Amount(4500).Percent(10000), 0.0001)
	assert.Equal(t, 0.0, Amount(4500).Percent(0))
}

func TestJSON(t *testing.T) {
	var v struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 12.5, "b": "7.25"}`), &v))
	assert.Equal(t, Amount(1250), v.A)
	assert.Equal(t, Amount(725), v.B)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 12.50, "b": 7.25}`, string(out))
}
