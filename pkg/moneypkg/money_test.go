package moneypkg

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromString(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Money
		wantErr error
	}{
		{name: "Integer", input: "12", want: 1200},
		{name: "TwoDecimals", input: "12.50", want: 1250},
		{name: "OneDecimal", input: "0.4", want: 40},
		{name: "Zero", input: "0", want: 0},
		{name: "Negative", input: "-3.25", want: -325},
		{name: "NotNumeric", input: "twelve", wantErr: ErrNotNumeric},
		{name: "Empty", input: "", wantErr: ErrNotNumeric},
		{name: "TooPrecise", input: "12.505", wantErr: ErrTooPrecise},
		{name: "MaxUnits", input: "92233720368547758.07", want: math.MaxInt64},
		{name: "Overflow", input: "92233720368547758.08", wantErr: ErrOutOfRange},
		{name: "OverflowWraparound", input: "184467440737095517.16", wantErr: ErrOutOfRange},
		{name: "NegativeOverflow", input: "-92233720368547758.09", wantErr: ErrOutOfRange},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			got, err := FromString(tc.input)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestArithmetic(t *testing.T) {
	a := Money(1250)
	b := Money(40)

	require.Equal(t, Money(1290), a.Add(b))
	require.Equal(t, Money(1210), a.Sub(b))
	require.True(t, a.IsPositive())
	require.True(t, b.LessThan(a))
	require.False(t, a.LessThan(a))
	require.True(t, Zero.Sub(b).IsNegative())
}

func TestString(t *testing.T) {
	require.Equal(t, "12.50", Money(1250).String())
	require.Equal(t, "0.00", Zero.String())
	require.Equal(t, "40.00", Money(4000).String())
	require.Equal(t, "-3.25", Money(-325).String())
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(Money(1250))
	require.NoError(t, err)
	require.Equal(t, `"12.50"`, string(data))

	var m Money

	require.NoError(t, json.Unmarshal([]byte(`"12.50"`), &m))
	require.Equal(t, Money(1250), m)

	require.NoError(t, json.Unmarshal([]byte(`7.3`), &m))
	require.Equal(t, Money(730), m)

	require.ErrorIs(t, json.Unmarshal([]byte(`"1.005"`), &m), ErrTooPrecise)
}
