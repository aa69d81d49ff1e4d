package parquet

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/segmentio-labs/parquetrec/format"
)

func TestRescaleDecimalExactScaleUp(t *testing.T) {
	d := decimal.RequireFromString("1.5")
	out, err := rescaleDecimal(d, 4, RoundUnnecessary)
	require.NoError(t, err)
	require.True(t, out.Equal(decimal.RequireFromString("1.5000")))
}

func TestRescaleDecimalUnnecessaryRejectsInexact(t *testing.T) {
	d := decimal.RequireFromString("1.005")
	_, err := rescaleDecimal(d, 2, RoundUnnecessary)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, InexactRescale, perr.Kind)
}

func TestRescaleDecimalRoundingModes(t *testing.T) {
	cases := []struct {
		rounding Rounding
		in       string
		want     string
	}{
		{RoundHalfUp, "1.005", "1.01"},
		{RoundHalfUp, "-1.005", "-1.01"},
		{RoundHalfEven, "1.005", "1.00"}, // tie, quotient 100 is even
		{RoundHalfEven, "1.015", "1.02"}, // tie, quotient 101 is odd -> round to 102
		{RoundDown, "1.999", "1.99"},
		{RoundDown, "-1.999", "-1.99"},
		{RoundUp, "1.001", "1.01"},
		{RoundUp, "-1.001", "-1.01"},
		{RoundCeiling, "1.001", "1.01"},
		{RoundCeiling, "-1.001", "-1.00"},
		{RoundFloor, "1.001", "1.00"},
		{RoundFloor, "-1.001", "-1.01"},
	}
	for _, c := range cases {
		d := decimal.RequireFromString(c.in)
		out, err := rescaleDecimal(d, 2, c.rounding)
		require.NoError(t, err, "rounding %v on %s", c.rounding, c.in)
		require.Truef(t, out.Equal(decimal.RequireFromString(c.want)),
			"rounding %v on %s: got %s want %s", c.rounding, c.in, out.String(), c.want)
	}
}

func TestDecimalPhysicalRoundTripFixedLenByteArray(t *testing.T) {
	desc, err := NewDecimal(20, 2, RoundHalfUp, false)
	require.NoError(t, err)

	v, err := encodeDecimalValue(desc, decimal.RequireFromString("-123456789.01"))
	require.NoError(t, err)

	physical, length := physicalTypeOfDecimal(desc.Precision)
	require.Equal(t, format.FixedLenByteArray, physical)

	got := decimalFromRaw(v, physical, desc.Scale)
	require.True(t, got.Equal(decimal.RequireFromString("-123456789.01")))
	_ = length
}

func TestDecimalPhysicalRoundTripInt32(t *testing.T) {
	desc, err := NewDecimal(5, 2, RoundHalfUp, false)
	require.NoError(t, err)

	v, err := encodeDecimalValue(desc, decimal.RequireFromString("123.45"))
	require.NoError(t, err)

	physical, _ := physicalTypeOfDecimal(desc.Precision)
	got := decimalFromRaw(v, physical, desc.Scale)
	require.True(t, got.Equal(decimal.RequireFromString("123.45")))
}

func TestBigIntFixedBytesRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 127, -128, 123456789, -123456789} {
		b := bigIntToFixedBytes(big.NewInt(n), 8)
		got := fixedBytesToBigInt(b)
		require.Equal(t, n, got.Int64(), "round trip of %d", n)
	}
}
