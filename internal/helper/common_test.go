package helper

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestToBaseUnits(t *testing.T) {
	require := require.New(t)

	amount, err := ToBaseUnits(decimal.RequireFromString("4000000000000000000000"))
	require.NoError(err)
	expected := new(uint256.Int).Mul(uint256.NewInt(4000), uint256.NewInt(1_000_000_000_000_000_000))
	require.Equal(expected, amount)

	amount, err = ToBaseUnits(decimal.Zero)
	require.NoError(err)
	require.True(amount.IsZero())
}

func TestToBaseUnitsRejectsNegative(t *testing.T) {
	_, err := ToBaseUnits(decimal.NewFromInt(-1))
	require.Error(t, err)
}

func TestToBaseUnitsRejectsFractional(t *testing.T) {
	_, err := ToBaseUnits(decimal.RequireFromString("1.5"))
	require.Error(t, err)
}

func TestToBaseUnitsRejectsOversized(t *testing.T) {
	// 2^256 does not fit
	big := decimal.NewFromBigInt(new(uint256.Int).SetAllOne().ToBig(), 0).Add(decimal.NewFromInt(1))
	_, err := ToBaseUnits(big)
	require.Error(t, err)
}

func TestFromBaseUnitsRoundTrip(t *testing.T) {
	require := require.New(t)

	original := decimal.RequireFromString("123456789000000000000")
	units, err := ToBaseUnits(original)
	require.NoError(err)
	require.True(original.Equal(FromBaseUnits(units)))

	require.True(FromBaseUnits(nil).IsZero())
}
