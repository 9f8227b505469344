package chain

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestToDecimal(t *testing.T) {
	// 1_500_000 raw USDC units (6 decimals) is 1.5.
	got := ToDecimal(big.NewInt(1_500_000), 6)
	require.True(t, got.Equal(decimal.RequireFromString("1.5")), "got %s", got)

	require.True(t, ToDecimal(nil, 18).IsZero())
	require.True(t, ToDecimal(big.NewInt(0), 18).IsZero())
}

func TestFromDecimal(t *testing.T) {
	raw := FromDecimal(decimal.RequireFromString("1.5"), 6)
	require.Equal(t, int64(1_500_000), raw.Int64())

	// Precision beyond the asset's decimals is truncated, not rounded.
	raw = FromDecimal(decimal.RequireFromString("0.0000019"), 6)
	require.Equal(t, int64(1), raw.Int64())
}

func TestScaleRoundTrip(t *testing.T) {
	amount := decimal.RequireFromString("123.456789")
	back := ToDecimal(FromDecimal(amount, 6), 6)
	require.True(t, back.Equal(amount), "got %s", back)
}

func TestPercentFromScaled(t *testing.T) {
	// The pool encodes 75% as 7500.
	got := PercentFromScaled(big.NewInt(7500))
	require.True(t, got.Equal(decimal.NewFromInt(75)), "got %s", got)
}

func TestMaxUint256(t *testing.T) {
	require.Equal(t, 256, MaxUint256.BitLen())
	require.Equal(t, 257, new(big.Int).Add(MaxUint256, big.NewInt(1)).BitLen())
}
