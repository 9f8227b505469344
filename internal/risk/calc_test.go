package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSafeBorrowLimit(t *testing.T) {
	// 95% of 1000 is 950.
	got := SafeBorrowLimit(decimal.NewFromInt(1000))
	require.True(t, got.Equal(decimal.NewFromInt(950)), "got %s", got)

	require.True(t, SafeBorrowLimit(decimal.Zero).IsZero())
}

func TestLiquidationProfit(t *testing.T) {
	// Covering 200 of debt earns the fixed 5% bonus: 10.
	got := LiquidationProfit(decimal.NewFromInt(200))
	require.True(t, got.Equal(decimal.NewFromInt(10)), "got %s", got)
}

func TestMaxLiquidatable(t *testing.T) {
	// Half of 300 of debt.
	got := MaxLiquidatable(decimal.NewFromInt(300))
	require.True(t, got.Equal(decimal.NewFromInt(150)), "got %s", got)
}

func TestBonusPercent(t *testing.T) {
	require.True(t, BonusPercent.Equal(decimal.NewFromInt(5)), "got %s", BonusPercent)
}
