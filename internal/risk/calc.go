// Package risk computes the client-side advisory figures: the safe borrow
// limit, liquidation economics, and the demo reputation score. Nothing here
// is binding on-chain; the pool's own accounting remains the source of
// truth.
package risk

import "github.com/shopspring/decimal"

var (
	// safeBorrowFactor keeps a 5% buffer below the hard on-chain ceiling,
	// absorbing price movement between quote time and confirmation.
	safeBorrowFactor = decimal.NewFromFloat(0.95)

	// liquidationBonus is the protocol's fixed collateral bonus.
	liquidationBonus = decimal.NewFromFloat(0.05)

	// maxLiquidationFraction caps how much of a position's debt one
	// liquidation call may cover.
	maxLiquidationFraction = decimal.NewFromFloat(0.5)
)

// BonusPercent is the liquidation bonus expressed as a percent figure (5).
var BonusPercent = liquidationBonus.Mul(decimal.NewFromInt(100))

// SafeBorrowLimit is the advisory borrow ceiling: 95% of the pool's
// availableBorrows. The hard ceiling stays with the pool; this is the
// stricter client-enforced pre-check.
func SafeBorrowLimit(availableBorrows decimal.Decimal) decimal.Decimal {
	return availableBorrows.Mul(safeBorrowFactor)
}

// LiquidationProfit estimates the liquidator's profit for covering amount of
// debt: the fixed 5% bonus. Display-only; the bonus is enforced on-chain.
func LiquidationProfit(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(liquidationBonus)
}

// MaxLiquidatable is the most debt a single liquidation call may cover for a
// position: half its outstanding debt.
func MaxLiquidatable(totalDebt decimal.Decimal) decimal.Decimal {
	return totalDebt.Mul(maxLiquidationFraction)
}
