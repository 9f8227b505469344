package domain

import "github.com/shopspring/decimal"

// LiquidatablePosition describes a borrower whose health factor has dropped
// below 1.0. MaxLiquidatable is capped at half the outstanding debt per
// protocol policy; Bonus is the fixed collateral bonus a liquidator receives
// on top of the debt repaid.
type LiquidatablePosition struct {
	Borrower        string          `json:"borrower"`
	Collateral      decimal.Decimal `json:"collateral"`
	Debt            decimal.Decimal `json:"debt"`
	HealthFactor    decimal.Decimal `json:"healthFactor"`
	MaxLiquidatable decimal.Decimal `json:"maxLiquidatable"`
	Bonus           decimal.Decimal `json:"bonus"` // percent
}
