package domain

import "github.com/shopspring/decimal"

// PositionSnapshot is the normalized view of one account's lending position,
// produced by reading getUserAccountData. Collateral, debt and available
// borrows are in the protocol's base-currency unit (BaseCurrencyDecimals),
// not in any asset's own unit. A snapshot is stale the moment any mutating
// action confirms and must be re-fetched, never patched in place.
type PositionSnapshot struct {
	Account              string          `json:"account"`
	TotalCollateral      decimal.Decimal `json:"totalCollateral"`
	TotalDebt            decimal.Decimal `json:"totalDebt"`
	AvailableBorrows     decimal.Decimal `json:"availableBorrows"`
	LTV                  decimal.Decimal `json:"ltv"`                  // percent
	LiquidationThreshold decimal.Decimal `json:"liquidationThreshold"` // percent
	HealthFactor         decimal.Decimal `json:"healthFactor"`
}

// HealthFactorInfinite reports whether the health factor is unbounded.
// This holds iff the account has no debt.
func (s PositionSnapshot) HealthFactorInfinite() bool {
	return s.TotalDebt.IsZero()
}

// Liquidatable reports whether the position can be liquidated: a finite
// health factor below 1.0.
func (s PositionSnapshot) Liquidatable() bool {
	return !s.HealthFactorInfinite() && s.HealthFactor.LessThan(decimal.NewFromInt(1))
}
