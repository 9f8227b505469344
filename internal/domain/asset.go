// Package domain defines the core types shared by every halobot component:
// assets, position snapshots, transaction intents and their lifecycle
// records, registration status, and the cache/bus interfaces that the
// infrastructure packages implement.
package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimal counts that are fixed by the protocol rather than by any single
// asset. The lending pool reports collateral/debt/available-borrows in its
// own base-currency unit; callers must never scale those fields with an
// asset's decimals.
const (
	BaseCurrencyDecimals = 8
	HealthFactorDecimals = 18
)

// Asset describes a token supported by the lending pool.
type Asset struct {
	Symbol               string          `json:"symbol"`
	Address              string          `json:"address"`
	Decimals             int32           `json:"decimals"`
	LTV                  decimal.Decimal `json:"ltv"`                  // percent, e.g. 75
	LiquidationThreshold decimal.Decimal `json:"liquidationThreshold"` // percent
}

// TokenBalance is a read-only mirror of an ERC-20 balance. Raw holds the
// smallest-unit integer; Amount is Raw scaled by Decimals.
type TokenBalance struct {
	Raw      *big.Int        `json:"raw"`
	Decimals int32           `json:"decimals"`
	Symbol   string          `json:"symbol"`
	Amount   decimal.Decimal `json:"amount"`
}

// Allowance is the raw amount the account has pre-authorized the lending
// pool to spend for one asset. The spender is always the lending pool, so
// it is not part of the type.
type Allowance struct {
	Raw *big.Int `json:"raw"`
}

// IsZero reports whether no spend at all has been authorized. The approval
// gate keys off this exactly; a nonzero-but-small allowance counts as
// approved.
func (a Allowance) IsZero() bool {
	return a.Raw == nil || a.Raw.Sign() == 0
}
