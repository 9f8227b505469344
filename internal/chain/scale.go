package chain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// MaxUint256 is the unlimited-approval amount: 2^256 - 1.
var MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ToDecimal converts a raw smallest-unit integer to a decimal amount using
// the given decimal count. A nil raw value is treated as zero.
func ToDecimal(raw *big.Int, decimals int32) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -decimals)
}

// FromDecimal converts a decimal amount to a raw smallest-unit integer,
// truncating any precision beyond the asset's decimals.
func FromDecimal(d decimal.Decimal, decimals int32) *big.Int {
	return d.Shift(decimals).Truncate(0).BigInt()
}

// PercentFromScaled converts the pool's basis-point-style percent encoding
// (e.g. 7500) to a percent decimal (75).
func PercentFromScaled(raw *big.Int) decimal.Decimal {
	return ToDecimal(raw, 2)
}
