package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/halofi/halobot/internal/domain"
)

func usdcBalance(amount string) domain.TokenBalance {
	return domain.TokenBalance{
		Symbol: "USDC",
		Amount: decimal.RequireFromString(amount),
	}
}

func snapshotWith(available, debt string) domain.PositionSnapshot {
	return domain.PositionSnapshot{
		AvailableBorrows: decimal.RequireFromString(available),
		TotalDebt:        decimal.RequireFromString(debt),
	}
}

func TestEmptyInputIsNeutral(t *testing.T) {
	res := Check(Input{Kind: domain.ActionSupply, Amount: ""})
	require.False(t, res.Valid)
	require.False(t, res.Entered)
	require.Empty(t, res.Reason)

	res = Check(Input{Kind: domain.ActionSupply, Amount: "   "})
	require.False(t, res.Entered)
	require.Empty(t, res.Reason)
}

func TestNonNumericInputHasNoReason(t *testing.T) {
	res := Check(Input{Kind: domain.ActionSupply, Amount: "abc", Balance: usdcBalance("100")})
	require.False(t, res.Valid)
	require.True(t, res.Entered)
	require.Empty(t, res.Reason)
}

func TestNonPositiveAmounts(t *testing.T) {
	for _, amount := range []string{"0", "-1", "-0.5"} {
		res := Check(Input{Kind: domain.ActionSupply, Amount: amount, Balance: usdcBalance("100")})
		require.False(t, res.Valid, amount)
		require.Equal(t, "Amount must be greater than 0", res.Reason)
	}
}

func TestSupplyAgainstWalletBalance(t *testing.T) {
	in := Input{Kind: domain.ActionSupply, Balance: usdcBalance("100")}

	in.Amount = "100"
	require.True(t, Check(in).Valid, "equality with the balance is admissible")

	in.Amount = "100.01"
	res := Check(in)
	require.False(t, res.Valid)
	require.Equal(t, "Insufficient USDC balance: 100 available", res.Reason)
}

func TestWithdrawAgainstSupplied(t *testing.T) {
	in := Input{
		Kind:     domain.ActionWithdraw,
		Balance:  usdcBalance("0"),
		Supplied: decimal.RequireFromString("50"),
	}

	in.Amount = "50"
	require.True(t, Check(in).Valid)

	in.Amount = "50.5"
	res := Check(in)
	require.False(t, res.Valid)
	require.Equal(t, "Amount exceeds supplied USDC: 50 supplied", res.Reason)
}

// Borrow checks with availableBorrows = 1000, so the advisory limit is 950:
//
//	950     -> valid (equality with the safe limit)
//	960     -> rejected by the safe limit
//	1000    -> rejected by the safe limit (equality with the hard ceiling)
//	1000.01 -> rejected by the hard ceiling
func TestBorrowLimits(t *testing.T) {
	in := Input{Kind: domain.ActionBorrow, Snapshot: snapshotWith("1000", "0")}

	in.Amount = "950"
	require.True(t, Check(in).Valid)

	in.Amount = "960"
	res := Check(in)
	require.False(t, res.Valid)
	require.Equal(t, "Amount exceeds safe borrow limit of 950 (95% of available)", res.Reason)

	in.Amount = "1000"
	res = Check(in)
	require.False(t, res.Valid)
	require.Equal(t, "Amount exceeds safe borrow limit of 950 (95% of available)", res.Reason)

	in.Amount = "1000.01"
	res = Check(in)
	require.False(t, res.Valid)
	require.Equal(t, "Amount exceeds available borrow capacity of 1000", res.Reason)
}

func TestRepayAgainstDebt(t *testing.T) {
	in := Input{Kind: domain.ActionRepay, Snapshot: snapshotWith("0", "200"), Balance: usdcBalance("500")}

	in.Amount = "200"
	require.True(t, Check(in).Valid)

	in.Amount = "200.01"
	res := Check(in)
	require.False(t, res.Valid)
	require.Equal(t, "Amount exceeds outstanding debt of 200", res.Reason)
}

func TestValidResultCarriesNoReason(t *testing.T) {
	res := Check(Input{Kind: domain.ActionSupply, Amount: "1", Balance: usdcBalance("10")})
	require.True(t, res.Valid)
	require.True(t, res.Entered)
	require.Empty(t, res.Reason)
}
