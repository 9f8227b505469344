package txflow

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halofi/halobot/internal/domain"
)

func TestNeedsApproval(t *testing.T) {
	zero := domain.Allowance{Raw: big.NewInt(0)}
	nonzero := domain.Allowance{Raw: big.NewInt(1)}

	// Token-spending actions behind the allowance gate.
	for _, kind := range []domain.ActionKind{domain.ActionSupply, domain.ActionRepay, domain.ActionLiquidate} {
		require.True(t, NeedsApproval(kind, zero), kind)
		require.False(t, NeedsApproval(kind, nonzero), kind)
	}

	// Actions that move no tokens out of the wallet never need approval.
	for _, kind := range []domain.ActionKind{domain.ActionWithdraw, domain.ActionBorrow, domain.ActionRegister, domain.ActionSetCollateral} {
		require.False(t, NeedsApproval(kind, zero), kind)
	}
}

func TestNilAllowanceCountsAsZero(t *testing.T) {
	require.True(t, NeedsApproval(domain.ActionSupply, domain.Allowance{}))
}
