// Package snapshot normalizes raw on-chain position, balance and allowance
// data into typed decimal values and serves them through the process-wide
// caches. Caches are filled only from fully resolved reads; a confirmed
// transaction invalidates, never patches.
package snapshot

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/halofi/halobot/internal/chain"
	"github.com/halofi/halobot/internal/domain"
)

// ChainReader is the read-only contract surface the service needs. The
// production implementation is ChainSource; tests substitute fakes.
type ChainReader interface {
	AccountData(ctx context.Context, account string) (domain.PositionSnapshot, error)
	Balance(ctx context.Context, account string, asset domain.Asset) (domain.TokenBalance, error)
	Allowance(ctx context.Context, account string, asset domain.Asset) (domain.Allowance, error)
}

// ChainSource reads the lending pool and token contracts directly.
type ChainSource struct {
	pool   *chain.LendingPool
	tokens map[string]*chain.ERC20 // keyed by lowercase asset address
}

// NewChainSource binds one ERC20 per configured asset.
func NewChainSource(pool *chain.LendingPool, client *chain.Client, assets []domain.Asset) *ChainSource {
	tokens := make(map[string]*chain.ERC20, len(assets))
	for _, a := range assets {
		addr := common.HexToAddress(a.Address)
		tokens[lowerAddr(a.Address)] = chain.NewERC20(addr, client)
	}
	return &ChainSource{pool: pool, tokens: tokens}
}

func lowerAddr(s string) string {
	return common.HexToAddress(s).Hex()
}

// AccountData reads getUserAccountData and scales every field. Collateral,
// debt and available borrows use the protocol's base-currency decimals, not
// any asset's own decimals. The on-chain health factor sentinel for "no
// debt" is dropped here: a zero-debt snapshot reports a zero HealthFactor
// field and HealthFactorInfinite() true.
func (s *ChainSource) AccountData(ctx context.Context, account string) (domain.PositionSnapshot, error) {
	if account == "" {
		return domain.PositionSnapshot{}, domain.ErrNotConnected
	}

	data, err := s.pool.GetUserAccountData(ctx, common.HexToAddress(account))
	if err != nil {
		return domain.PositionSnapshot{}, fmt.Errorf("%w: position for %s: %v", domain.ErrReadFailed, account, err)
	}

	snap := domain.PositionSnapshot{
		Account:              lowerAddr(account),
		TotalCollateral:      chain.ToDecimal(data.TotalCollateralBase, domain.BaseCurrencyDecimals),
		TotalDebt:            chain.ToDecimal(data.TotalDebtBase, domain.BaseCurrencyDecimals),
		AvailableBorrows:     chain.ToDecimal(data.AvailableBorrowsBase, domain.BaseCurrencyDecimals),
		LTV:                  chain.PercentFromScaled(data.LTV),
		LiquidationThreshold: chain.PercentFromScaled(data.CurrentLiquidationThreshold),
	}
	if !snap.TotalDebt.IsZero() {
		snap.HealthFactor = chain.ToDecimal(data.HealthFactor, domain.HealthFactorDecimals)
	}
	return snap, nil
}

// Balance reads the account's wallet balance of asset.
func (s *ChainSource) Balance(ctx context.Context, account string, asset domain.Asset) (domain.TokenBalance, error) {
	if account == "" {
		return domain.TokenBalance{}, domain.ErrNotConnected
	}

	token, ok := s.tokens[lowerAddr(asset.Address)]
	if !ok {
		return domain.TokenBalance{}, fmt.Errorf("snapshot: unsupported asset %s", asset.Symbol)
	}

	raw, err := token.BalanceOf(ctx, common.HexToAddress(account))
	if err != nil {
		return domain.TokenBalance{}, fmt.Errorf("%w: balance of %s for %s: %v", domain.ErrReadFailed, asset.Symbol, account, err)
	}

	return domain.TokenBalance{
		Raw:      raw,
		Decimals: asset.Decimals,
		Symbol:   asset.Symbol,
		Amount:   chain.ToDecimal(raw, asset.Decimals),
	}, nil
}

// Allowance reads the account's allowance for asset with the lending pool as
// spender.
func (s *ChainSource) Allowance(ctx context.Context, account string, asset domain.Asset) (domain.Allowance, error) {
	if account == "" {
		return domain.Allowance{}, domain.ErrNotConnected
	}

	token, ok := s.tokens[lowerAddr(asset.Address)]
	if !ok {
		return domain.Allowance{}, fmt.Errorf("snapshot: unsupported asset %s", asset.Symbol)
	}

	raw, err := token.Allowance(ctx, common.HexToAddress(account), s.pool.Address())
	if err != nil {
		return domain.Allowance{}, fmt.Errorf("%w: allowance of %s for %s: %v", domain.ErrReadFailed, asset.Symbol, account, err)
	}
	return domain.Allowance{Raw: raw}, nil
}

// Compile-time interface check.
var _ ChainReader = (*ChainSource)(nil)
