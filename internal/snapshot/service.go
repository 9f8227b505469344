package snapshot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/halofi/halobot/internal/domain"
)

// Service is the read-through layer over ChainReader and the process-wide
// caches. A cache miss triggers a fresh read; a cache error other than a
// miss is logged and treated as a miss rather than surfacing, since the
// chain remains the source of truth.
type Service struct {
	reader     ChainReader
	positions  domain.PositionCache
	balances   domain.BalanceCache
	allowances domain.AllowanceCache
	logger     *slog.Logger
}

// NewService creates a Service over the given reader and caches.
func NewService(
	reader ChainReader,
	positions domain.PositionCache,
	balances domain.BalanceCache,
	allowances domain.AllowanceCache,
	logger *slog.Logger,
) *Service {
	return &Service{
		reader:     reader,
		positions:  positions,
		balances:   balances,
		allowances: allowances,
		logger:     logger.With(slog.String("component", "snapshot")),
	}
}

// Position returns the account's snapshot, reading through the cache.
func (s *Service) Position(ctx context.Context, account string) (domain.PositionSnapshot, error) {
	snap, err := s.positions.Get(ctx, account)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.WarnContext(ctx, "position cache read failed",
			slog.String("account", account),
			slog.String("error", err.Error()),
		)
	}

	snap, err = s.reader.AccountData(ctx, account)
	if err != nil {
		return domain.PositionSnapshot{}, err
	}

	if err := s.positions.Set(ctx, snap); err != nil {
		s.logger.WarnContext(ctx, "position cache write failed",
			slog.String("account", account),
			slog.String("error", err.Error()),
		)
	}
	return snap, nil
}

// Balance returns the account's wallet balance of asset, reading through the
// cache.
func (s *Service) Balance(ctx context.Context, account string, asset domain.Asset) (domain.TokenBalance, error) {
	bal, err := s.balances.Get(ctx, account, asset.Address)
	if err == nil {
		return bal, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.WarnContext(ctx, "balance cache read failed",
			slog.String("account", account),
			slog.String("asset", asset.Symbol),
			slog.String("error", err.Error()),
		)
	}

	bal, err = s.reader.Balance(ctx, account, asset)
	if err != nil {
		return domain.TokenBalance{}, err
	}

	if err := s.balances.Set(ctx, account, asset.Address, bal); err != nil {
		s.logger.WarnContext(ctx, "balance cache write failed",
			slog.String("account", account),
			slog.String("asset", asset.Symbol),
			slog.String("error", err.Error()),
		)
	}
	return bal, nil
}

// Allowance returns the account's lending-pool allowance for asset, reading
// through the cache.
func (s *Service) Allowance(ctx context.Context, account string, asset domain.Asset) (domain.Allowance, error) {
	a, err := s.allowances.Get(ctx, account, asset.Address)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.WarnContext(ctx, "allowance cache read failed",
			slog.String("account", account),
			slog.String("asset", asset.Symbol),
			slog.String("error", err.Error()),
		)
	}

	a, err = s.reader.Allowance(ctx, account, asset)
	if err != nil {
		return domain.Allowance{}, err
	}

	if err := s.allowances.Set(ctx, account, asset.Address, a); err != nil {
		s.logger.WarnContext(ctx, "allowance cache write failed",
			slog.String("account", account),
			slog.String("asset", asset.Symbol),
			slog.String("error", err.Error()),
		)
	}
	return a, nil
}

// InvalidatePosition drops the cached snapshot for account.
func (s *Service) InvalidatePosition(ctx context.Context, account string) error {
	return s.positions.Invalidate(ctx, account)
}

// InvalidateBalances drops every cached balance for account.
func (s *Service) InvalidateBalances(ctx context.Context, account string) error {
	return s.balances.InvalidateAccount(ctx, account)
}

// InvalidateAllowance drops the cached allowance for (account, asset).
func (s *Service) InvalidateAllowance(ctx context.Context, account, asset string) error {
	return s.allowances.Invalidate(ctx, account, asset)
}
