package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/halofi/halobot/internal/cache/memory"
	"github.com/halofi/halobot/internal/cache/redis"
	"github.com/halofi/halobot/internal/chain"
	"github.com/halofi/halobot/internal/config"
	"github.com/halofi/halobot/internal/domain"
	"github.com/halofi/halobot/internal/liquidation"
	"github.com/halofi/halobot/internal/notify"
	"github.com/halofi/halobot/internal/registry"
	"github.com/halofi/halobot/internal/snapshot"
	"github.com/halofi/halobot/internal/txflow"
)

// Dependencies bundles everything the application modes need. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Chain bindings.
	Client   *chain.Client
	Pool     *chain.LendingPool
	Registry *chain.IdentityRegistry
	Signer   *chain.Signer // nil in read-only deployments

	// Caches and bus.
	PositionCache  domain.PositionCache
	BalanceCache   domain.BalanceCache
	AllowanceCache domain.AllowanceCache
	SignalBus      domain.SignalBus
	RateLimiter    domain.RateLimiter

	// Services.
	Snapshots    *snapshot.Service
	Controller   *txflow.Controller
	Registration *registry.Service
	Scanner      *liquidation.Scanner
	Notifier     *notify.Notifier

	// Assets is the configured asset universe; Account is the agent's own
	// address, empty when no signing key is configured.
	Assets  []domain.Asset
	Account string
}

// domainAssets converts the configured asset list to domain values.
func domainAssets(cfg *config.Config) []domain.Asset {
	out := make([]domain.Asset, 0, len(cfg.Contracts.Assets))
	for _, a := range cfg.Contracts.Assets {
		out = append(out, domain.Asset{
			Symbol:               a.Symbol,
			Address:              a.Address,
			Decimals:             a.Decimals,
			LTV:                  decimal.NewFromFloat(a.LTV),
			LiquidationThreshold: decimal.NewFromFloat(a.LiquidationThreshold),
		})
	}
	return out
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them with a cleanup function to be called on
// shutdown. When no Redis address is configured, caches and the signal bus
// fall back to in-process implementations.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Assets: domainAssets(cfg),
	}

	// --- Caches: Redis when configured, in-process otherwise ---
	if cfg.Redis.Addr != "" {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.PositionCache = redis.NewPositionCache(redisClient)
		deps.BalanceCache = redis.NewBalanceCache(redisClient)
		deps.AllowanceCache = redis.NewAllowanceCache(redisClient)
		deps.SignalBus = redis.NewSignalBus(redisClient)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
	} else {
		logger.InfoContext(ctx, "no redis address configured, using in-process caches")
		deps.PositionCache = memory.NewPositionCache()
		deps.BalanceCache = memory.NewBalanceCache()
		deps.AllowanceCache = memory.NewAllowanceCache()
		deps.SignalBus = memory.NewSignalBus()
		deps.RateLimiter = memory.NewRateLimiter()
	}

	// --- Chain ---
	client, err := chain.Dial(ctx, cfg.Chain.RPCURL, cfg.Chain.ChainID)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: chain: %w", err)
	}
	closers = append(closers, client.Close)
	deps.Client = client

	deps.Pool = chain.NewLendingPool(common.HexToAddress(cfg.Contracts.LendingPool), client)
	deps.Registry = chain.NewIdentityRegistry(common.HexToAddress(cfg.Contracts.Registry), client)

	// --- Signer (optional; read-only without one) ---
	if cfg.Wallet.PrivateKey != "" || cfg.Wallet.EncryptedKeyPath != "" {
		signer, err := chain.NewSigner(chain.KeyConfig{
			RawPrivateKey:    cfg.Wallet.PrivateKey,
			EncryptedKeyPath: cfg.Wallet.EncryptedKeyPath,
			KeyPassword:      cfg.Wallet.KeyPassword,
		}, cfg.Chain.ChainID)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: signer: %w", err)
		}
		deps.Signer = signer
		deps.Account = signer.Address().Hex()
		logger.InfoContext(ctx, "signing key loaded",
			slog.String("address", deps.Account),
		)
	} else {
		logger.InfoContext(ctx, "no signing key configured, running read-only")
	}

	// --- Services ---
	source := snapshot.NewChainSource(deps.Pool, client, deps.Assets)
	deps.Snapshots = snapshot.NewService(
		source,
		deps.PositionCache,
		deps.BalanceCache,
		deps.AllowanceCache,
		logger,
	)

	deps.Registration = registry.NewService(deps.Registry, logger)
	deps.Scanner = liquidation.NewScanner(source, cfg.Monitor.Borrowers, logger)

	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	watcher := chain.NewWatcher(client, logger)
	submitter := txflow.NewChainSubmitter(
		deps.Pool,
		client,
		deps.Registry,
		deps.Signer,
		watcher,
		deps.Assets,
	)
	deps.Controller = txflow.NewController(
		submitter,
		deps.Snapshots,
		deps.SignalBus,
		deps.Notifier,
		deps.Account,
		logger,
	)

	return deps, cleanup, nil
}
