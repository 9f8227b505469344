package domain

import (
	"context"
	"time"
)

// PositionCache stores the latest position snapshot per account. Writers
// must only store fully resolved reads; no partial or optimistic updates.
type PositionCache interface {
	Get(ctx context.Context, account string) (PositionSnapshot, error)
	Set(ctx context.Context, snap PositionSnapshot) error
	Invalidate(ctx context.Context, account string) error
}

// BalanceCache stores token balances keyed by (account, asset address).
type BalanceCache interface {
	Get(ctx context.Context, account, asset string) (TokenBalance, error)
	Set(ctx context.Context, account, asset string, bal TokenBalance) error
	Invalidate(ctx context.Context, account, asset string) error
	// InvalidateAccount drops every balance entry for the account.
	InvalidateAccount(ctx context.Context, account string) error
}

// AllowanceCache stores lending-pool allowances keyed by (account, asset
// address). The spender is fixed to the lending pool, so it is not part of
// the key.
type AllowanceCache interface {
	Get(ctx context.Context, account, asset string) (Allowance, error)
	Set(ctx context.Context, account, asset string, a Allowance) error
	Invalidate(ctx context.Context, account, asset string) error
}

// SignalBus provides pub/sub fan-out for lifecycle and alert events.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channels ...string) (<-chan BusMessage, error)
}

// RateLimiter bounds how often a keyed operation may run inside a rolling
// window. Used by the HTTP API for per-client limits.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// BusMessage is one message delivered by a SignalBus subscription.
type BusMessage struct {
	Channel string
	Payload []byte
}

// Bus channel names.
const (
	ChannelTransactions = "transactions"
	ChannelAlerts       = "alerts"
)
