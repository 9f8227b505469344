package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/halofi/halobot/internal/domain"
)

const balanceTTL = 2 * time.Minute

// BalanceCache implements domain.BalanceCache using JSON-serialized balances
// at key "balance:{account}:{asset}".
type BalanceCache struct {
	rdb *redis.Client
}

// NewBalanceCache creates a BalanceCache backed by the given Client.
func NewBalanceCache(c *Client) *BalanceCache {
	return &BalanceCache{rdb: c.Underlying()}
}

func balanceKey(account, asset string) string {
	return "balance:" + strings.ToLower(account) + ":" + strings.ToLower(asset)
}

// Get retrieves the balance for (account, asset). It returns
// domain.ErrNotFound when no entry exists.
func (bc *BalanceCache) Get(ctx context.Context, account, asset string) (domain.TokenBalance, error) {
	data, err := bc.rdb.Get(ctx, balanceKey(account, asset)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.TokenBalance{}, domain.ErrNotFound
		}
		return domain.TokenBalance{}, fmt.Errorf("redis: get balance %s/%s: %w", account, asset, err)
	}

	var bal domain.TokenBalance
	if err := json.Unmarshal(data, &bal); err != nil {
		return domain.TokenBalance{}, fmt.Errorf("redis: unmarshal balance %s/%s: %w", account, asset, err)
	}
	return bal, nil
}

// Set stores a fully resolved balance with the cache TTL.
func (bc *BalanceCache) Set(ctx context.Context, account, asset string, bal domain.TokenBalance) error {
	data, err := json.Marshal(bal)
	if err != nil {
		return fmt.Errorf("redis: marshal balance %s/%s: %w", account, asset, err)
	}
	if err := bc.rdb.Set(ctx, balanceKey(account, asset), data, balanceTTL).Err(); err != nil {
		return fmt.Errorf("redis: set balance %s/%s: %w", account, asset, err)
	}
	return nil
}

// Invalidate removes the balance entry for (account, asset).
func (bc *BalanceCache) Invalidate(ctx context.Context, account, asset string) error {
	if err := bc.rdb.Del(ctx, balanceKey(account, asset)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate balance %s/%s: %w", account, asset, err)
	}
	return nil
}

// InvalidateAccount removes every balance entry for the account.
func (bc *BalanceCache) InvalidateAccount(ctx context.Context, account string) error {
	pattern := "balance:" + strings.ToLower(account) + ":*"

	iter := bc.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis: scan balances %s: %w", account, err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := bc.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis: invalidate balances %s: %w", account, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.BalanceCache = (*BalanceCache)(nil)
