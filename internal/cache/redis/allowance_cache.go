package redis

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/halofi/halobot/internal/domain"
)

const allowanceTTL = 2 * time.Minute

// AllowanceCache implements domain.AllowanceCache. Allowances are stored as
// decimal strings at key "allowance:{account}:{asset}"; the spender is
// always the lending pool and is not part of the key.
type AllowanceCache struct {
	rdb *redis.Client
}

// NewAllowanceCache creates an AllowanceCache backed by the given Client.
func NewAllowanceCache(c *Client) *AllowanceCache {
	return &AllowanceCache{rdb: c.Underlying()}
}

func allowanceKey(account, asset string) string {
	return "allowance:" + strings.ToLower(account) + ":" + strings.ToLower(asset)
}

// Get retrieves the allowance for (account, asset). It returns
// domain.ErrNotFound when no entry exists.
func (ac *AllowanceCache) Get(ctx context.Context, account, asset string) (domain.Allowance, error) {
	val, err := ac.rdb.Get(ctx, allowanceKey(account, asset)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Allowance{}, domain.ErrNotFound
		}
		return domain.Allowance{}, fmt.Errorf("redis: get allowance %s/%s: %w", account, asset, err)
	}

	raw, ok := new(big.Int).SetString(val, 10)
	if !ok {
		return domain.Allowance{}, fmt.Errorf("redis: corrupt allowance %s/%s: %q", account, asset, val)
	}
	return domain.Allowance{Raw: raw}, nil
}

// Set stores a fully resolved allowance with the cache TTL.
func (ac *AllowanceCache) Set(ctx context.Context, account, asset string, a domain.Allowance) error {
	raw := a.Raw
	if raw == nil {
		raw = big.NewInt(0)
	}
	if err := ac.rdb.Set(ctx, allowanceKey(account, asset), raw.String(), allowanceTTL).Err(); err != nil {
		return fmt.Errorf("redis: set allowance %s/%s: %w", account, asset, err)
	}
	return nil
}

// Invalidate removes the allowance entry for (account, asset).
func (ac *AllowanceCache) Invalidate(ctx context.Context, account, asset string) error {
	if err := ac.rdb.Del(ctx, allowanceKey(account, asset)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate allowance %s/%s: %w", account, asset, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.AllowanceCache = (*AllowanceCache)(nil)
