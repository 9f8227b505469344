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

// positionTTL bounds how long a snapshot can serve reads before a cold
// re-fetch. Confirmed transactions invalidate explicitly well before this.
const positionTTL = 2 * time.Minute

// PositionCache implements domain.PositionCache using JSON-serialized
// snapshots at key "position:{account}".
type PositionCache struct {
	rdb *redis.Client
}

// NewPositionCache creates a PositionCache backed by the given Client.
func NewPositionCache(c *Client) *PositionCache {
	return &PositionCache{rdb: c.Underlying()}
}

func positionKey(account string) string {
	return "position:" + strings.ToLower(account)
}

// Get retrieves the snapshot for account. It returns domain.ErrNotFound when
// no entry exists.
func (pc *PositionCache) Get(ctx context.Context, account string) (domain.PositionSnapshot, error) {
	data, err := pc.rdb.Get(ctx, positionKey(account)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.PositionSnapshot{}, domain.ErrNotFound
		}
		return domain.PositionSnapshot{}, fmt.Errorf("redis: get position %s: %w", account, err)
	}

	var snap domain.PositionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.PositionSnapshot{}, fmt.Errorf("redis: unmarshal position %s: %w", account, err)
	}
	return snap, nil
}

// Set stores a fully resolved snapshot with the cache TTL.
func (pc *PositionCache) Set(ctx context.Context, snap domain.PositionSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: marshal position %s: %w", snap.Account, err)
	}
	if err := pc.rdb.Set(ctx, positionKey(snap.Account), data, positionTTL).Err(); err != nil {
		return fmt.Errorf("redis: set position %s: %w", snap.Account, err)
	}
	return nil
}

// Invalidate removes the account's snapshot.
func (pc *PositionCache) Invalidate(ctx context.Context, account string) error {
	if err := pc.rdb.Del(ctx, positionKey(account)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate position %s: %w", account, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.PositionCache = (*PositionCache)(nil)
