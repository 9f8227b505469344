// Package memory provides in-process implementations of the domain cache and
// signal-bus interfaces. They back tests and deployments that run without
// Redis; semantics (ErrNotFound on miss, explicit invalidation) match the
// Redis implementations.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/halofi/halobot/internal/domain"
)

// PositionCache is an in-process domain.PositionCache.
type PositionCache struct {
	mu   sync.RWMutex
	data map[string]domain.PositionSnapshot
}

// NewPositionCache creates an empty PositionCache.
func NewPositionCache() *PositionCache {
	return &PositionCache{data: make(map[string]domain.PositionSnapshot)}
}

func (pc *PositionCache) Get(_ context.Context, account string) (domain.PositionSnapshot, error) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	snap, ok := pc.data[strings.ToLower(account)]
	if !ok {
		return domain.PositionSnapshot{}, domain.ErrNotFound
	}
	return snap, nil
}

func (pc *PositionCache) Set(_ context.Context, snap domain.PositionSnapshot) error {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.data[strings.ToLower(snap.Account)] = snap
	return nil
}

func (pc *PositionCache) Invalidate(_ context.Context, account string) error {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	delete(pc.data, strings.ToLower(account))
	return nil
}

// BalanceCache is an in-process domain.BalanceCache keyed by
// account + ":" + asset, both lowercased.
type BalanceCache struct {
	mu   sync.RWMutex
	data map[string]domain.TokenBalance
}

// NewBalanceCache creates an empty BalanceCache.
func NewBalanceCache() *BalanceCache {
	return &BalanceCache{data: make(map[string]domain.TokenBalance)}
}

func balKey(account, asset string) string {
	return strings.ToLower(account) + ":" + strings.ToLower(asset)
}

func (bc *BalanceCache) Get(_ context.Context, account, asset string) (domain.TokenBalance, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	bal, ok := bc.data[balKey(account, asset)]
	if !ok {
		return domain.TokenBalance{}, domain.ErrNotFound
	}
	return bal, nil
}

func (bc *BalanceCache) Set(_ context.Context, account, asset string, bal domain.TokenBalance) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.data[balKey(account, asset)] = bal
	return nil
}

func (bc *BalanceCache) Invalidate(_ context.Context, account, asset string) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	delete(bc.data, balKey(account, asset))
	return nil
}

func (bc *BalanceCache) InvalidateAccount(_ context.Context, account string) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	prefix := strings.ToLower(account) + ":"
	for k := range bc.data {
		if strings.HasPrefix(k, prefix) {
			delete(bc.data, k)
		}
	}
	return nil
}

// AllowanceCache is an in-process domain.AllowanceCache.
type AllowanceCache struct {
	mu   sync.RWMutex
	data map[string]domain.Allowance
}

// NewAllowanceCache creates an empty AllowanceCache.
func NewAllowanceCache() *AllowanceCache {
	return &AllowanceCache{data: make(map[string]domain.Allowance)}
}

func (ac *AllowanceCache) Get(_ context.Context, account, asset string) (domain.Allowance, error) {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	a, ok := ac.data[balKey(account, asset)]
	if !ok {
		return domain.Allowance{}, domain.ErrNotFound
	}
	return a, nil
}

func (ac *AllowanceCache) Set(_ context.Context, account, asset string, a domain.Allowance) error {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.data[balKey(account, asset)] = a
	return nil
}

func (ac *AllowanceCache) Invalidate(_ context.Context, account, asset string) error {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	delete(ac.data, balKey(account, asset))
	return nil
}

// SignalBus is an in-process domain.SignalBus. Subscribers receive every
// message published to a channel they subscribed to; slow subscribers drop
// messages rather than block publishers.
type SignalBus struct {
	mu   sync.RWMutex
	subs map[string][]chan domain.BusMessage
}

// NewSignalBus creates an empty SignalBus.
func NewSignalBus() *SignalBus {
	return &SignalBus{subs: make(map[string][]chan domain.BusMessage)}
}

func (sb *SignalBus) Publish(_ context.Context, channel string, payload []byte) error {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	for _, ch := range sb.subs[channel] {
		select {
		case ch <- domain.BusMessage{Channel: channel, Payload: payload}:
		default:
		}
	}
	return nil
}

func (sb *SignalBus) Subscribe(ctx context.Context, channels ...string) (<-chan domain.BusMessage, error) {
	ch := make(chan domain.BusMessage, 128)

	sb.mu.Lock()
	for _, c := range channels {
		sb.subs[c] = append(sb.subs[c], ch)
	}
	sb.mu.Unlock()

	go func() {
		<-ctx.Done()
		sb.mu.Lock()
		for _, c := range channels {
			list := sb.subs[c]
			for i, s := range list {
				if s == ch {
					sb.subs[c] = append(list[:i], list[i+1:]...)
					break
				}
			}
		}
		sb.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// RateLimiter is an in-process fixed-window domain.RateLimiter.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
}

type rateWindow struct {
	start time.Time
	count int
}

// NewRateLimiter creates an empty RateLimiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{windows: make(map[string]*rateWindow)}
}

// Allow counts a request against the key's window and reports whether it is
// within the limit.
func (rl *RateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= window {
		w = &rateWindow{start: now}
		rl.windows[key] = w
	}
	w.count++
	return w.count <= limit, nil
}

// Compile-time interface checks.
var (
	_ domain.PositionCache  = (*PositionCache)(nil)
	_ domain.BalanceCache   = (*BalanceCache)(nil)
	_ domain.AllowanceCache = (*AllowanceCache)(nil)
	_ domain.SignalBus      = (*SignalBus)(nil)
	_ domain.RateLimiter    = (*RateLimiter)(nil)
)
