package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/halofi/halobot/internal/domain"
)

const account = "0x00000000000000000000000000000000000000AA"

func TestPositionCacheMissAndHit(t *testing.T) {
	pc := NewPositionCache()
	ctx := context.Background()

	_, err := pc.Get(ctx, account)
	require.ErrorIs(t, err, domain.ErrNotFound)

	snap := domain.PositionSnapshot{
		Account:      account,
		TotalDebt:    decimal.NewFromInt(100),
		HealthFactor: decimal.NewFromInt(2),
	}
	require.NoError(t, pc.Set(ctx, snap))

	got, err := pc.Get(ctx, account)
	require.NoError(t, err)
	require.True(t, got.TotalDebt.Equal(snap.TotalDebt))

	require.NoError(t, pc.Invalidate(ctx, account))
	_, err = pc.Get(ctx, account)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBalanceCacheInvalidateAccount(t *testing.T) {
	bc := NewBalanceCache()
	ctx := context.Background()

	assetA := "0x0000000000000000000000000000000000000001"
	assetB := "0x0000000000000000000000000000000000000002"
	other := "0x00000000000000000000000000000000000000BB"

	require.NoError(t, bc.Set(ctx, account, assetA, domain.TokenBalance{Symbol: "A"}))
	require.NoError(t, bc.Set(ctx, account, assetB, domain.TokenBalance{Symbol: "B"}))
	require.NoError(t, bc.Set(ctx, other, assetA, domain.TokenBalance{Symbol: "A"}))

	require.NoError(t, bc.InvalidateAccount(ctx, account))

	_, err := bc.Get(ctx, account, assetA)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = bc.Get(ctx, account, assetB)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Other accounts are untouched.
	_, err = bc.Get(ctx, other, assetA)
	require.NoError(t, err)
}

func TestSignalBusDelivers(t *testing.T) {
	bus := NewSignalBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx, domain.ChannelTransactions)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, domain.ChannelTransactions, []byte(`{"state":"pending"}`)))
	require.NoError(t, bus.Publish(ctx, domain.ChannelAlerts, []byte(`ignored`)))

	select {
	case msg := <-ch:
		require.Equal(t, domain.ChannelTransactions, msg.Channel)
		require.JSONEq(t, `{"state":"pending"}`, string(msg.Payload))
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}

	// The alerts publish went to a channel this subscriber did not join.
	select {
	case msg := <-ch:
		t.Fatalf("unexpected message on %s", msg.Channel)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := rl.Allow(ctx, "client", 3, time.Minute)
		require.NoError(t, err)
		require.True(t, ok, "request %d", i)
	}

	ok, err := rl.Allow(ctx, "client", 3, time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	// A different key has its own window.
	ok, err = rl.Allow(ctx, "other", 3, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}
