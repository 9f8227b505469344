package monitor

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/halofi/halobot/internal/cache/memory"
	"github.com/halofi/halobot/internal/domain"
)

const account = "0x00000000000000000000000000000000000000AA"

type fakePositions struct {
	mu   sync.Mutex
	snap domain.PositionSnapshot
}

func (f *fakePositions) Position(context.Context, string) (domain.PositionSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, nil
}

func (f *fakePositions) InvalidatePosition(context.Context, string) error { return nil }

func (f *fakePositions) setHealth(hf string, debt string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = domain.PositionSnapshot{
		Account:      account,
		TotalDebt:    decimal.RequireFromString(debt),
		HealthFactor: decimal.RequireFromString(hf),
	}
}

type fakeScanner struct {
	mu        sync.Mutex
	positions []domain.LiquidatablePosition
}

func (f *fakeScanner) Scan(context.Context) ([]domain.LiquidatablePosition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.LiquidatablePosition(nil), f.positions...), nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) Notify(_ context.Context, event, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeNotifier) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func newTestMonitor(pos *fakePositions, scan *fakeScanner, notes *fakeNotifier) *Monitor {
	return New(Config{
		Interval:             time.Minute,
		HealthAlertThreshold: decimal.RequireFromString("1.1"),
		Account:              account,
	}, pos, scan, notes, memory.NewSignalBus(), slog.Default())
}

func TestHealthAlertEdgeTriggered(t *testing.T) {
	pos := &fakePositions{}
	notes := &fakeNotifier{}
	m := newTestMonitor(pos, &fakeScanner{}, notes)
	ctx := context.Background()

	// Healthy: no alert.
	pos.setHealth("2.0", "100")
	m.tick(ctx)
	require.Empty(t, notes.sent())

	// Drops below threshold: one alert, not repeated on the next tick.
	pos.setHealth("1.05", "100")
	m.tick(ctx)
	m.tick(ctx)
	require.Equal(t, []string{"health_alert"}, notes.sent())

	// Recovers, then drops again: a new alert fires.
	pos.setHealth("1.5", "100")
	m.tick(ctx)
	pos.setHealth("1.02", "100")
	m.tick(ctx)
	require.Equal(t, []string{"health_alert", "health_alert"}, notes.sent())
}

func TestZeroDebtNeverAlerts(t *testing.T) {
	pos := &fakePositions{}
	notes := &fakeNotifier{}
	m := newTestMonitor(pos, &fakeScanner{}, notes)

	// Zero debt reports a zero health factor field, which is below the
	// threshold numerically but means "no debt at all".
	pos.setHealth("0", "0")
	m.tick(context.Background())
	require.Empty(t, notes.sent())
}

func TestLiquidationAlertPerBorrower(t *testing.T) {
	scan := &fakeScanner{}
	notes := &fakeNotifier{}
	m := newTestMonitor(&fakePositions{}, scan, notes)
	ctx := context.Background()

	underwater := domain.LiquidatablePosition{
		Borrower:        "0x00000000000000000000000000000000000000BB",
		Debt:            decimal.NewFromInt(200),
		HealthFactor:    decimal.RequireFromString("0.95"),
		MaxLiquidatable: decimal.NewFromInt(100),
	}

	scan.positions = []domain.LiquidatablePosition{underwater}
	m.tick(ctx)
	m.tick(ctx)
	require.Equal(t, []string{"liquidation_opportunity"}, notes.sent())

	// The borrower recovers and goes underwater again.
	scan.mu.Lock()
	scan.positions = nil
	scan.mu.Unlock()
	m.tick(ctx)

	scan.mu.Lock()
	scan.positions = []domain.LiquidatablePosition{underwater}
	scan.mu.Unlock()
	m.tick(ctx)
	require.Equal(t, []string{"liquidation_opportunity", "liquidation_opportunity"}, notes.sent())
}
