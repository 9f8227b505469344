// Package monitor runs the background watch loop: it refreshes the agent's
// own position, raises a health alert when the health factor drops below the
// configured threshold, and scans the borrower watch list for liquidation
// opportunities.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/halofi/halobot/internal/domain"
	"github.com/halofi/halobot/internal/notify"
	"github.com/halofi/halobot/internal/risk"
)

// PositionReader is the slice of the snapshot service the monitor needs.
type PositionReader interface {
	Position(ctx context.Context, account string) (domain.PositionSnapshot, error)
	InvalidatePosition(ctx context.Context, account string) error
}

// Scanner surfaces liquidatable positions from the watch list.
type Scanner interface {
	Scan(ctx context.Context) ([]domain.LiquidatablePosition, error)
}

// Notifier delivers operator alerts.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// Config holds the monitor loop parameters.
type Config struct {
	Interval             time.Duration
	HealthAlertThreshold decimal.Decimal
	Account              string
}

// Monitor owns the periodic watch loop. Alerts are edge-triggered: one
// notification when a condition appears, another only after it clears and
// reappears.
type Monitor struct {
	cfg       Config
	positions PositionReader
	scanner   Scanner
	notifier  Notifier
	bus       domain.SignalBus
	logger    *slog.Logger

	healthAlerted bool
	flagged       map[string]bool // borrowers already reported liquidatable
}

// New creates a Monitor.
func New(
	cfg Config,
	positions PositionReader,
	scanner Scanner,
	notifier Notifier,
	bus domain.SignalBus,
	logger *slog.Logger,
) *Monitor {
	return &Monitor{
		cfg:       cfg,
		positions: positions,
		scanner:   scanner,
		notifier:  notifier,
		bus:       bus,
		logger:    logger.With(slog.String("component", "monitor")),
		flagged:   make(map[string]bool),
	}
}

// Run executes the watch loop until the context is cancelled. The first
// tick runs immediately.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	m.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

func (m *Monitor) tick(ctx context.Context) {
	m.checkHealth(ctx)
	m.scanLiquidations(ctx)
}

// checkHealth refreshes the agent's position and raises or clears the
// health alert. The cache entry is dropped first so the read reflects the
// chain, not a snapshot from the previous tick.
func (m *Monitor) checkHealth(ctx context.Context) {
	if m.cfg.Account == "" {
		return
	}

	if err := m.positions.InvalidatePosition(ctx, m.cfg.Account); err != nil {
		m.logger.DebugContext(ctx, "position invalidation failed",
			slog.String("error", err.Error()),
		)
	}

	snap, err := m.positions.Position(ctx, m.cfg.Account)
	if err != nil {
		m.logger.WarnContext(ctx, "position refresh failed",
			slog.String("error", err.Error()),
		)
		return
	}

	if snap.HealthFactorInfinite() || snap.HealthFactor.GreaterThanOrEqual(m.cfg.HealthAlertThreshold) {
		m.healthAlerted = false
		return
	}

	if m.healthAlerted {
		return
	}
	m.healthAlerted = true

	m.logger.WarnContext(ctx, "health factor below threshold",
		slog.String("health_factor", snap.HealthFactor.String()),
		slog.String("threshold", m.cfg.HealthAlertThreshold.String()),
	)

	msg := fmt.Sprintf("Health factor %s is below %s. Add collateral or repay debt to avoid liquidation.",
		snap.HealthFactor, m.cfg.HealthAlertThreshold)
	if err := m.notifier.Notify(ctx, notify.EventHealthAlert, "Health factor warning", msg); err != nil {
		m.logger.WarnContext(ctx, "health notification failed",
			slog.String("error", err.Error()),
		)
	}

	m.publishAlert(ctx, map[string]any{
		"type":         "health",
		"account":      snap.Account,
		"healthFactor": snap.HealthFactor,
		"threshold":    m.cfg.HealthAlertThreshold,
	})
}

// scanLiquidations reports newly liquidatable watch-list positions and
// forgets borrowers that have recovered.
func (m *Monitor) scanLiquidations(ctx context.Context) {
	if m.scanner == nil {
		return
	}

	positions, err := m.scanner.Scan(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "liquidation scan failed",
			slog.String("error", err.Error()),
		)
		return
	}

	seen := make(map[string]bool, len(positions))
	for _, p := range positions {
		seen[p.Borrower] = true
		if m.flagged[p.Borrower] {
			continue
		}
		m.flagged[p.Borrower] = true

		m.logger.InfoContext(ctx, "liquidatable position found",
			slog.String("borrower", p.Borrower),
			slog.String("health_factor", p.HealthFactor.String()),
			slog.String("max_liquidatable", p.MaxLiquidatable.String()),
		)

		msg := fmt.Sprintf("Borrower %s has health factor %s. Up to %s of debt can be covered for an estimated profit of %s.",
			p.Borrower, p.HealthFactor, p.MaxLiquidatable, risk.LiquidationProfit(p.MaxLiquidatable))
		if err := m.notifier.Notify(ctx, notify.EventLiquidation, "Liquidation opportunity", msg); err != nil {
			m.logger.WarnContext(ctx, "liquidation notification failed",
				slog.String("error", err.Error()),
			)
		}

		m.publishAlert(ctx, map[string]any{
			"type":            "liquidation",
			"borrower":        p.Borrower,
			"healthFactor":    p.HealthFactor,
			"maxLiquidatable": p.MaxLiquidatable,
			"bonus":           p.Bonus,
		})
	}

	for borrower := range m.flagged {
		if !seen[borrower] {
			delete(m.flagged, borrower)
		}
	}
}

func (m *Monitor) publishAlert(ctx context.Context, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := m.bus.Publish(ctx, domain.ChannelAlerts, data); err != nil {
		m.logger.DebugContext(ctx, "bus publish failed",
			slog.String("error", err.Error()),
		)
	}
}
