// Package liquidation scans a configured borrower watch list for positions
// whose health factor has dropped below 1.0 and computes the liquidation
// economics the protocol fixes: at most half the debt per call, 5% bonus.
package liquidation

import (
	"context"
	"log/slog"

	"github.com/halofi/halobot/internal/domain"
	"github.com/halofi/halobot/internal/risk"
	"github.com/halofi/halobot/internal/snapshot"
)

// Scanner reads each watched borrower's account data and flags liquidatable
// positions. Reads go straight to the chain: watched borrowers are third
// parties whose state the process-wide account caches do not track.
type Scanner struct {
	reader    snapshot.ChainReader
	borrowers []string
	logger    *slog.Logger
}

// NewScanner creates a Scanner over the given borrower addresses.
func NewScanner(reader snapshot.ChainReader, borrowers []string, logger *slog.Logger) *Scanner {
	return &Scanner{
		reader:    reader,
		borrowers: borrowers,
		logger:    logger.With(slog.String("component", "liquidation")),
	}
}

// Scan returns every watched position that is currently liquidatable. A
// failed read for one borrower is logged and skipped; it never aborts the
// scan or masquerades as a healthy position.
func (s *Scanner) Scan(ctx context.Context) ([]domain.LiquidatablePosition, error) {
	out := make([]domain.LiquidatablePosition, 0)

	for _, borrower := range s.borrowers {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		snap, err := s.reader.AccountData(ctx, borrower)
		if err != nil {
			s.logger.WarnContext(ctx, "borrower read failed",
				slog.String("borrower", borrower),
				slog.String("error", err.Error()),
			)
			continue
		}

		if !snap.Liquidatable() {
			continue
		}

		out = append(out, domain.LiquidatablePosition{
			Borrower:        snap.Account,
			Collateral:      snap.TotalCollateral,
			Debt:            snap.TotalDebt,
			HealthFactor:    snap.HealthFactor,
			MaxLiquidatable: risk.MaxLiquidatable(snap.TotalDebt),
			Bonus:           risk.BonusPercent,
		})
	}

	return out, nil
}
