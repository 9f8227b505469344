package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/halofi/halobot/internal/domain"
	"github.com/halofi/halobot/internal/risk"
)

// LiquidationScanner surfaces liquidatable positions from the watch list.
type LiquidationScanner interface {
	Scan(ctx context.Context) ([]domain.LiquidatablePosition, error)
}

// LiquidationHandler serves liquidation opportunity endpoints.
type LiquidationHandler struct {
	scanner LiquidationScanner
	logger  *slog.Logger
}

// NewLiquidationHandler creates a LiquidationHandler.
func NewLiquidationHandler(scanner LiquidationScanner, logger *slog.Logger) *LiquidationHandler {
	return &LiquidationHandler{scanner: scanner, logger: logger}
}

// liquidationEntry augments a position with the estimated profit of covering
// the maximum liquidatable amount.
type liquidationEntry struct {
	domain.LiquidatablePosition
	EstimatedProfit decimal.Decimal `json:"estimatedProfit"`
}

// listLiquidationsResponse wraps the liquidations response.
type listLiquidationsResponse struct {
	Liquidations []liquidationEntry `json:"liquidations"`
}

// ListLiquidations scans the watch list and returns every liquidatable
// position with its economics.
// GET /api/liquidations
func (h *LiquidationHandler) ListLiquidations(w http.ResponseWriter, r *http.Request) {
	positions, err := h.scanner.Scan(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: liquidation scan failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "liquidation scan failed")
		return
	}

	entries := make([]liquidationEntry, 0, len(positions))
	for _, p := range positions {
		entries = append(entries, liquidationEntry{
			LiquidatablePosition: p,
			EstimatedProfit:      risk.LiquidationProfit(p.MaxLiquidatable),
		})
	}

	writeJSON(w, http.StatusOK, listLiquidationsResponse{Liquidations: entries})
}
