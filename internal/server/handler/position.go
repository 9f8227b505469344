package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/halofi/halobot/internal/domain"
	"github.com/halofi/halobot/internal/risk"
)

// SnapshotService defines the reads the position handler requires.
type SnapshotService interface {
	Position(ctx context.Context, account string) (domain.PositionSnapshot, error)
	Balance(ctx context.Context, account string, asset domain.Asset) (domain.TokenBalance, error)
	Allowance(ctx context.Context, account string, asset domain.Asset) (domain.Allowance, error)
}

// PositionHandler serves account position and balance endpoints.
type PositionHandler struct {
	snapshots SnapshotService
	assets    []domain.Asset
	account   string
	logger    *slog.Logger
}

// NewPositionHandler creates a PositionHandler. account is the agent's own
// address, used when no account query parameter is given.
func NewPositionHandler(snapshots SnapshotService, assets []domain.Asset, account string, logger *slog.Logger) *PositionHandler {
	return &PositionHandler{
		snapshots: snapshots,
		assets:    assets,
		account:   account,
		logger:    logger,
	}
}

// positionResponse augments the raw snapshot with the advisory figures
// derived from it.
type positionResponse struct {
	domain.PositionSnapshot
	HealthFactorInfinite bool            `json:"healthFactorInfinite"`
	SafeBorrowLimit      decimal.Decimal `json:"safeBorrowLimit"`
	Liquidatable         bool            `json:"liquidatable"`
}

// GetPosition returns the aggregate lending position for an account.
// GET /api/position?account=0x...
func (h *PositionHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	account := accountParam(r, h.account)
	if account == "" {
		writeError(w, http.StatusBadRequest, "account query parameter required")
		return
	}

	snap, err := h.snapshots.Position(r.Context(), account)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: position read failed",
			slog.String("account", account),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "failed to read position")
		return
	}

	writeJSON(w, http.StatusOK, positionResponse{
		PositionSnapshot:     snap,
		HealthFactorInfinite: snap.HealthFactorInfinite(),
		SafeBorrowLimit:      risk.SafeBorrowLimit(snap.AvailableBorrows),
		Liquidatable:         snap.Liquidatable(),
	})
}

// balanceEntry is one asset's wallet balance and pool allowance.
type balanceEntry struct {
	Symbol        string          `json:"symbol"`
	Address       string          `json:"address"`
	Balance       decimal.Decimal `json:"balance"`
	AllowanceZero bool            `json:"allowanceZero"`
}

// listBalancesResponse wraps the balances response.
type listBalancesResponse struct {
	Account  string         `json:"account"`
	Balances []balanceEntry `json:"balances"`
}

// ListBalances returns wallet balances and allowance state for every
// configured asset.
// GET /api/balances?account=0x...
func (h *PositionHandler) ListBalances(w http.ResponseWriter, r *http.Request) {
	account := accountParam(r, h.account)
	if account == "" {
		writeError(w, http.StatusBadRequest, "account query parameter required")
		return
	}

	entries := make([]balanceEntry, 0, len(h.assets))
	for _, asset := range h.assets {
		bal, err := h.snapshots.Balance(r.Context(), account, asset)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "handler: balance read failed",
				slog.String("account", account),
				slog.String("asset", asset.Symbol),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusBadGateway, "failed to read balances")
			return
		}

		allowance, err := h.snapshots.Allowance(r.Context(), account, asset)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "handler: allowance read failed",
				slog.String("account", account),
				slog.String("asset", asset.Symbol),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusBadGateway, "failed to read balances")
			return
		}

		entries = append(entries, balanceEntry{
			Symbol:        asset.Symbol,
			Address:       asset.Address,
			Balance:       bal.Amount,
			AllowanceZero: allowance.IsZero(),
		})
	}

	writeJSON(w, http.StatusOK, listBalancesResponse{
		Account:  account,
		Balances: entries,
	})
}
