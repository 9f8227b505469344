package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/halofi/halobot/internal/risk"
)

// ReputationHandler serves the demo reputation endpoint.
type ReputationHandler struct {
	logger *slog.Logger
}

// NewReputationHandler creates a ReputationHandler.
func NewReputationHandler(logger *slog.Logger) *ReputationHandler {
	return &ReputationHandler{logger: logger}
}

// GetReputation returns the deterministic demo reputation for an address.
// GET /api/reputation/{address}
func (h *ReputationHandler) GetReputation(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.PathValue("address"))
	if address == "" {
		writeError(w, http.StatusBadRequest, "address required")
		return
	}

	writeJSON(w, http.StatusOK, risk.ReputationFor(address))
}
