package handler

import (
	"log/slog"
	"net/http"

	"github.com/halofi/halobot/internal/domain"
	"github.com/halofi/halobot/internal/registry"
)

// RegistrationHandler serves agent identity registry endpoints.
type RegistrationHandler struct {
	registration RegistrationService
	account      string
	logger       *slog.Logger
}

// NewRegistrationHandler creates a RegistrationHandler.
func NewRegistrationHandler(registration RegistrationService, account string, logger *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		registration: registration,
		account:      account,
		logger:       logger,
	}
}

// registrationResponse augments the registry status with the resulting
// borrow gate decision.
type registrationResponse struct {
	domain.RegistrationStatus
	CanBorrow bool `json:"canBorrow"`
}

// GetRegistration returns the registry status for an account and whether
// borrowing is currently gated for it.
// GET /api/registration?account=0x...
func (h *RegistrationHandler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	account := accountParam(r, h.account)
	if account == "" {
		writeError(w, http.StatusBadRequest, "account query parameter required")
		return
	}

	status, err := h.registration.Status(r.Context(), account)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: registration read failed",
			slog.String("account", account),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "failed to read registration status")
		return
	}

	writeJSON(w, http.StatusOK, registrationResponse{
		RegistrationStatus: status,
		CanBorrow:          registry.CanBorrow(status.RegistryAvailable, status.IsRegistered, false),
	})
}
