package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/halofi/halobot/internal/chain"
	"github.com/halofi/halobot/internal/domain"
)

// Service reads registration state from the identity registry contract.
type Service struct {
	reg    *chain.IdentityRegistry
	logger *slog.Logger
}

// NewService creates a Service over the bound registry.
func NewService(reg *chain.IdentityRegistry, logger *slog.Logger) *Service {
	return &Service{
		reg:    reg,
		logger: logger.With(slog.String("component", "registry")),
	}
}

// Status returns the account's registration status. A zero registry address
// short-circuits to an available=false status without touching the chain.
func (s *Service) Status(ctx context.Context, account string) (domain.RegistrationStatus, error) {
	if !s.reg.Available() {
		return domain.RegistrationStatus{RegistryAvailable: false}, nil
	}
	if account == "" {
		return domain.RegistrationStatus{}, domain.ErrNotConnected
	}

	addr := common.HexToAddress(account)
	registered, err := s.reg.IsRegistered(ctx, addr)
	if err != nil {
		return domain.RegistrationStatus{}, fmt.Errorf("%w: registration for %s: %v", domain.ErrReadFailed, account, err)
	}

	status := domain.RegistrationStatus{
		RegistryAvailable: true,
		IsRegistered:      registered,
	}

	if registered {
		handle, err := s.reg.GetHandle(ctx, addr)
		if err != nil {
			// The handle is cosmetic; registration state already resolved.
			s.logger.WarnContext(ctx, "handle read failed",
				slog.String("account", account),
				slog.String("error", err.Error()),
			)
		} else {
			status.Handle = handle
		}
	}

	return status, nil
}
