package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/halofi/halobot/internal/domain"
	"github.com/halofi/halobot/internal/registry"
	"github.com/halofi/halobot/internal/validate"
)

// ActionService drives transaction intents through their lifecycle.
type ActionService interface {
	ExecuteAsync(ctx context.Context, intent domain.TransactionIntent) (domain.TransactionRecord, error)
	Record(id string) (domain.TransactionRecord, bool)
	Records() []domain.TransactionRecord
}

// RegistrationService reports registry state for the borrow gate.
type RegistrationService interface {
	Status(ctx context.Context, account string) (domain.RegistrationStatus, error)
}

// ActionHandler serves the transaction intent endpoints: submission,
// pre-submission validation, and record queries.
type ActionHandler struct {
	actions      ActionService
	snapshots    SnapshotService
	registration RegistrationService
	assets       []domain.Asset
	account      string
	logger       *slog.Logger
}

// NewActionHandler creates an ActionHandler acting for the given account.
func NewActionHandler(
	actions ActionService,
	snapshots SnapshotService,
	registration RegistrationService,
	assets []domain.Asset,
	account string,
	logger *slog.Logger,
) *ActionHandler {
	return &ActionHandler{
		actions:      actions,
		snapshots:    snapshots,
		registration: registration,
		assets:       assets,
		account:      account,
		logger:       logger,
	}
}

// actionRequest is the JSON body for submitting or validating an action.
// Supplied is the caller's deposited amount of the asset; the pool's
// aggregate account data does not break deposits out per asset, so the
// withdraw ceiling comes from the caller.
type actionRequest struct {
	Kind            domain.ActionKind `json:"kind"`
	Asset           string            `json:"asset"`
	Amount          string            `json:"amount"`
	Supplied        string            `json:"supplied"`
	Borrower        string            `json:"borrower"`
	Handle          string            `json:"handle"`
	URI             string            `json:"uri"`
	UseAsCollateral bool              `json:"useAsCollateral"`
}

// submitResponse wraps the freshly admitted record.
type submitResponse struct {
	Record domain.TransactionRecord `json:"record"`
}

// SubmitAction validates an intent and starts its lifecycle. The response is
// the admitted record; progress streams on the transactions WebSocket
// channel and is queryable under /api/transactions/{id}.
// POST /api/actions
func (h *ActionHandler) SubmitAction(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	intent, res, ok := h.buildIntent(w, r, req)
	if !ok {
		return
	}
	if !res.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}

	if intent.Kind == domain.ActionBorrow {
		if ok := h.checkBorrowGate(w, r); !ok {
			return
		}
	}

	// The lifecycle outlives this request; detach it from the request
	// context so closing the response does not cancel the transaction.
	rec, err := h.actions.ExecuteAsync(context.WithoutCancel(r.Context()), intent)
	if err != nil {
		if errors.Is(err, domain.ErrActionInFlight) {
			writeError(w, http.StatusConflict, "an action of this kind is already in flight for this asset")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: submit failed",
			slog.String("kind", string(req.Kind)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to submit action")
		return
	}

	writeJSON(w, http.StatusAccepted, submitResponse{Record: rec})
}

// ValidateAction runs the pre-submission checks without submitting.
// POST /api/actions/validate
func (h *ActionHandler) ValidateAction(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	_, res, ok := h.buildIntent(w, r, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// listTransactionsResponse wraps the transaction list response.
type listTransactionsResponse struct {
	Transactions []domain.TransactionRecord `json:"transactions"`
}

// ListTransactions returns every transaction record of this session.
// GET /api/transactions
func (h *ActionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listTransactionsResponse{Transactions: h.actions.Records()})
}

// GetTransaction returns one transaction record by ID.
// GET /api/transactions/{id}
func (h *ActionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, ok := h.actions.Record(id)
	if !ok {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *ActionHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (actionRequest, bool) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return actionRequest{}, false
	}
	if !req.Kind.Valid() {
		writeError(w, http.StatusBadRequest, "unknown action kind")
		return actionRequest{}, false
	}
	return req, true
}

// buildIntent resolves the asset, runs the validation engine, and assembles
// the intent. It reports false after writing an error response.
func (h *ActionHandler) buildIntent(w http.ResponseWriter, r *http.Request, req actionRequest) (domain.TransactionIntent, validate.Result, bool) {
	intent := domain.TransactionIntent{
		Kind:       req.Kind,
		OnBehalfOf: h.account,
		Borrower:   req.Borrower,
		Handle:     req.Handle,
	}

	if req.Kind == domain.ActionRegister {
		if req.Handle == "" {
			writeError(w, http.StatusBadRequest, "handle required for registration")
			return domain.TransactionIntent{}, validate.Result{}, false
		}
		intent.RegistrationURI = req.URI
		return intent, validate.Result{Valid: true, Entered: true}, true
	}

	asset, ok := h.lookupAsset(req.Asset)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown asset")
		return domain.TransactionIntent{}, validate.Result{}, false
	}
	intent.Asset = asset

	if req.Kind == domain.ActionLiquidate && req.Borrower == "" {
		writeError(w, http.StatusBadRequest, "borrower required for liquidation")
		return domain.TransactionIntent{}, validate.Result{}, false
	}

	// The collateral toggle carries no amount; nothing to validate beyond
	// the asset itself.
	if req.Kind == domain.ActionSetCollateral {
		intent.UseAsCollateral = req.UseAsCollateral
		return intent, validate.Result{Valid: true, Entered: true}, true
	}

	snap, err := h.snapshots.Position(r.Context(), h.account)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: position read failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "failed to read position")
		return domain.TransactionIntent{}, validate.Result{}, false
	}

	bal, err := h.snapshots.Balance(r.Context(), h.account, asset)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: balance read failed",
			slog.String("asset", asset.Symbol),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "failed to read balance")
		return domain.TransactionIntent{}, validate.Result{}, false
	}

	supplied := decimal.Zero
	if req.Supplied != "" {
		supplied, err = decimal.NewFromString(req.Supplied)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid supplied amount")
			return domain.TransactionIntent{}, validate.Result{}, false
		}
	}

	res := validate.Check(validate.Input{
		Kind:     req.Kind,
		Amount:   req.Amount,
		Snapshot: snap,
		Balance:  bal,
		Supplied: supplied,
	})
	if res.Valid {
		intent.Amount, _ = decimal.NewFromString(req.Amount)
	}
	return intent, res, true
}

// checkBorrowGate enforces registration gating for borrows. Registry errors
// leave the gate open; an unreachable registry must not dead-lock borrowing.
func (h *ActionHandler) checkBorrowGate(w http.ResponseWriter, r *http.Request) bool {
	status, err := h.registration.Status(r.Context(), h.account)
	if err != nil {
		h.logger.WarnContext(r.Context(), "handler: registration check failed",
			slog.String("error", err.Error()),
		)
		return true
	}
	if !registry.CanBorrow(status.RegistryAvailable, status.IsRegistered, false) {
		writeError(w, http.StatusForbidden, "account is not registered as an agent; register before borrowing")
		return false
	}
	return true
}

func (h *ActionHandler) lookupAsset(symbol string) (domain.Asset, bool) {
	for _, a := range h.assets {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return domain.Asset{}, false
}
