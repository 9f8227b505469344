package txflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/halofi/halobot/internal/domain"
)

// errMessageLimit caps user-facing failure text so oversized provider
// payloads never leak into notifications.
const errMessageLimit = 100

// SnapshotStore is the slice of the snapshot service the controller needs:
// the allowance read that feeds the approval gate, and the invalidation API
// driven by confirmations.
type SnapshotStore interface {
	Allowance(ctx context.Context, account string, asset domain.Asset) (domain.Allowance, error)
	InvalidatePosition(ctx context.Context, account string) error
	InvalidateBalances(ctx context.Context, account string) error
	InvalidateAllowance(ctx context.Context, account, asset string) error
}

// Notifier delivers user-facing notifications for terminal states.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// Controller owns the per-intent state machine. It holds at most one
// in-flight record per (kind, asset); an approval always confirms before
// the dependent action is submitted, the two are never pipelined.
type Controller struct {
	submitter Submitter
	snapshots SnapshotStore
	bus       domain.SignalBus
	notifier  Notifier
	account   string
	logger    *slog.Logger

	mu       sync.Mutex
	records  map[string]*domain.TransactionRecord
	inflight map[string]string // kind:asset -> record ID
}

// NewController creates a Controller acting for the given account address.
func NewController(
	submitter Submitter,
	snapshots SnapshotStore,
	bus domain.SignalBus,
	notifier Notifier,
	account string,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		submitter: submitter,
		snapshots: snapshots,
		bus:       bus,
		notifier:  notifier,
		account:   account,
		logger:    logger.With(slog.String("component", "txflow")),
		records:   make(map[string]*domain.TransactionRecord),
		inflight:  make(map[string]string),
	}
}

func flightKey(intent domain.TransactionIntent) string {
	return string(intent.Kind) + ":" + intent.Asset.Address
}

// Execute drives intent through its full lifecycle and returns the terminal
// record. If the action spends tokens and the allowance is zero, an
// unlimited approval is run to confirmation first; an approval failure
// fails the whole execution without submitting the action.
func (c *Controller) Execute(ctx context.Context, intent domain.TransactionIntent) (domain.TransactionRecord, error) {
	rec, err := c.admit(intent)
	if err != nil {
		return domain.TransactionRecord{}, err
	}
	defer c.release(intent)

	if intent.Kind.SpendsTokens() {
		allowance, err := c.snapshots.Allowance(ctx, c.account, intent.Asset)
		if err != nil {
			c.fail(ctx, rec, err)
			return *rec, nil
		}
		if NeedsApproval(intent.Kind, allowance) {
			if ok := c.runApproval(ctx, intent); !ok {
				c.fail(ctx, rec, fmt.Errorf("%w: approval did not confirm", domain.ErrSubmissionFailed))
				return *rec, nil
			}
		}
	}

	c.run(ctx, rec)
	return *rec, nil
}

// ExecuteAsync starts the lifecycle in the background and returns the
// freshly admitted record. Progress is observable via Record and the
// transactions bus channel.
func (c *Controller) ExecuteAsync(ctx context.Context, intent domain.TransactionIntent) (domain.TransactionRecord, error) {
	rec, err := c.admit(intent)
	if err != nil {
		return domain.TransactionRecord{}, err
	}

	go func() {
		defer c.release(intent)

		if intent.Kind.SpendsTokens() {
			allowance, err := c.snapshots.Allowance(ctx, c.account, intent.Asset)
			if err != nil {
				c.fail(ctx, rec, err)
				return
			}
			if NeedsApproval(intent.Kind, allowance) {
				if ok := c.runApproval(ctx, intent); !ok {
					c.fail(ctx, rec, fmt.Errorf("%w: approval did not confirm", domain.ErrSubmissionFailed))
					return
				}
			}
		}

		c.run(ctx, rec)
	}()

	return *rec, nil
}

// Record returns a copy of the record with the given ID.
func (c *Controller) Record(id string) (domain.TransactionRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[id]
	if !ok {
		return domain.TransactionRecord{}, false
	}
	return *rec, true
}

// Records returns a copy of every record from this session.
func (c *Controller) Records() []domain.TransactionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.TransactionRecord, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, *rec)
	}
	return out
}

// admit creates an Idle record, rejecting when a record of the same kind
// for the same asset is still in flight. The external signer has no queue;
// a second submission must wait for the first to reach a terminal state.
func (c *Controller) admit(intent domain.TransactionIntent) (*domain.TransactionRecord, error) {
	if !intent.Kind.Valid() {
		return nil, fmt.Errorf("txflow: unknown action %q", intent.Kind)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := flightKey(intent)
	if _, busy := c.inflight[key]; busy {
		return nil, domain.ErrActionInFlight
	}

	now := time.Now().UTC()
	rec := &domain.TransactionRecord{
		ID:        uuid.NewString(),
		Intent:    intent,
		State:     domain.TxIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.records[rec.ID] = rec
	c.inflight[key] = rec.ID
	return rec, nil
}

func (c *Controller) release(intent domain.TransactionIntent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, flightKey(intent))
}

// runApproval drives an unlimited approval for the intent's asset to a
// terminal state and reports whether it confirmed. The dependent action is
// only submitted after a confirmed approval.
func (c *Controller) runApproval(ctx context.Context, primary domain.TransactionIntent) bool {
	now := time.Now().UTC()
	rec := &domain.TransactionRecord{
		ID: uuid.NewString(),
		Intent: domain.TransactionIntent{
			Kind:       domain.ActionApprove,
			Asset:      primary.Asset,
			OnBehalfOf: primary.OnBehalfOf,
		},
		State:     domain.TxIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}

	c.mu.Lock()
	c.records[rec.ID] = rec
	c.mu.Unlock()

	c.run(ctx, rec)
	return rec.State == domain.TxConfirmed
}

// run drives one record from Idle to a terminal state.
func (c *Controller) run(ctx context.Context, rec *domain.TransactionRecord) {
	c.transition(ctx, rec, domain.TxAwaitingSignature)

	sub, err := c.submitter.Submit(ctx, rec.Intent)
	if err != nil {
		c.fail(ctx, rec, err)
		return
	}

	c.mu.Lock()
	rec.Hash = sub.Hash
	c.mu.Unlock()
	c.transition(ctx, rec, domain.TxPending)

	select {
	case <-ctx.Done():
		c.fail(ctx, rec, ctx.Err())
	case outcome := <-sub.Done:
		if outcome.Err != nil {
			c.fail(ctx, rec, fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, outcome.Err))
			return
		}
		if !outcome.Confirmed {
			c.fail(ctx, rec, fmt.Errorf("%w: transaction reverted", domain.ErrSubmissionFailed))
			return
		}
		c.confirm(ctx, rec)
	}
}

// confirm marks the record Confirmed, invalidates exactly the caches the
// action made stale, and emits the success notification with the hash.
func (c *Controller) confirm(ctx context.Context, rec *domain.TransactionRecord) {
	c.transition(ctx, rec, domain.TxConfirmed)

	intent := rec.Intent
	switch intent.Kind {
	case domain.ActionApprove:
		// Only the matching allowance entry; balances and position are
		// untouched by an approval.
		if err := c.snapshots.InvalidateAllowance(ctx, c.account, intent.Asset.Address); err != nil {
			c.logger.WarnContext(ctx, "allowance invalidation failed",
				slog.String("asset", intent.Asset.Symbol),
				slog.String("error", err.Error()),
			)
		}
	case domain.ActionSetCollateral:
		// The toggle moves no tokens; only the position totals change.
		if err := c.snapshots.InvalidatePosition(ctx, c.account); err != nil {
			c.logger.WarnContext(ctx, "position invalidation failed",
				slog.String("error", err.Error()),
			)
		}
	case domain.ActionSupply, domain.ActionWithdraw, domain.ActionBorrow, domain.ActionRepay, domain.ActionLiquidate:
		if err := c.snapshots.InvalidateBalances(ctx, c.account); err != nil {
			c.logger.WarnContext(ctx, "balance invalidation failed",
				slog.String("error", err.Error()),
			)
		}
		if err := c.snapshots.InvalidatePosition(ctx, c.account); err != nil {
			c.logger.WarnContext(ctx, "position invalidation failed",
				slog.String("error", err.Error()),
			)
		}
	}

	title := fmt.Sprintf("%s confirmed", actionTitle(intent.Kind))
	message := fmt.Sprintf("%s %s %s\ntx: %s", intent.Kind, intent.Amount, intent.Asset.Symbol, rec.Hash)
	if err := c.notifier.Notify(ctx, "tx_confirmed", title, message); err != nil {
		c.logger.WarnContext(ctx, "confirmation notification failed",
			slog.String("error", err.Error()),
		)
	}
}

// fail marks the record Failed with a truncated reason and emits the error
// notification. The record stays queryable but its in-flight slot is freed
// by the caller; a retry is always a fresh record.
func (c *Controller) fail(ctx context.Context, rec *domain.TransactionRecord, cause error) {
	msg := truncate(cause.Error(), errMessageLimit)

	c.mu.Lock()
	rec.Error = msg
	c.mu.Unlock()
	c.transition(ctx, rec, domain.TxFailed)

	c.logger.WarnContext(ctx, "transaction failed",
		slog.String("record", rec.ID),
		slog.String("kind", string(rec.Intent.Kind)),
		slog.String("asset", rec.Intent.Asset.Symbol),
		slog.String("error", msg),
	)

	title := fmt.Sprintf("%s failed", actionTitle(rec.Intent.Kind))
	if err := c.notifier.Notify(ctx, "tx_failed", title, msg); err != nil {
		c.logger.WarnContext(ctx, "failure notification failed",
			slog.String("error", err.Error()),
		)
	}
}

// transition advances the record and publishes the new state on the bus.
func (c *Controller) transition(ctx context.Context, rec *domain.TransactionRecord, next domain.TxState) {
	c.mu.Lock()
	err := rec.Transition(next)
	snapshot := *rec
	c.mu.Unlock()

	if err != nil {
		c.logger.ErrorContext(ctx, "refused state transition",
			slog.String("record", rec.ID),
			slog.String("from", string(snapshot.State)),
			slog.String("to", string(next)),
		)
		return
	}

	payload, _ := json.Marshal(map[string]any{
		"id":    snapshot.ID,
		"kind":  snapshot.Intent.Kind,
		"asset": snapshot.Intent.Asset.Symbol,
		"state": snapshot.State,
		"hash":  snapshot.Hash,
		"error": snapshot.Error,
	})
	if err := c.bus.Publish(ctx, domain.ChannelTransactions, payload); err != nil {
		c.logger.DebugContext(ctx, "bus publish failed",
			slog.String("error", err.Error()),
		)
	}
}

func actionTitle(kind domain.ActionKind) string {
	switch kind {
	case domain.ActionApprove:
		return "Approval"
	case domain.ActionSupply:
		return "Supply"
	case domain.ActionWithdraw:
		return "Withdrawal"
	case domain.ActionBorrow:
		return "Borrow"
	case domain.ActionRepay:
		return "Repayment"
	case domain.ActionLiquidate:
		return "Liquidation"
	case domain.ActionRegister:
		return "Registration"
	case domain.ActionSetCollateral:
		return "Collateral toggle"
	}
	return string(kind)
}

// truncate caps s at n characters, never splitting a multi-byte rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
