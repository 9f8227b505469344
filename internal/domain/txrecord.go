package domain

import "time"

// TxState is the lifecycle state of a submitted transaction. Transitions are
// one-directional; Confirmed and Failed are terminal. A failed record is
// discarded, never resurrected; a retry is a fresh record.
type TxState string

const (
	TxIdle              TxState = "idle"
	TxAwaitingSignature TxState = "awaiting_signature"
	TxPending           TxState = "pending"
	TxConfirmed         TxState = "confirmed"
	TxFailed            TxState = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s TxState) Terminal() bool {
	return s == TxConfirmed || s == TxFailed
}

// txNext maps each state to its admissible successors.
var txNext = map[TxState]map[TxState]bool{
	TxIdle:              {TxAwaitingSignature: true, TxFailed: true},
	TxAwaitingSignature: {TxPending: true, TxFailed: true},
	TxPending:           {TxConfirmed: true, TxFailed: true},
	TxConfirmed:         {},
	TxFailed:            {},
}

// CanTransition reports whether moving from s to next is admissible.
func (s TxState) CanTransition(next TxState) bool {
	return txNext[s][next]
}

// TransactionRecord tracks one intent through its lifecycle.
type TransactionRecord struct {
	ID        string            `json:"id"`
	Intent    TransactionIntent `json:"intent"`
	State     TxState           `json:"state"`
	Hash      string            `json:"hash,omitempty"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Transition advances the record to next, returning ErrInvalidTransition for
// backward moves or moves out of a terminal state.
func (r *TransactionRecord) Transition(next TxState) error {
	if !r.State.CanTransition(next) {
		return ErrInvalidTransition
	}
	r.State = next
	r.UpdatedAt = time.Now().UTC()
	return nil
}
