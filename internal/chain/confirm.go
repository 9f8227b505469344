package chain

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
)

// Outcome is the final result of one broadcast transaction. Exactly one
// Outcome is delivered per awaited hash.
type Outcome struct {
	Hash      string
	Confirmed bool
	Err       error
}

// Watcher waits for transaction confirmations. It performs no polling of
// its own beyond what bind.WaitMined does against the RPC endpoint, and
// delivers each result exactly once on a buffered channel so the receiver
// can never block the watcher.
type Watcher struct {
	client *Client
	logger *slog.Logger
}

// NewWatcher creates a Watcher over the given client.
func NewWatcher(client *Client, logger *slog.Logger) *Watcher {
	return &Watcher{
		client: client,
		logger: logger.With(slog.String("component", "confirm_watcher")),
	}
}

// Await starts waiting for tx to be mined and returns a channel that will
// receive exactly one Outcome: confirmed on receipt status 1, failed on
// status 0 (reverted) or when the wait itself errors (including context
// cancellation).
func (w *Watcher) Await(ctx context.Context, tx *types.Transaction) <-chan Outcome {
	out := make(chan Outcome, 1)
	hash := tx.Hash().Hex()

	go func() {
		receipt, err := bind.WaitMined(ctx, w.client.Eth(), tx)
		if err != nil {
			w.logger.WarnContext(ctx, "confirmation wait failed",
				slog.String("hash", hash),
				slog.String("error", err.Error()),
			)
			out <- Outcome{Hash: hash, Err: err}
			return
		}

		confirmed := receipt.Status == types.ReceiptStatusSuccessful
		if !confirmed {
			w.logger.WarnContext(ctx, "transaction reverted",
				slog.String("hash", hash),
			)
		} else {
			w.logger.DebugContext(ctx, "transaction confirmed",
				slog.String("hash", hash),
				slog.Uint64("block", receipt.BlockNumber.Uint64()),
			)
		}
		out <- Outcome{Hash: hash, Confirmed: confirmed}
	}()

	return out
}
