// Package validate implements the pure pre-submission checks for every
// protocol action. The engine never mutates state; callers re-invoke it on
// every input change and on every snapshot refresh.
package validate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/halofi/halobot/internal/domain"
	"github.com/halofi/halobot/internal/risk"
)

// Input carries everything one validation pass needs. Balance is the wallet
// balance of the acted-on asset; Supplied is the amount of that asset
// currently deposited (the withdraw ceiling).
type Input struct {
	Kind     domain.ActionKind
	Amount   string
	Snapshot domain.PositionSnapshot
	Balance  domain.TokenBalance
	Supplied decimal.Decimal
}

// Result is the outcome of one validation pass. Entered distinguishes
// "nothing typed yet" from a rejected value: when Entered is false no error
// message should be shown at all.
type Result struct {
	Valid   bool   `json:"valid"`
	Entered bool   `json:"entered"`
	Reason  string `json:"reason,omitempty"`
}

func reject(reason string) Result {
	return Result{Valid: false, Entered: true, Reason: reason}
}

// Check evaluates the rules in order; the first failure wins. Equality with
// a limit is admissible everywhere; only strict excess is rejected.
func Check(in Input) Result {
	raw := strings.TrimSpace(in.Amount)
	if raw == "" {
		return Result{}
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		// Entered but unparseable: invalid with no reason text, matching
		// the empty-input presentation.
		return Result{Entered: true}
	}

	if amount.Sign() <= 0 {
		return reject("Amount must be greater than 0")
	}

	switch in.Kind {
	case domain.ActionSupply:
		if amount.GreaterThan(in.Balance.Amount) {
			return reject(fmt.Sprintf("Insufficient %s balance: %s available",
				in.Balance.Symbol, in.Balance.Amount))
		}

	case domain.ActionWithdraw:
		if amount.GreaterThan(in.Supplied) {
			return reject(fmt.Sprintf("Amount exceeds supplied %s: %s supplied",
				in.Balance.Symbol, in.Supplied))
		}

	case domain.ActionBorrow:
		available := in.Snapshot.AvailableBorrows
		if amount.GreaterThan(available) {
			return reject(fmt.Sprintf("Amount exceeds available borrow capacity of %s", available))
		}
		if safe := risk.SafeBorrowLimit(available); amount.GreaterThan(safe) {
			return reject(fmt.Sprintf("Amount exceeds safe borrow limit of %s (95%% of available)", safe))
		}

	case domain.ActionRepay:
		if amount.GreaterThan(in.Snapshot.TotalDebt) {
			return reject(fmt.Sprintf("Amount exceeds outstanding debt of %s", in.Snapshot.TotalDebt))
		}
	}

	return Result{Valid: true, Entered: true}
}
