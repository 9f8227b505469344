package domain

import "github.com/shopspring/decimal"

// ActionKind enumerates every mutating protocol action.
type ActionKind string

const (
	ActionApprove       ActionKind = "approve"
	ActionSupply        ActionKind = "supply"
	ActionWithdraw      ActionKind = "withdraw"
	ActionBorrow        ActionKind = "borrow"
	ActionRepay         ActionKind = "repay"
	ActionLiquidate     ActionKind = "liquidate"
	ActionRegister      ActionKind = "register"
	ActionSetCollateral ActionKind = "set_collateral"
)

// Valid reports whether k is a known action kind.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionApprove, ActionSupply, ActionWithdraw, ActionBorrow,
		ActionRepay, ActionLiquidate, ActionRegister, ActionSetCollateral:
		return true
	}
	return false
}

// SpendsTokens reports whether the action moves tokens from the caller's
// wallet into the pool and therefore sits behind the allowance gate.
func (k ActionKind) SpendsTokens() bool {
	switch k {
	case ActionSupply, ActionRepay, ActionLiquidate:
		return true
	}
	return false
}

// TransactionIntent is a validated request to perform one protocol action.
// It is created only after the validation engine accepts the input and is
// consumed exactly once by the lifecycle controller.
type TransactionIntent struct {
	Kind       ActionKind      `json:"kind"`
	Asset      Asset           `json:"asset"`
	Amount     decimal.Decimal `json:"amount"`
	OnBehalfOf string          `json:"onBehalfOf"`

	// Borrower is set for liquidate intents only: the account whose debt
	// is being covered.
	Borrower string `json:"borrower,omitempty"`

	// Handle and RegistrationURI are set for register intents only.
	Handle          string `json:"handle,omitempty"`
	RegistrationURI string `json:"registrationUri,omitempty"`

	// UseAsCollateral is set for set_collateral intents only.
	UseAsCollateral bool `json:"useAsCollateral,omitempty"`
}
