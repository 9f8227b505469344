package domain

import "errors"

var (
	// ErrNotConnected indicates no account/signer is configured for an
	// operation that needs one.
	ErrNotConnected = errors.New("no active account")

	// ErrReadFailed indicates an on-chain read (position, balance,
	// allowance, registration) failed. Distinct from ErrNotFound so a
	// failed read is never mistaken for an empty result.
	ErrReadFailed = errors.New("chain read failed")

	// ErrSignatureRejected indicates the signer declined to sign a
	// transaction.
	ErrSignatureRejected = errors.New("signature rejected")

	// ErrSubmissionFailed indicates a transaction was broadcast but
	// reverted, or broadcasting itself failed.
	ErrSubmissionFailed = errors.New("transaction submission failed")

	// ErrNotFound is returned by caches on a miss.
	ErrNotFound = errors.New("not found")

	// ErrActionInFlight is returned when a second intent of the same kind
	// for the same asset is submitted while one is still outstanding.
	ErrActionInFlight = errors.New("action already in flight")

	// ErrInvalidTransition is returned when a transaction record is asked
	// to move backwards or out of a terminal state.
	ErrInvalidTransition = errors.New("invalid transaction state transition")

	// ErrRegistryUnavailable indicates the identity registry is not
	// deployed on the active network.
	ErrRegistryUnavailable = errors.New("identity registry unavailable")
)
