package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTxStateTransitions(t *testing.T) {
	cases := []struct {
		from TxState
		to   TxState
		ok   bool
	}{
		{TxIdle, TxAwaitingSignature, true},
		{TxIdle, TxFailed, true},
		{TxIdle, TxPending, false},
		{TxIdle, TxConfirmed, false},
		{TxAwaitingSignature, TxPending, true},
		{TxAwaitingSignature, TxFailed, true},
		{TxAwaitingSignature, TxConfirmed, false},
		{TxAwaitingSignature, TxIdle, false},
		{TxPending, TxConfirmed, true},
		{TxPending, TxFailed, true},
		{TxPending, TxAwaitingSignature, false},
		{TxConfirmed, TxFailed, false},
		{TxConfirmed, TxPending, false},
		{TxFailed, TxIdle, false},
		{TxFailed, TxAwaitingSignature, false},
	}

	for _, tc := range cases {
		require.Equalf(t, tc.ok, tc.from.CanTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStates(t *testing.T) {
	require.True(t, TxConfirmed.Terminal())
	require.True(t, TxFailed.Terminal())
	require.False(t, TxIdle.Terminal())
	require.False(t, TxAwaitingSignature.Terminal())
	require.False(t, TxPending.Terminal())
}

func TestRecordTransition(t *testing.T) {
	rec := &TransactionRecord{State: TxIdle}

	require.NoError(t, rec.Transition(TxAwaitingSignature))
	require.NoError(t, rec.Transition(TxPending))
	require.NoError(t, rec.Transition(TxConfirmed))
	require.False(t, rec.UpdatedAt.IsZero())

	// Terminal records refuse any further movement.
	err := rec.Transition(TxFailed)
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Equal(t, TxConfirmed, rec.State)
}

func TestRecordTransitionRejectsSkips(t *testing.T) {
	rec := &TransactionRecord{State: TxIdle}
	require.ErrorIs(t, rec.Transition(TxConfirmed), ErrInvalidTransition)
	require.Equal(t, TxIdle, rec.State)
}
