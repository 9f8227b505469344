package notify

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	name   string
	err    error
	titles []string
}

func (f *fakeSender) Send(_ context.Context, title, _ string) error {
	f.titles = append(f.titles, title)
	return f.err
}

func (f *fakeSender) Name() string { return f.name }

func TestNotifyFiltersByEvent(t *testing.T) {
	sender := &fakeSender{name: "telegram"}
	n := NewNotifier([]Sender{sender}, []string{EventTxFailed, EventHealthAlert}, slog.Default())
	ctx := context.Background()

	require.NoError(t, n.Notify(ctx, EventTxConfirmed, "confirmed", "ignored"))
	require.NoError(t, n.Notify(ctx, EventTxFailed, "failed", "delivered"))
	require.NoError(t, n.Notify(ctx, EventHealthAlert, "health", "delivered"))
	require.Equal(t, []string{"failed", "health"}, sender.titles)
}

func TestEmptyFilterAllowsEverything(t *testing.T) {
	sender := &fakeSender{name: "discord"}
	n := NewNotifier([]Sender{sender}, nil, slog.Default())

	require.NoError(t, n.Notify(context.Background(), EventLiquidation, "liq", "m"))
	require.Equal(t, []string{"liq"}, sender.titles)
}

func TestNotifyAllBypassesFilter(t *testing.T) {
	sender := &fakeSender{name: "telegram"}
	n := NewNotifier([]Sender{sender}, []string{EventTxFailed}, slog.Default())

	require.NoError(t, n.NotifyAll(context.Background(), "startup", "bot online"))
	require.Equal(t, []string{"startup"}, sender.titles)
}

func TestFailingSenderDoesNotBlockOthers(t *testing.T) {
	broken := &fakeSender{name: "telegram", err: errors.New("503")}
	working := &fakeSender{name: "discord"}
	n := NewNotifier([]Sender{broken, working}, nil, slog.Default())

	err := n.Notify(context.Background(), EventTxFailed, "t", "m")
	require.Error(t, err)
	require.Contains(t, err.Error(), "telegram")
	require.Equal(t, []string{"t"}, working.titles)
}

func TestNoSenders(t *testing.T) {
	n := NewNotifier(nil, nil, slog.Default())
	require.NoError(t, n.Notify(context.Background(), EventTxFailed, "t", "m"))
}
