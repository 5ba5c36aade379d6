package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoller_Run_StopsOnContextCancel(t *testing.T) {
	c := &countingClient{payload: map[string]any{"homeworks": []any{}}}
	p := New(c, noopNotifier{}).WithSettings(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.GreaterOrEqual(t, c.calls.Load(), int64(2))
}

func TestPoller_Run_SurvivesFailingCycles(t *testing.T) {
	c := &countingClient{err: errors.New("connection reset by peer")}
	p := New(c, noopNotifier{}).WithSettings(2 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return c.calls.Load() >= 3 }, time.Second, time.Millisecond)
	select {
	case err := <-done:
		t.Fatalf("Run returned early: %v", err)
	default:
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	require.GreaterOrEqual(t, p.Stats().TotalFailedCycles, int64(3))
}

func TestPoller_Trigger(t *testing.T) {
	c := &countingClient{payload: map[string]any{"homeworks": []any{}}}
	p := New(c, noopNotifier{}).WithSettings(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return c.calls.Load() == 1 }, time.Second, time.Millisecond)

	p.Trigger()
	require.Eventually(t, func() bool { return c.calls.Load() == 2 }, time.Second, time.Millisecond)
	require.NotNil(t, p.Stats().LastTriggerAt)

	cancel()
	<-done
}
