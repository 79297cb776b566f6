package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/secureshop/bff/internal/domain/shop"
	"github.com/secureshop/bff/internal/infrastructure/commerce"
)

// tickResult scripts one confirmation check outcome
type tickResult struct {
	confirmed bool
	err       error
}

// scriptedChecker plays back scripted results; the last entry repeats
type scriptedChecker struct {
	mu     sync.Mutex
	script []tickResult
	calls  int
	block  chan struct{} // non-nil parks every call until closed
}

func (c *scriptedChecker) ConfirmationStatus(ctx context.Context, orderID string) (bool, error) {
	c.mu.Lock()
	idx := c.calls
	c.calls++
	if idx >= len(c.script) {
		idx = len(c.script) - 1
	}
	result := c.script[idx]
	block := c.block
	c.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return result.confirmed, result.err
}

func (c *scriptedChecker) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func startPoller(t *testing.T, checker StatusChecker, orderID string) *ConfirmationPoller {
	t.Helper()
	poller := NewConfirmationPoller(checker, orderID, PollerConfig{Interval: 20 * time.Millisecond}, zap.NewNop())
	poller.Start(context.Background())
	t.Cleanup(poller.Close)
	return poller
}

func TestConfirmationPoller_PendingThenConfirmed(t *testing.T) {
	checker := &scriptedChecker{script: []tickResult{{confirmed: false}, {confirmed: true}}}
	poller := startPoller(t, checker, "abc-123")

	require.Eventually(t, func() bool {
		return poller.Status().State == shop.ConfirmationPending
	}, time.Second, 2*time.Millisecond)

	require.Eventually(t, func() bool {
		return poller.Status().Confirmed()
	}, time.Second, 2*time.Millisecond)
}

func TestConfirmationPoller_StopsAfterConfirmed(t *testing.T) {
	checker := &scriptedChecker{script: []tickResult{{confirmed: true}}}
	poller := startPoller(t, checker, "abc-123")

	require.Eventually(t, func() bool {
		return poller.Status().Confirmed()
	}, time.Second, 2*time.Millisecond)

	settled := checker.callCount()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, settled, checker.callCount(), "no further polls after confirmation")
}

func TestConfirmationPoller_ErrorIsNotFatal(t *testing.T) {
	notFound := fmt.Errorf("%w: /orders/abc-123", commerce.ErrNotFound)
	checker := &scriptedChecker{script: []tickResult{{err: notFound}, {confirmed: false}}}
	poller := startPoller(t, checker, "abc-123")

	require.Eventually(t, func() bool {
		status := poller.Status()
		return status.State == shop.ConfirmationError && status.Message == "order not found"
	}, time.Second, 2*time.Millisecond)

	// The error tick still reads as not-yet-confirmed for display purposes
	assert.True(t, poller.Status().DisplayPending())

	// And the next scheduled tick fires anyway
	require.Eventually(t, func() bool {
		return poller.Status().State == shop.ConfirmationPending
	}, time.Second, 2*time.Millisecond)
	assert.GreaterOrEqual(t, checker.callCount(), 2)
}

func TestConfirmationPoller_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "forbidden", err: fmt.Errorf("%w: HTTP 403", commerce.ErrUnauthorized), message: "not authorized"},
		{name: "not found", err: fmt.Errorf("%w: /orders/x", commerce.ErrNotFound), message: "order not found"},
		{name: "server error", err: fmt.Errorf("%w: HTTP 500", commerce.ErrRequestFailed), message: "transient failure, retry later"},
		{name: "unreachable", err: errors.New("connection refused"), message: "transient failure, retry later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &scriptedChecker{script: []tickResult{{err: tt.err}}}
			poller := startPoller(t, checker, "abc-123")

			require.Eventually(t, func() bool {
				status := poller.Status()
				return status.State == shop.ConfirmationError && status.Message == tt.message
			}, time.Second, 2*time.Millisecond)
		})
	}
}

func TestConfirmationPoller_SkipsOverlappingTicks(t *testing.T) {
	block := make(chan struct{})
	checker := &scriptedChecker{script: []tickResult{{confirmed: false}}, block: block}
	poller := startPoller(t, checker, "abc-123")

	// Several intervals pass while the first request is parked; overlapping
	// ticks must be skipped, not stacked
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 1, checker.callCount())

	close(block)
	require.Eventually(t, func() bool {
		return poller.Status().State == shop.ConfirmationPending
	}, time.Second, 2*time.Millisecond)

	// Polling resumes once the slow request settles
	require.Eventually(t, func() bool {
		return checker.callCount() >= 2
	}, time.Second, 2*time.Millisecond)
}

func TestConfirmationPoller_InertWithoutOrderID(t *testing.T) {
	checker := &scriptedChecker{script: []tickResult{{confirmed: true}}}
	poller := NewConfirmationPoller(checker, "", PollerConfig{Interval: 10 * time.Millisecond}, zap.NewNop())
	poller.Start(context.Background())
	defer poller.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, checker.callCount())
	assert.Equal(t, shop.ConfirmationLoading, poller.Status().State)
}

func TestConfirmationPoller_CloseStopsSchedule(t *testing.T) {
	checker := &scriptedChecker{script: []tickResult{{confirmed: false}}}
	poller := startPoller(t, checker, "abc-123")

	require.Eventually(t, func() bool {
		return checker.callCount() >= 1
	}, time.Second, 2*time.Millisecond)

	poller.Close()
	settled := checker.callCount()
	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, checker.callCount(), settled+1, "schedule must stop after Close")
}

func TestConfirmationPoller_OnChangeCallback(t *testing.T) {
	checker := &scriptedChecker{script: []tickResult{{confirmed: false}, {confirmed: true}}}

	var mu sync.Mutex
	var transitions []shop.ConfirmationState
	poller := NewConfirmationPoller(checker, "abc-123", PollerConfig{Interval: 20 * time.Millisecond}, zap.NewNop(),
		WithOnChange(func(status shop.ConfirmationStatus) {
			mu.Lock()
			transitions = append(transitions, status.State)
			mu.Unlock()
		}))
	poller.Start(context.Background())
	defer poller.Close()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(transitions) >= 2
	}, time.Second, 2*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, shop.ConfirmationPending, transitions[0])
	assert.Equal(t, shop.ConfirmationConfirmed, transitions[1])
}
