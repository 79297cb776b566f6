package order

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/secureshop/bff/internal/domain/shop"
	"github.com/secureshop/bff/internal/infrastructure/commerce"
)

// StatusChecker is the slice of the commerce client the poller needs
type StatusChecker interface {
	ConfirmationStatus(ctx context.Context, orderID string) (bool, error)
}

// Poll error messages, keyed by the failure class of a single tick
const (
	msgNotAuthorized = "not authorized"
	msgOrderNotFound = "order not found"
	msgTransient     = "transient failure, retry later"
)

// PollerConfig holds confirmation poller settings
type PollerConfig struct {
	// Interval is the fixed cadence between confirmation checks; there is
	// deliberately no backoff
	Interval time.Duration
}

// ConfirmationPoller keeps an order's confirmation state current by polling
// the backend at a fixed cadence. A failed tick surfaces an error message
// but never stops the loop; only a confirmed answer or Close does. Ticks
// that would overlap a still-running request are skipped.
type ConfirmationPoller struct {
	mu       sync.Mutex
	status   shop.ConfirmationStatus
	inFlight bool

	orderID string
	checker StatusChecker
	cfg     PollerConfig
	logger  *zap.Logger

	onChange func(shop.ConfirmationStatus)

	done     chan struct{}
	stopOnce sync.Once
}

// PollerOption customizes a poller
type PollerOption func(*ConfirmationPoller)

// WithOnChange registers a callback invoked after every state transition
func WithOnChange(fn func(shop.ConfirmationStatus)) PollerOption {
	return func(p *ConfirmationPoller) {
		p.onChange = fn
	}
}

// NewConfirmationPoller creates a poller for an order. A poller with an
// empty order id is inert: Start is a no-op and no state transition ever
// happens.
func NewConfirmationPoller(checker StatusChecker, orderID string, cfg PollerConfig, logger *zap.Logger, opts ...PollerOption) *ConfirmationPoller {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	p := &ConfirmationPoller{
		status:  shop.ConfirmationStatus{State: shop.ConfirmationLoading},
		orderID: orderID,
		checker: checker,
		cfg:     cfg,
		logger:  logger,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins polling. The first check fires immediately; subsequent ticks
// follow at the fixed interval measured from Start, not from each
// response's completion.
func (p *ConfirmationPoller) Start(ctx context.Context) {
	if p.orderID == "" {
		return
	}
	go p.loop(ctx)
}

// Status returns the latest published confirmation state
func (p *ConfirmationPoller) Status() shop.ConfirmationStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// OrderID returns the order this poller watches
func (p *ConfirmationPoller) OrderID() string {
	return p.orderID
}

// Close stops the poll schedule. Safe to call multiple times.
func (p *ConfirmationPoller) Close() {
	p.stopOnce.Do(func() {
		close(p.done)
	})
}

func (p *ConfirmationPoller) loop(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.tick(ctx)

	for {
		select {
		case <-p.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick issues one confirmation check unless the previous one is still in
// flight, in which case this tick is skipped rather than stacked
func (p *ConfirmationPoller) tick(ctx context.Context) {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		p.logger.Debug("confirmation tick skipped, previous request still in flight",
			zap.String("order_id", p.orderID))
		return
	}
	p.inFlight = true
	p.mu.Unlock()

	go func() {
		confirmed, err := p.checker.ConfirmationStatus(ctx, p.orderID)
		p.apply(confirmed, err)
	}()
}

// apply publishes the outcome of one tick and stops the schedule when the
// order has been confirmed
func (p *ConfirmationPoller) apply(confirmed bool, err error) {
	p.mu.Lock()
	p.inFlight = false

	select {
	case <-p.done:
		p.mu.Unlock()
		return
	default:
	}

	var next shop.ConfirmationStatus
	switch {
	case err == nil && confirmed:
		next = shop.ConfirmationStatus{State: shop.ConfirmationConfirmed}
	case err == nil:
		next = shop.ConfirmationStatus{State: shop.ConfirmationPending}
	default:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			p.mu.Unlock()
			return
		}
		next = shop.ConfirmationStatus{State: shop.ConfirmationError, Message: classifyPollError(err)}
		p.logger.Warn("confirmation poll tick failed",
			zap.String("order_id", p.orderID),
			zap.String("message", next.Message),
			zap.Error(err),
		)
	}

	p.status = next
	onChange := p.onChange
	p.mu.Unlock()

	if onChange != nil {
		onChange(next)
	}
	if next.Confirmed() {
		p.Close()
	}
}

// classifyPollError maps a transport failure to the user-facing message for
// that tick's display
func classifyPollError(err error) string {
	switch {
	case errors.Is(err, commerce.ErrUnauthorized):
		return msgNotAuthorized
	case errors.Is(err, commerce.ErrNotFound):
		return msgOrderNotFound
	default:
		return msgTransient
	}
}
