package order

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/secureshop/bff/internal/domain/shop"
)

// PollerManagerConfig holds poller lifecycle settings
type PollerManagerConfig struct {
	Poller PollerConfig
	// TTL evicts pollers whose status nobody has read recently
	TTL time.Duration
}

// PollerManager owns at most one confirmation poller per order id. The first
// status read for an order starts its poller; later reads share it. Pollers
// are evicted when idle or when their order id is explicitly released.
type PollerManager struct {
	mu      sync.Mutex
	pollers map[string]*managedPoller

	checker StatusChecker
	cfg     PollerManagerConfig
	logger  *zap.Logger

	done      chan struct{}
	closeOnce sync.Once
}

type managedPoller struct {
	poller   *ConfirmationPoller
	lastRead time.Time
}

// NewPollerManager creates a confirmation poller manager
func NewPollerManager(checker StatusChecker, cfg PollerManagerConfig, logger *zap.Logger) *PollerManager {
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	return &PollerManager{
		pollers: make(map[string]*managedPoller),
		checker: checker,
		cfg:     cfg,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start launches the eviction janitor
func (m *PollerManager) Start() {
	go m.janitor()
}

// Stop closes all pollers and the janitor
func (m *PollerManager) Stop() {
	m.closeOnce.Do(func() {
		close(m.done)
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, mp := range m.pollers {
		mp.poller.Close()
		delete(m.pollers, id)
	}
}

// Status returns the confirmation status for an order, starting a poller on
// the first read
func (m *PollerManager) Status(ctx context.Context, orderID string) shop.ConfirmationStatus {
	m.mu.Lock()
	mp, ok := m.pollers[orderID]
	if !ok {
		poller := NewConfirmationPoller(m.checker, orderID, m.cfg.Poller, m.logger)
		mp = &managedPoller{poller: poller}
		m.pollers[orderID] = mp
		// Detach from the request context; the poller outlives the request
		poller.Start(context.WithoutCancel(ctx))
		m.logger.Info("confirmation poller started", zap.String("order_id", orderID))
	}
	mp.lastRead = time.Now()
	poller := mp.poller
	m.mu.Unlock()

	return poller.Status()
}

// Release stops and removes the poller for an order id, e.g. when the
// confirmation view unmounts
func (m *PollerManager) Release(orderID string) {
	m.mu.Lock()
	mp, ok := m.pollers[orderID]
	if ok {
		delete(m.pollers, orderID)
	}
	m.mu.Unlock()

	if ok {
		mp.poller.Close()
		m.logger.Info("confirmation poller released", zap.String("order_id", orderID))
	}
}

// Count returns the number of live pollers
func (m *PollerManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pollers)
}

func (m *PollerManager) janitor() {
	interval := m.cfg.TTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *PollerManager) evictIdle() {
	cutoff := time.Now().Add(-m.cfg.TTL)

	m.mu.Lock()
	var idle []*managedPoller
	for id, mp := range m.pollers {
		if mp.lastRead.Before(cutoff) {
			idle = append(idle, mp)
			delete(m.pollers, id)
		}
	}
	m.mu.Unlock()

	for _, mp := range idle {
		mp.poller.Close()
	}
}
