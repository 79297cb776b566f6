package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/secureshop/bff/internal/domain/shared"
)

// SessionManagerConfig holds browse session settings
type SessionManagerConfig struct {
	Controller ControllerConfig
	// SessionTTL evicts sessions nobody has touched for this long
	SessionTTL time.Duration
}

// SessionManager owns one query controller per browse session. Sessions are
// created when a storefront view mounts, touched on every read, and evicted
// after the TTL or an explicit teardown.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*session

	products ProductLister
	cfg      SessionManagerConfig
	logger   *zap.Logger

	done      chan struct{}
	closeOnce sync.Once
}

type session struct {
	controller *Controller
	lastSeen   time.Time
}

// NewSessionManager creates a browse session manager
func NewSessionManager(products ProductLister, cfg SessionManagerConfig, logger *zap.Logger) *SessionManager {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	return &SessionManager{
		sessions: make(map[string]*session),
		products: products,
		cfg:      cfg,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the eviction janitor
func (m *SessionManager) Start() {
	go m.janitor()
}

// Stop closes all sessions and stops the janitor
func (m *SessionManager) Stop() {
	m.closeOnce.Do(func() {
		close(m.done)
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.controller.Close()
		delete(m.sessions, id)
	}
}

// Create builds a new browse session, loads its catalogs, and issues the
// initial product fetch. Returns the session id.
func (m *SessionManager) Create(ctx context.Context, seedKeyword string) (string, *Controller, error) {
	cfg := m.cfg.Controller
	cfg.SeedKeyword = seedKeyword

	controller := NewController(m.products, cfg, m.logger)
	if err := controller.Start(ctx); err != nil {
		controller.Close()
		return "", nil, err
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = &session{controller: controller, lastSeen: time.Now()}
	m.mu.Unlock()

	m.logger.Info("browse session created", zap.String("session_id", id))
	return id, controller, nil
}

// Get returns the controller for a session id, refreshing its expiry
func (m *SessionManager) Get(id string) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	s.lastSeen = time.Now()
	return s.controller, nil
}

// Remove tears a session down
func (m *SessionManager) Remove(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return shared.ErrSessionNotFound
	}
	s.controller.Close()
	m.logger.Info("browse session removed", zap.String("session_id", id))
	return nil
}

// Count returns the number of live sessions
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// janitor periodically evicts idle sessions
func (m *SessionManager) janitor() {
	interval := m.cfg.SessionTTL / 4
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
			m.evictExpired()
		}
	}
}

func (m *SessionManager) evictExpired() {
	cutoff := time.Now().Add(-m.cfg.SessionTTL)

	m.mu.Lock()
	var expired []*session
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.controller.Close()
	}
	if len(expired) > 0 {
		m.logger.Debug("evicted idle browse sessions", zap.Int("count", len(expired)))
	}
}
