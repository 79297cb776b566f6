package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/secureshop/bff/internal/domain/shared"
	"github.com/secureshop/bff/internal/domain/shop"
)

// RedisCartStore implements shop.CartStore on Redis. Suitable for deployments
// where multiple BFF instances serve the same storefront sessions.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisCartStore creates a Redis-backed cart store and verifies the connection
func NewRedisCartStore(cfg RedisConfig, ttl time.Duration) (*RedisCartStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCartStoreWithClient(client, ttl), nil
}

// NewRedisCartStoreWithClient creates a store with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisCartStoreWithClient(client *redis.Client, ttl time.Duration) *RedisCartStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCartStore{
		client:    client,
		keyPrefix: "cart:",
		ttl:       ttl,
	}
}

// Get returns the cart for a session, or shared.ErrNotFound
func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (*shop.Cart, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var cart shop.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &cart, nil
}

// Save persists the cart with the store TTL
func (s *RedisCartStore) Save(ctx context.Context, cart *shop.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+cart.SessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes the cart for a session
func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// Ensure RedisCartStore implements CartStore
var _ shop.CartStore = (*RedisCartStore)(nil)
