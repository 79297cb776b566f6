package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/secureshop/bff/internal/domain/shared"
	"github.com/secureshop/bff/internal/domain/shop"
	"github.com/secureshop/bff/internal/infrastructure/cache"
)

type recordingBus struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (b *recordingBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events...)
	return nil
}

func (b *recordingBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]string, 0, len(b.events))
	for _, e := range b.events {
		types = append(types, e.EventType())
	}
	return types
}

func newTestService() (*Service, *recordingBus) {
	bus := &recordingBus{}
	store := cache.NewInMemoryCartStore(0)
	return NewService(store, bus, zap.NewNop()), bus
}

func laptop(quantity int) shop.CartItem {
	return shop.CartItem{
		ProductID:   1,
		ProductName: "Laptop",
		UnitPrice:   decimal.NewFromInt(1200),
		Quantity:    quantity,
	}
}

func TestService_Get_ReturnsEmptyCartForNewSession(t *testing.T) {
	service, bus := newTestService()

	cart, err := service.Get(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", cart.SessionID)
	assert.Empty(t, cart.Items)
	assert.Empty(t, bus.types())
}

func TestService_AddItem(t *testing.T) {
	service, bus := newTestService()
	ctx := context.Background()

	cart, err := service.AddItem(ctx, "session-1", laptop(2))
	require.NoError(t, err)
	assert.Equal(t, 2, cart.ItemCount())

	// Adding the same product merges lines
	cart, err = service.AddItem(ctx, "session-1", laptop(1))
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.ItemCount())

	assert.Equal(t, []string{shop.EventTypeCartUpdated, shop.EventTypeCartUpdated}, bus.types())
}

func TestService_AddItem_InvalidQuantity(t *testing.T) {
	service, bus := newTestService()

	_, err := service.AddItem(context.Background(), "session-1", laptop(0))
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	assert.Empty(t, bus.types())
}

func TestService_UpdateQuantity(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.AddItem(ctx, "session-1", laptop(2))
	require.NoError(t, err)

	cart, err := service.UpdateQuantity(ctx, "session-1", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.ItemCount())
	assert.True(t, cart.Total().Equal(decimal.NewFromInt(6000)))
}

func TestService_UpdateQuantity_MissingLine(t *testing.T) {
	service, bus := newTestService()

	_, err := service.UpdateQuantity(context.Background(), "session-1", 99, 5)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, bus.types())
}

func TestService_RemoveItem(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.AddItem(ctx, "session-1", laptop(2))
	require.NoError(t, err)

	cart, err := service.RemoveItem(ctx, "session-1", 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestService_Clear(t *testing.T) {
	service, bus := newTestService()
	ctx := context.Background()

	_, err := service.AddItem(ctx, "session-1", laptop(2))
	require.NoError(t, err)

	require.NoError(t, service.Clear(ctx, "session-1"))
	assert.Equal(t, []string{shop.EventTypeCartUpdated, shop.EventTypeCartCleared}, bus.types())

	cart, err := service.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestService_Clear_EmptyCartIsHarmless(t *testing.T) {
	service, bus := newTestService()

	require.NoError(t, service.Clear(context.Background(), "session-1"))
	assert.Equal(t, []string{shop.EventTypeCartCleared}, bus.types())
}

func TestService_CartsAreIsolatedPerSession(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.AddItem(ctx, "session-1", laptop(2))
	require.NoError(t, err)

	cart, err := service.Get(ctx, "session-2")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
