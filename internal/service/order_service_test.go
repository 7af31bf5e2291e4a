package service_test

import (
	"bytes"
	"context"
	"testing"

	"restoflow/internal/domain"
	"restoflow/internal/service"
	"restoflow/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService(store *memory.Store, publisher service.EventPublisher) *service.OrderService {
	return service.NewOrderService(store, publisher, service.DefaultQRGenerator{BaseURL: "http://localhost"}, nil)
}

func TestOrderService_PlaceSnapshotsCart(t *testing.T) {
	store := memory.NewStore()
	publisher := &recordingPublisher{}
	carts := service.NewCartService(store)
	orders := newOrderService(store, publisher)
	admin := service.NewAdminService(store, service.NewRegistry())
	ctx := context.Background()

	soup := seedDish(t, store, "Soup", 450)
	tea := seedDish(t, store, "Tea", 120.5)
	_, err := carts.AddItem(ctx, domain.CartItemInput{UserID: 3, DishID: soup, Quantity: 2})
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, domain.CartItemInput{UserID: 3, DishID: tea, Quantity: 3})
	require.NoError(t, err)

	receipt, err := orders.Place(ctx, domain.OrderInput{UserID: 3, AddressID: 1})
	require.NoError(t, err)
	assert.Equal(t, "success", receipt.Status)
	assert.Equal(t, 2*450+3*120.5, receipt.Total)
	assert.Equal(t, 2, receipt.Items)

	cart, err := carts.Get(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	require.NoError(t, admin.UpdateDish(ctx, soup, domain.DishInput{Name: "Soup", Price: price(999), Category: "Main"}))

	list, err := orders.ListByUser(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.DefaultOrderStatus, list[0].Status)
	assert.Equal(t, receipt.Total, list[0].TotalPrice)
	require.Len(t, list[0].Items, 2)
	assert.Equal(t, 450.0, list[0].Items[0].Price)
	assert.Equal(t, 900.0, list[0].Items[0].Total)

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventOrderPlaced, events[0].Type)
	assert.Equal(t, receipt.OrderID, events[0].OrderID)
	assert.Equal(t, int64(3), events[0].UserID)
	assert.Equal(t, receipt.Total, events[0].Total)
}

func TestOrderService_PlaceEmptyCart(t *testing.T) {
	store := memory.NewStore()
	publisher := &recordingPublisher{}
	orders := newOrderService(store, publisher)

	_, err := orders.Place(context.Background(), domain.OrderInput{UserID: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, publisher.Events())

	all, err := orders.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOrderService_PlaceFailsAtomicallyOnMissingDish(t *testing.T) {
	store := memory.NewStore()
	carts := service.NewCartService(store)
	orders := newOrderService(store, nil)
	ctx := context.Background()

	keep := seedDish(t, store, "Tea", 100)
	gone := seedDish(t, store, "Cake", 300)
	_, err := carts.AddItem(ctx, domain.CartItemInput{UserID: 1, DishID: keep, Quantity: 1})
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, domain.CartItemInput{UserID: 1, DishID: gone, Quantity: 1})
	require.NoError(t, err)
	_, err = store.DeleteEntity(ctx, domain.EntityDish, gone)
	require.NoError(t, err)

	_, err = orders.Place(ctx, domain.OrderInput{UserID: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	lines, err := store.ReadAll(ctx, domain.EntityCartItem)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	placed, err := store.ReadAll(ctx, domain.EntityOrder)
	require.NoError(t, err)
	assert.Empty(t, placed)
}

func TestOrderService_PlaceValidation(t *testing.T) {
	orders := newOrderService(memory.NewStore(), nil)

	_, err := orders.Place(context.Background(), domain.OrderInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = orders.Place(context.Background(), domain.OrderInput{UserID: 1, AddressID: -2})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOrderService_PublishFailureDoesNotFailOrder(t *testing.T) {
	store := memory.NewStore()
	publisher := &recordingPublisher{err: assert.AnError}
	carts := service.NewCartService(store)
	orders := newOrderService(store, publisher)
	ctx := context.Background()

	dishID := seedDish(t, store, "Tea", 100)
	_, err := carts.AddItem(ctx, domain.CartItemInput{UserID: 1, DishID: dishID, Quantity: 1})
	require.NoError(t, err)

	receipt, err := orders.Place(ctx, domain.OrderInput{UserID: 1, Status: "paid", WaiterID: 8})
	require.NoError(t, err)
	assert.Len(t, publisher.Events(), 1)

	all, err := orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, receipt.OrderID, all[0].OrderID)
	assert.Equal(t, "paid", all[0].Status)
	assert.Nil(t, all[0].Items)

	rec, err := store.ReadEntity(ctx, domain.EntityOrder, receipt.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "8", rec.String("waiter_id"))
}

func TestOrderService_QRCode(t *testing.T) {
	store := memory.NewStore()
	carts := service.NewCartService(store)
	orders := newOrderService(store, nil)
	ctx := context.Background()

	_, err := orders.QRCode(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	dishID := seedDish(t, store, "Tea", 100)
	_, err = carts.AddItem(ctx, domain.CartItemInput{UserID: 1, DishID: dishID, Quantity: 1})
	require.NoError(t, err)
	receipt, err := orders.Place(ctx, domain.OrderInput{UserID: 1})
	require.NoError(t, err)

	png, err := orders.QRCode(ctx, receipt.OrderID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestDefaultQRGenerator_Link(t *testing.T) {
	gen := service.DefaultQRGenerator{BaseURL: "https://resto.example"}
	assert.Equal(t, "https://resto.example/review.html?order_id=42", gen.Link(42))
}
