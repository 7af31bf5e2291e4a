package service_test

import (
	"context"
	"testing"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
	"restoflow/internal/service"
	"restoflow/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddAccumulatesQuantity(t *testing.T) {
	store := memory.NewStore()
	carts := service.NewCartService(store)
	ctx := context.Background()
	dishID := seedDish(t, store, "Plov", 1500)

	first, err := carts.AddItem(ctx, domain.CartItemInput{UserID: 1, DishID: dishID, Quantity: 2})
	require.NoError(t, err)
	second, err := carts.AddItem(ctx, domain.CartItemInput{UserID: 1, DishID: dishID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	lines, err := store.ReadAllEntities(ctx, domain.EntityCartItem)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "5", lines[0].Attrs.String("quantity"))

	cart, err := carts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first, cart.CartID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(5), cart.Items[0].Quantity)
	assert.Equal(t, 7500.0, cart.Total)
}

func TestCartService_SeparateCartsPerUser(t *testing.T) {
	store := memory.NewStore()
	carts := service.NewCartService(store)
	ctx := context.Background()
	dishID := seedDish(t, store, "Plov", 1500)

	a, err := carts.AddItem(ctx, domain.CartItemInput{UserID: 1, DishID: dishID, Quantity: 1})
	require.NoError(t, err)
	b, err := carts.AddItem(ctx, domain.CartItemInput{UserID: 2, DishID: dishID, Quantity: 1})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCartService_AddValidation(t *testing.T) {
	store := memory.NewStore()
	carts := service.NewCartService(store)
	dishID := seedDish(t, store, "Plov", 1500)

	tests := []struct {
		name          string
		input         domain.CartItemInput
		expectedError error
	}{
		{name: "zero_quantity", input: domain.CartItemInput{UserID: 1, DishID: dishID}, expectedError: domain.ErrValidation},
		{name: "negative_quantity", input: domain.CartItemInput{UserID: 1, DishID: dishID, Quantity: -1}, expectedError: domain.ErrValidation},
		{name: "no_user", input: domain.CartItemInput{DishID: dishID, Quantity: 1}, expectedError: domain.ErrValidation},
		{name: "unknown_dish", input: domain.CartItemInput{UserID: 1, DishID: 404, Quantity: 1}, expectedError: domain.ErrNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := carts.AddItem(context.Background(), testCase.input)
			assert.ErrorIs(t, err, testCase.expectedError)
		})
	}

	ids, err := store.ReadAll(context.Background(), domain.EntityCart)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCartService_GetEmpty(t *testing.T) {
	carts := service.NewCartService(memory.NewStore())

	cart, err := carts.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestCartService_GetSkipsDeletedDish(t *testing.T) {
	store := memory.NewStore()
	carts := service.NewCartService(store)
	ctx := context.Background()
	keep := seedDish(t, store, "Tea", 100)
	gone := seedDish(t, store, "Cake", 300)

	_, err := carts.AddItem(ctx, domain.CartItemInput{UserID: 1, DishID: keep, Quantity: 1})
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, domain.CartItemInput{UserID: 1, DishID: gone, Quantity: 1})
	require.NoError(t, err)
	_, err = store.DeleteEntity(ctx, domain.EntityDish, gone)
	require.NoError(t, err)

	cart, err := carts.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, keep, cart.Items[0].DishID)
	assert.Equal(t, 100.0, cart.Total)
}

func TestCartService_RemoveItem(t *testing.T) {
	store := memory.NewStore()
	carts := service.NewCartService(store)
	ctx := context.Background()
	dishID := seedDish(t, store, "Tea", 100)

	_, err := carts.RemoveItem(ctx, 1, dishID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = carts.AddItem(ctx, domain.CartItemInput{UserID: 1, DishID: dishID, Quantity: 2})
	require.NoError(t, err)

	lineID, err := carts.RemoveItem(ctx, 1, dishID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), lineID)

	rec, err := store.ReadEntity(ctx, domain.EntityCartItem, lineID)
	require.NoError(t, err)
	assert.Empty(t, rec)

	_, err = carts.RemoveItem(ctx, 1, dishID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartService_AddRepairsMissingQuantityRow(t *testing.T) {
	store := memory.NewStore()
	carts := service.NewCartService(store)
	ctx := context.Background()
	dishID := seedDish(t, store, "Tea", 100)

	cartID, err := carts.AddItem(ctx, domain.CartItemInput{UserID: 1, DishID: dishID, Quantity: 1})
	require.NoError(t, err)
	_, err = eav.Replace(ctx, store, domain.EntityCartItem, 1, []eav.Field{
		{Name: "cart_id", Value: eav.FormatInt(cartID)},
		{Name: "dish_id", Value: eav.FormatInt(dishID)},
	})
	require.NoError(t, err)

	_, err = carts.AddItem(ctx, domain.CartItemInput{UserID: 1, DishID: dishID, Quantity: 4})
	require.NoError(t, err)

	rec, err := store.ReadEntity(ctx, domain.EntityCartItem, 1)
	require.NoError(t, err)
	assert.Equal(t, "4", rec.String("quantity"))
}
