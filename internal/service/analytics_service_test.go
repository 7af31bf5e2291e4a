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

func seedEntity(t *testing.T, store *memory.Store, entityType string, fields ...string) int64 {
	t.Helper()
	rows := make([]eav.Field, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		rows = append(rows, eav.Field{Name: fields[i], Value: fields[i+1]})
	}
	id, err := eav.Create(context.Background(), store, entityType, rows)
	require.NoError(t, err)
	return id
}

func analyticsFixture(t *testing.T) *service.AnalyticsService {
	t.Helper()
	store := memory.NewStore()

	seedEntity(t, store, domain.EntityOrder, "user_id", "1", "total_price", "100.10", "created_at", "2024-03-01T10:00:00.000000", "waiter_id", "7")
	seedEntity(t, store, domain.EntityOrder, "user_id", "2", "total_price", "200.20", "created_at", "2024-03-01T18:30:00.000000", "waiter_id", "7")
	seedEntity(t, store, domain.EntityOrder, "user_id", "1", "total_price", "50", "created_at", "2024-03-02T12:00:00.000000", "waiter_id", "3")
	seedEntity(t, store, domain.EntityOrder, "user_id", "3", "total_price", "10", "created_at", "2024-03-02T13:00:00.000000")

	seedEntity(t, store, domain.EntityOrderItem, "order_id", "1", "dish_id", "5", "quantity", "2")
	seedEntity(t, store, domain.EntityOrderItem, "order_id", "2", "dish_id", "6", "quantity", "3")
	seedEntity(t, store, domain.EntityOrderItem, "order_id", "3", "dish_id", "5", "quantity", "1")
	seedEntity(t, store, domain.EntityOrderItem, "order_id", "4", "dish_id", "4", "quantity", "3")

	seedEntity(t, store, domain.EntityBooking, "table_id", "1", "datetime", "2024-03-01T19:00")
	seedEntity(t, store, domain.EntityBooking, "table_id", "2", "datetime", "2024-03-01T19:00")
	seedEntity(t, store, domain.EntityBooking, "table_id", "1", "datetime", "2024-03-01T12:30")
	seedEntity(t, store, domain.EntityBooking, "table_id", "1", "datetime", "2024-03-02T19:00")
	seedEntity(t, store, domain.EntityBooking, "table_id", "1", "datetime", "soon")

	seedEntity(t, store, domain.EntityUser, "name", "A", "phone", "1", "loyalty_total", "150", "loyalty_discount", "3")
	seedEntity(t, store, domain.EntityUser, "name", "B", "phone", "2", "loyalty_total", "900", "loyalty_discount", "5")
	seedEntity(t, store, domain.EntityUser, "name", "C", "phone", "3", "loyalty_total", "150", "loyalty_discount", "3")

	seedEntity(t, store, domain.EntityStaffShift, "user_id", "7", "start_time", "2024-03-01T09:00", "end_time", "2024-03-01T17:30")
	seedEntity(t, store, domain.EntityStaffShift, "user_id", "7", "start_time", "2024-03-02T09:00", "end_time", "2024-03-02T13:00")
	seedEntity(t, store, domain.EntityStaffShift, "user_id", "3", "start_time", "2024-03-02T09:00", "end_time", "later")

	return service.NewAnalyticsService(store)
}

func TestAnalyticsService_Orders(t *testing.T) {
	analytics := analyticsFixture(t)
	ctx := context.Background()

	daily, err := analytics.DailyOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.DailyOrders{
		{Day: "2024-03-02", OrderCount: 2},
		{Day: "2024-03-01", OrderCount: 2},
	}, daily)

	revenue, err := analytics.RevenueByDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.DailyRevenue{
		{Day: "2024-03-02", TotalRevenue: 60},
		{Day: "2024-03-01", TotalRevenue: 300.3},
	}, revenue)

	popular, err := analytics.PopularDishes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.PopularDish{
		{DishID: 4, TotalQuantity: 3},
		{DishID: 5, TotalQuantity: 3},
		{DishID: 6, TotalQuantity: 3},
	}, popular)

	staff, err := analytics.StaffRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.StaffRevenue{
		{WaiterID: 3, TotalRevenue: 50},
		{WaiterID: 7, TotalRevenue: 300.3},
	}, staff)
}

func TestAnalyticsService_BookingHeatmap(t *testing.T) {
	heatmap, err := analyticsFixture(t).BookingHeatmap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.BookingSlot{
		{Date: "2024-03-02", Time: "19:00", Count: 1},
		{Date: "2024-03-01", Time: "12:30", Count: 1},
		{Date: "2024-03-01", Time: "19:00", Count: 2},
	}, heatmap)
}

func TestAnalyticsService_UserLoyalty(t *testing.T) {
	loyalty, err := analyticsFixture(t).UserLoyalty(context.Background())
	require.NoError(t, err)
	require.Len(t, loyalty, 3)
	assert.Equal(t, "B", loyalty[0].Name)
	assert.Equal(t, 900.0, loyalty[0].LoyaltyTotal)
	assert.Equal(t, 5.0, loyalty[0].LoyaltyDiscount)
	assert.Equal(t, []string{"A", "C"}, []string{loyalty[1].Name, loyalty[2].Name})
}

func TestAnalyticsService_StaffShifts(t *testing.T) {
	shifts, err := analyticsFixture(t).StaffShifts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.StaffShifts{
		{UserID: 3, TotalHours: 0, ShiftCount: 1},
		{UserID: 7, TotalHours: 12.5, ShiftCount: 2},
	}, shifts)
}

func TestAnalyticsService_PopularDishesLimit(t *testing.T) {
	store := memory.NewStore()
	for dish := 1; dish <= 12; dish++ {
		seedEntity(t, store, domain.EntityOrderItem, "dish_id", eav.FormatInt(int64(dish)), "quantity", eav.FormatInt(int64(dish)))
	}

	popular, err := service.NewAnalyticsService(store).PopularDishes(context.Background())
	require.NoError(t, err)
	require.Len(t, popular, 10)
	assert.Equal(t, int64(12), popular[0].DishID)
	assert.Equal(t, int64(3), popular[9].DishID)
}

func TestAnalyticsService_Empty(t *testing.T) {
	analytics := service.NewAnalyticsService(memory.NewStore())

	daily, err := analytics.DailyOrders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, daily)
	assert.Empty(t, daily)
}
