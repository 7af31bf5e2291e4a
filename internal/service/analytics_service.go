package service

import (
	"context"
	"math"
	"sort"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
)

const popularDishesLimit = 10

// AnalyticsService aggregates pivoted entities in memory. It never writes.
type AnalyticsService struct {
	store eav.Store
}

func NewAnalyticsService(store eav.Store) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// DailyOrders counts orders per created_at day, latest day first.
func (s *AnalyticsService) DailyOrders(ctx context.Context) ([]domain.DailyOrders, error) {
	orders, err := s.store.ReadAllEntities(ctx, domain.EntityOrder)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, o := range orders {
		if day := dayOf(o.Attrs.String("created_at")); day != "" {
			counts[day]++
		}
	}
	out := make([]domain.DailyOrders, 0, len(counts))
	for day, n := range counts {
		out = append(out, domain.DailyOrders{Day: day, OrderCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day > out[j].Day })
	return out, nil
}

func (s *AnalyticsService) PopularDishes(ctx context.Context) ([]domain.PopularDish, error) {
	items, err := s.store.ReadAllEntities(ctx, domain.EntityOrderItem)
	if err != nil {
		return nil, err
	}
	totals := make(map[int64]int64)
	for _, it := range items {
		dishID, err := it.Attrs.Int("dish_id")
		if err != nil {
			return nil, err
		}
		qty, err := it.Attrs.Int("quantity")
		if err != nil {
			return nil, err
		}
		totals[dishID] += qty
	}
	out := make([]domain.PopularDish, 0, len(totals))
	for id, qty := range totals {
		out = append(out, domain.PopularDish{DishID: id, TotalQuantity: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		return out[i].DishID < out[j].DishID
	})
	if len(out) > popularDishesLimit {
		out = out[:popularDishesLimit]
	}
	return out, nil
}

func (s *AnalyticsService) RevenueByDay(ctx context.Context) ([]domain.DailyRevenue, error) {
	orders, err := s.store.ReadAllEntities(ctx, domain.EntityOrder)
	if err != nil {
		return nil, err
	}
	revenue := make(map[string]float64)
	for _, o := range orders {
		day := dayOf(o.Attrs.String("created_at"))
		if day == "" {
			continue
		}
		total, err := o.Attrs.Float("total_price")
		if err != nil {
			return nil, err
		}
		revenue[day] += total
	}
	out := make([]domain.DailyRevenue, 0, len(revenue))
	for day, total := range revenue {
		out = append(out, domain.DailyRevenue{Day: day, TotalRevenue: round2(total)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day > out[j].Day })
	return out, nil
}

// BookingHeatmap buckets bookings by date and HH:MM slot.
func (s *AnalyticsService) BookingHeatmap(ctx context.Context) ([]domain.BookingSlot, error) {
	bookings, err := s.store.ReadAllEntities(ctx, domain.EntityBooking)
	if err != nil {
		return nil, err
	}
	type slot struct{ date, time string }
	counts := make(map[slot]int)
	for _, b := range bookings {
		dt := b.Attrs.String("datetime")
		if len(dt) < 16 {
			continue
		}
		counts[slot{date: dt[:10], time: dt[11:16]}]++
	}
	out := make([]domain.BookingSlot, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.BookingSlot{Date: k.date, Time: k.time, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (s *AnalyticsService) UserLoyalty(ctx context.Context) ([]domain.LoyaltyEntry, error) {
	users, err := s.store.ReadAllEntities(ctx, domain.EntityUser)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LoyaltyEntry, 0, len(users))
	for _, u := range users {
		total, err := u.Attrs.Float("loyalty_total")
		if err != nil {
			return nil, err
		}
		discount, err := u.Attrs.Float("loyalty_discount")
		if err != nil {
			return nil, err
		}
		out = append(out, domain.LoyaltyEntry{
			UserID:          u.ID,
			Name:            u.Attrs.String("name"),
			Phone:           u.Attrs.String("phone"),
			LoyaltyTotal:    total,
			LoyaltyDiscount: discount,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LoyaltyTotal > out[j].LoyaltyTotal })
	return out, nil
}

// StaffShifts sums worked hours per staff member. A shift whose times do not
// parse still counts toward shift_count with zero hours.
func (s *AnalyticsService) StaffShifts(ctx context.Context) ([]domain.StaffShifts, error) {
	shifts, err := s.store.ReadAllEntities(ctx, domain.EntityStaffShift)
	if err != nil {
		return nil, err
	}
	byUser := make(map[int64]*domain.StaffShifts)
	for _, sh := range shifts {
		userID, err := sh.Attrs.Int("user_id")
		if err != nil {
			return nil, err
		}
		agg, ok := byUser[userID]
		if !ok {
			agg = &domain.StaffShifts{UserID: userID}
			byUser[userID] = agg
		}
		agg.ShiftCount++

		start, err1 := sh.Attrs.Time("start_time")
		end, err2 := sh.Attrs.Time("end_time")
		if err1 == nil && err2 == nil && !start.IsZero() && end.After(start) {
			agg.TotalHours += end.Sub(start).Hours()
		}
	}
	out := make([]domain.StaffShifts, 0, len(byUser))
	for _, agg := range byUser {
		agg.TotalHours = round2(agg.TotalHours)
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// StaffRevenue sums order totals per waiter; orders without a waiter are skipped.
func (s *AnalyticsService) StaffRevenue(ctx context.Context) ([]domain.StaffRevenue, error) {
	orders, err := s.store.ReadAllEntities(ctx, domain.EntityOrder)
	if err != nil {
		return nil, err
	}
	revenue := make(map[int64]float64)
	for _, o := range orders {
		waiterID, err := o.Attrs.Int("waiter_id")
		if err != nil {
			return nil, err
		}
		if waiterID == 0 {
			continue
		}
		total, err := o.Attrs.Float("total_price")
		if err != nil {
			return nil, err
		}
		revenue[waiterID] += total
	}
	out := make([]domain.StaffRevenue, 0, len(revenue))
	for id, total := range revenue {
		out = append(out, domain.StaffRevenue{WaiterID: id, TotalRevenue: round2(total)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WaiterID < out[j].WaiterID })
	return out, nil
}

func dayOf(ts string) string {
	if len(ts) < 10 {
		return ""
	}
	return ts[:10]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
