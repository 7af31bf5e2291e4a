package service

import (
	"context"
	"time"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
	"restoflow/internal/metrics"
)

type BookingService struct {
	store eav.Store
}

func NewBookingService(store eav.Store) *BookingService {
	return &BookingService{store: store}
}

// Create books a table after checking capacity and overlap with existing
// bookings. Both checks and the insert run under a per-table lock.
func (s *BookingService) Create(ctx context.Context, in domain.BookingInput) (int64, error) {
	if err := requirePositive("user_id", in.UserID); err != nil {
		return 0, err
	}
	if err := requirePositive("table_id", in.TableID); err != nil {
		return 0, err
	}
	if err := requirePositive("guests", in.Guests); err != nil {
		return 0, err
	}
	start, err := eav.ParseTime(in.Datetime)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.store.InTx(ctx, func(q eav.Querier) error {
		if err := q.Lock(ctx, "booking:table:"+eav.FormatInt(in.TableID)); err != nil {
			return err
		}
		table, err := eav.MustRead(ctx, q, domain.EntityTable, in.TableID)
		if err != nil {
			return err
		}
		seats, err := table.Int("seats")
		if err != nil {
			return err
		}
		if in.Guests > seats {
			return validationf("table %d seats %d guests, requested %d", in.TableID, seats, in.Guests)
		}

		taken, err := tableBookings(ctx, q, in.TableID)
		if err != nil {
			return err
		}
		if overlapsAny(start, start.Add(domain.BookingDuration), taken) {
			return validationf("table %d is already booked around %s", in.TableID, in.Datetime)
		}

		id, err = eav.Create(ctx, q, domain.EntityBooking, []eav.Field{
			{Name: "user_id", Value: eav.FormatInt(in.UserID)},
			{Name: "datetime", Value: in.Datetime},
			{Name: "table_id", Value: eav.FormatInt(in.TableID)},
			{Name: "guests", Value: eav.FormatInt(in.Guests)},
			{Name: "comment", Value: in.Comment},
			{Name: "created_at", Value: eav.FormatTime(time.Now())},
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.RecordEntityCreated(domain.EntityBooking)
	return id, nil
}

func (s *BookingService) List(ctx context.Context) ([]domain.Booking, error) {
	entities, err := s.store.ReadAllEntities(ctx, domain.EntityBooking)
	if err != nil {
		return nil, err
	}
	return s.withTables(ctx, entities)
}

func (s *BookingService) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	ids, err := s.store.FindInstanceIDs(ctx, domain.EntityBooking, "user_id", eav.FormatInt(userID))
	if err != nil {
		return nil, err
	}
	entities, err := s.store.ReadEntities(ctx, domain.EntityBooking, ids)
	if err != nil {
		return nil, err
	}
	return s.withTables(ctx, entities)
}

func (s *BookingService) withTables(ctx context.Context, entities []eav.Entity) ([]domain.Booking, error) {
	tableIDs := make([]int64, 0, len(entities))
	for _, e := range entities {
		id, err := e.Attrs.Int("table_id")
		if err != nil {
			return nil, err
		}
		tableIDs = append(tableIDs, id)
	}
	tables, err := s.store.ReadEntities(ctx, domain.EntityTable, tableIDs)
	if err != nil {
		return nil, err
	}
	byID := eav.Index(tables)

	out := make([]domain.Booking, 0, len(entities))
	for i, e := range entities {
		userID, err := e.Attrs.Int("user_id")
		if err != nil {
			return nil, err
		}
		guests, err := e.Attrs.Int("guests")
		if err != nil {
			return nil, err
		}
		table, err := toTable(tableIDs[i], byID[tableIDs[i]])
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Booking{
			BookingID: e.ID,
			UserID:    userID,
			Datetime:  e.Attrs.String("datetime"),
			Guests:    guests,
			Table:     domain.BookedTable(table),
			Comment:   e.Attrs.String("comment"),
			CreatedAt: e.Attrs.String("created_at"),
		})
	}
	return out, nil
}

// tableBookings returns the start times of the table's bookings.
// Stored datetimes that do not parse are skipped.
func tableBookings(ctx context.Context, q eav.Querier, tableID int64) ([]time.Time, error) {
	ids, err := q.FindInstanceIDs(ctx, domain.EntityBooking, "table_id", eav.FormatInt(tableID))
	if err != nil {
		return nil, err
	}
	entities, err := q.ReadEntities(ctx, domain.EntityBooking, ids)
	if err != nil {
		return nil, err
	}
	starts := make([]time.Time, 0, len(entities))
	for _, e := range entities {
		if t, err := eav.ParseTime(e.Attrs.String("datetime")); err == nil {
			starts = append(starts, t)
		}
	}
	return starts, nil
}

func overlapsAny(start, end time.Time, bookedStarts []time.Time) bool {
	for _, b := range bookedStarts {
		if start.Before(b.Add(domain.BookingDuration)) && end.After(b) {
			return true
		}
	}
	return false
}
