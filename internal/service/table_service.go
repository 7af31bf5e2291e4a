package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
)

type TableService struct {
	store eav.Store
}

func NewTableService(store eav.Store) *TableService {
	return &TableService{store: store}
}

// List returns tables ordered by number.
func (s *TableService) List(ctx context.Context) ([]domain.Table, error) {
	entities, err := s.store.ReadAllEntities(ctx, domain.EntityTable)
	if err != nil {
		return nil, err
	}
	tables := make([]domain.Table, 0, len(entities))
	for _, e := range entities {
		t, err := toTable(e.ID, e.Attrs)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	sort.SliceStable(tables, func(i, j int) bool {
		if tables[i].Number != tables[j].Number {
			return tables[i].Number < tables[j].Number
		}
		return tables[i].ID < tables[j].ID
	})
	return tables, nil
}

// Availability marks each table busy when a booking overlaps the standard
// booking window starting at datetime.
func (s *TableService) Availability(ctx context.Context, datetime string) ([]domain.TableAvailability, error) {
	start, err := eav.ParseTime(datetime)
	if err != nil {
		return nil, err
	}
	tables, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	booked, err := s.bookingsByTable(ctx)
	if err != nil {
		return nil, err
	}

	end := start.Add(domain.BookingDuration)
	out := make([]domain.TableAvailability, 0, len(tables))
	for _, t := range tables {
		out = append(out, domain.TableAvailability{
			Table:       t,
			IsAvailable: !overlapsAny(start, end, booked[t.ID]),
		})
	}
	return out, nil
}

// Free lists tables with enough seats and no booking overlapping the window.
func (s *TableService) Free(ctx context.Context, query domain.FreeTablesQuery) ([]domain.Table, error) {
	start, err := eav.ParseTime(query.Datetime)
	if err != nil {
		return nil, err
	}
	duration := query.DurationMinutes
	if duration == 0 {
		duration = int(domain.BookingDuration / time.Minute)
	}
	if duration < 0 {
		return nil, validationf("duration must be positive")
	}
	if maxMinutes := int(domain.MaxFreeTablesWindow / time.Minute); duration > maxMinutes {
		return nil, validationf("duration must not exceed %d minutes", maxMinutes)
	}
	minSeats := query.MinSeats
	if minSeats <= 0 {
		minSeats = 1
	}
	location := strings.TrimSpace(query.Location)

	tables, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	booked, err := s.bookingsByTable(ctx)
	if err != nil {
		return nil, err
	}

	end := start.Add(time.Duration(duration) * time.Minute)
	free := make([]domain.Table, 0, len(tables))
	for _, t := range tables {
		if t.Seats < minSeats {
			continue
		}
		if location != "" && !strings.EqualFold(t.Location, location) {
			continue
		}
		if overlapsAny(start, end, booked[t.ID]) {
			continue
		}
		free = append(free, t)
	}
	return free, nil
}

func (s *TableService) bookingsByTable(ctx context.Context) (map[int64][]time.Time, error) {
	bookings, err := s.store.ReadAllEntities(ctx, domain.EntityBooking)
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]time.Time)
	for _, b := range bookings {
		tableID, err := b.Attrs.Int("table_id")
		if err != nil {
			continue
		}
		start, err := eav.ParseTime(b.Attrs.String("datetime"))
		if err != nil {
			continue
		}
		out[tableID] = append(out[tableID], start)
	}
	return out, nil
}

func toTable(id int64, rec eav.Record) (domain.Table, error) {
	number, err := rec.Int("number")
	if err != nil {
		return domain.Table{}, err
	}
	seats, err := rec.Int("seats")
	if err != nil {
		return domain.Table{}, err
	}
	return domain.Table{ID: id, Number: number, Seats: seats, Location: rec.String("location")}, nil
}
