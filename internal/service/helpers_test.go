package service_test

import (
	"context"
	"sync"
	"testing"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
	"restoflow/internal/service"
	"restoflow/internal/storage/memory"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Events() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Event(nil), p.events...)
}

func price(v float64) *float64 { return &v }

func seedDish(t *testing.T, store *memory.Store, name string, p float64) int64 {
	t.Helper()
	admin := service.NewAdminService(store, service.NewRegistry())
	id, err := admin.CreateDish(context.Background(), domain.DishInput{Name: name, Price: price(p), Category: "Main"})
	require.NoError(t, err)
	return id
}

func seedTable(t *testing.T, store *memory.Store, number, seats int64, location string) int64 {
	t.Helper()
	id, err := eav.Create(context.Background(), store, domain.EntityTable, []eav.Field{
		{Name: "number", Value: eav.FormatInt(number)},
		{Name: "seats", Value: eav.FormatInt(seats)},
		{Name: "location", Value: location},
	})
	require.NoError(t, err)
	return id
}

func seedUser(t *testing.T, store *memory.Store, name, phone string) int64 {
	t.Helper()
	id, err := service.NewUserService(store).Register(context.Background(), domain.RegisterInput{
		Name: name, Phone: phone, City: "Almaty", Street: "Abay", House: "1",
	})
	require.NoError(t, err)
	return id
}
