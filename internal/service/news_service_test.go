package service_test

import (
	"context"
	"testing"

	"restoflow/internal/domain"
	"restoflow/internal/service"
	"restoflow/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsService_CreateAndList(t *testing.T) {
	news := service.NewNewsService(memory.NewStore())
	ctx := context.Background()

	first, err := news.Create(ctx, domain.NewsInput{Title: "Opening", Body: "We are open"})
	require.NoError(t, err)
	second, err := news.Create(ctx, domain.NewsInput{Title: "Happy hour", Body: "-20%", Type: " PROMO ", Tags: "drinks"})
	require.NoError(t, err)

	item, err := news.Get(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultNewsType, item.Type)

	item, err = news.Get(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "promo", item.Type)
	assert.Equal(t, "drinks", item.Tags)

	list, err := news.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.GreaterOrEqual(t, list[0].CreatedAt, list[1].CreatedAt)

	_, err = news.Get(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNewsService_CreateValidation(t *testing.T) {
	news := service.NewNewsService(memory.NewStore())

	tests := []struct {
		name  string
		input domain.NewsInput
	}{
		{name: "missing_title", input: domain.NewsInput{Body: "b"}},
		{name: "missing_body", input: domain.NewsInput{Title: "t"}},
		{name: "unknown_type", input: domain.NewsInput{Title: "t", Body: "b", Type: "gossip"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := news.Create(context.Background(), testCase.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestContactService(t *testing.T) {
	store := memory.NewStore()
	contacts := service.NewContactService(store)
	admin := service.NewAdminService(store, service.NewRegistry())
	ctx := context.Background()

	info, err := contacts.Info(ctx)
	require.NoError(t, err)
	assert.Empty(t, info)

	require.NoError(t, admin.UpdateEntity(ctx, domain.EntityContactInfo, 1, map[string]interface{}{
		"phone": "+7 727 000 00 00", "address": "Abay 10",
	}))
	require.NoError(t, admin.UpdateEntity(ctx, domain.EntityContactInfo, 2, map[string]interface{}{
		"phone": "+7 727 111 11 11",
	}))

	info, err = contacts.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "+7 727 111 11 11", info["phone"])
	assert.Equal(t, "Abay 10", info["address"])

	id, err := contacts.SubmitMessage(ctx, domain.ContactMessageInput{Name: "Dana", Phone: "+7701", Message: "Table for 12?"})
	require.NoError(t, err)
	rec, err := store.ReadEntity(ctx, domain.EntitySupportMessage, id)
	require.NoError(t, err)
	assert.Equal(t, "Table for 12?", rec.String("message"))
	assert.NotEmpty(t, rec.String("created_at"))

	_, err = contacts.SubmitMessage(ctx, domain.ContactMessageInput{Name: "Dana", Phone: "+7701"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMenuService_List(t *testing.T) {
	store := memory.NewStore()
	soup := seedDish(t, store, "Soup", 450)
	tea := seedDish(t, store, "Tea", 120.5)

	items, err := service.NewMenuService(store).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.MenuItem{
		{ID: soup, Name: "Soup", Price: 450},
		{ID: tea, Name: "Tea", Price: 120.5},
	}, items)
}
