package service

import (
	"context"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
)

type MenuService struct {
	store eav.Store
}

func NewMenuService(store eav.Store) *MenuService {
	return &MenuService{store: store}
}

func (s *MenuService) List(ctx context.Context) ([]domain.MenuItem, error) {
	dishes, err := s.store.ReadAllEntities(ctx, domain.EntityDish)
	if err != nil {
		return nil, err
	}

	items := make([]domain.MenuItem, 0, len(dishes))
	for _, d := range dishes {
		price, err := d.Attrs.Float("price")
		if err != nil {
			return nil, err
		}
		items = append(items, domain.MenuItem{
			ID:    d.ID,
			Name:  d.Attrs.String("name"),
			Price: price,
		})
	}
	return items, nil
}
