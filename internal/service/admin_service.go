package service

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
	"restoflow/internal/metrics"
)

var entityTypeName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

type AdminService struct {
	store    eav.Store
	registry *Registry
}

func NewAdminService(store eav.Store, registry *Registry) *AdminService {
	return &AdminService{store: store, registry: registry}
}

func (s *AdminService) CreateDish(ctx context.Context, in domain.DishInput) (int64, error) {
	fields, err := dishFields(in)
	if err != nil {
		return 0, err
	}
	fields = append(fields, eav.Field{Name: "created_at", Value: eav.FormatTime(time.Now())})

	var id int64
	err = s.store.InTx(ctx, func(q eav.Querier) error {
		id, err = eav.Create(ctx, q, domain.EntityDish, fields)
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.RecordEntityCreated(domain.EntityDish)
	return id, nil
}

// UpdateDish replaces every dish attribute; created_at is not carried over.
func (s *AdminService) UpdateDish(ctx context.Context, id int64, in domain.DishInput) error {
	fields, err := dishFields(in)
	if err != nil {
		return err
	}
	fields = append(fields, eav.Field{Name: "updated_at", Value: eav.FormatTime(time.Now())})

	return s.store.InTx(ctx, func(q eav.Querier) error {
		existed, err := eav.Replace(ctx, q, domain.EntityDish, id, fields)
		if err != nil {
			return err
		}
		if !existed {
			return notFoundf("dish %d", id)
		}
		return nil
	})
}

func (s *AdminService) DeleteDish(ctx context.Context, id int64) error {
	return s.DeleteEntity(ctx, domain.EntityDish, id)
}

func (s *AdminService) CreateCategory(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if err := requireText("name", name); err != nil {
		return 0, err
	}

	var id int64
	err := s.store.InTx(ctx, func(q eav.Querier) error {
		var err error
		id, err = eav.Create(ctx, q, domain.EntityCategory, []eav.Field{{Name: "name", Value: name}})
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.RecordEntityCreated(domain.EntityCategory)
	return id, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, name string) error {
	n, err := s.store.DeleteAttributeRows(ctx, domain.EntityCategory, "name", name)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFoundf("category %q", name)
	}
	return nil
}

func (s *AdminService) GetEntity(ctx context.Context, entityType string, id int64) (eav.Record, error) {
	if _, err := s.registry.Lookup(ctx, s.store, entityType); err != nil {
		return nil, err
	}
	return eav.MustRead(ctx, s.store, entityType, id)
}

// UpdateEntity writes exactly the supplied fields plus updated_at. Attributes
// not resupplied are dropped. Writing to an unused id creates the instance.
func (s *AdminService) UpdateEntity(ctx context.Context, entityType string, id int64, fields map[string]interface{}) error {
	if id <= 0 {
		return validationf("instance id must be positive")
	}
	return s.store.InTx(ctx, func(q eav.Querier) error {
		schema, err := s.registry.Lookup(ctx, q, entityType)
		if err != nil {
			return err
		}
		supplied := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			if k != "updated_at" {
				supplied[k] = v
			}
		}
		coerced, err := schema.Coerce(supplied)
		if err != nil {
			return err
		}
		coerced = append(coerced, eav.Field{Name: "updated_at", Value: eav.FormatTime(time.Now())})
		_, err = eav.Replace(ctx, q, entityType, id, coerced)
		return err
	})
}

func (s *AdminService) DeleteEntity(ctx context.Context, entityType string, id int64) error {
	if _, err := s.registry.Lookup(ctx, s.store, entityType); err != nil {
		return err
	}
	n, err := s.store.DeleteEntity(ctx, entityType, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFoundf("%s %d", entityType, id)
	}
	return nil
}

// ListEntities lists instances newest id first.
func (s *AdminService) ListEntities(ctx context.Context, entityType string) ([]domain.EntitySummary, error) {
	if _, err := s.registry.Lookup(ctx, s.store, entityType); err != nil {
		return nil, err
	}
	entities, err := s.store.ReadAllEntities(ctx, entityType)
	if err != nil {
		return nil, err
	}

	out := make([]domain.EntitySummary, 0, len(entities))
	for _, e := range entities {
		out = append(out, domain.EntitySummary{
			ID:        e.ID,
			Name:      optional(e.Attrs, "name"),
			Title:     optional(e.Attrs, "title"),
			CreatedAt: optional(e.Attrs, "created_at"),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *AdminService) RegisterEntityType(ctx context.Context, t domain.EntityType) error {
	t.Name = strings.TrimSpace(t.Name)
	if !entityTypeName.MatchString(t.Name) {
		return validationf("entity type name %q must match %s", t.Name, entityTypeName.String())
	}
	if s.registry.IsBuiltin(t.Name) {
		return validationf("entity type %q is built in", t.Name)
	}
	return s.store.RegisterEntityType(ctx, t)
}

func (s *AdminService) DeleteEntityType(ctx context.Context, name string) error {
	n, err := s.store.DeleteEntityType(ctx, name)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFoundf("entity type %q", name)
	}
	return nil
}

func (s *AdminService) ListEntityTypes(ctx context.Context) ([]domain.EntityType, error) {
	return s.store.ListEntityTypes(ctx)
}

func dishFields(in domain.DishInput) ([]eav.Field, error) {
	if err := requireText("name", in.Name, "category", in.Category); err != nil {
		return nil, err
	}
	if in.Price == nil {
		return nil, validationf("price is required")
	}
	if *in.Price < 0 {
		return nil, validationf("price must not be negative")
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return []eav.Field{
		{Name: "name", Value: in.Name},
		{Name: "price", Value: eav.FormatFloat(*in.Price)},
		{Name: "description", Value: in.Description},
		{Name: "category", Value: in.Category},
		{Name: "image_url", Value: in.ImageURL},
		{Name: "is_active", Value: eav.FormatBool(active)},
	}, nil
}

func optional(rec eav.Record, attr string) *string {
	v, ok := rec[attr]
	if !ok {
		return nil
	}
	return &v
}
