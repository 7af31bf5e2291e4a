package eav

import (
	"context"
	"fmt"

	"restoflow/internal/domain"
)

// Create allocates an id for entityType and writes fields under it.
func Create(ctx context.Context, q Querier, entityType string, fields []Field) (int64, error) {
	id, err := q.NextInstanceID(ctx, entityType)
	if err != nil {
		return 0, err
	}
	if err := q.InsertAttributes(ctx, ToRows(entityType, id, fields)); err != nil {
		return 0, err
	}
	return id, nil
}

// Replace drops every row of the instance and writes fields in their place.
// It reports whether the instance existed before.
func Replace(ctx context.Context, q Querier, entityType string, id int64, fields []Field) (bool, error) {
	removed, err := q.DeleteEntity(ctx, entityType, id)
	if err != nil {
		return false, err
	}
	if err := q.InsertAttributes(ctx, ToRows(entityType, id, fields)); err != nil {
		return false, err
	}
	return removed > 0, nil
}

// FindOne returns the lowest instance id whose attr equals value.
func FindOne(ctx context.Context, q Querier, entityType, attr, value string) (int64, bool, error) {
	ids, err := q.FindInstanceIDs(ctx, entityType, attr, value)
	if err != nil || len(ids) == 0 {
		return 0, false, err
	}
	return ids[0], true, nil
}

// FindJoined returns the instances matching every attribute/value pair.
func FindJoined(ctx context.Context, q Querier, entityType string, match ...Field) ([]int64, error) {
	sets := make([][]int64, 0, len(match))
	for _, m := range match {
		ids, err := q.FindInstanceIDs(ctx, entityType, m.Name, m.Value)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, nil
		}
		sets = append(sets, ids)
	}
	return Intersect(sets...), nil
}

// MustRead reads one instance and fails with ErrNotFound when it has no rows.
func MustRead(ctx context.Context, q Querier, entityType string, id int64) (Record, error) {
	rec, err := q.ReadEntity(ctx, entityType, id)
	if err != nil {
		return nil, err
	}
	if len(rec) == 0 {
		return nil, fmt.Errorf("%w: %s %d", domain.ErrNotFound, entityType, id)
	}
	return rec, nil
}

// Index maps entities by instance id.
func Index(entities []Entity) map[int64]Record {
	out := make(map[int64]Record, len(entities))
	for _, e := range entities {
		out[e.ID] = e.Attrs
	}
	return out
}
