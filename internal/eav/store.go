package eav

import (
	"context"

	"restoflow/internal/domain"
)

// Querier is the attribute store surface available both on the pool and
// inside a transaction.
type Querier interface {
	// NextInstanceID reserves the next id for entityType. Ids are never handed out twice.
	NextInstanceID(ctx context.Context, entityType string) (int64, error)
	InsertAttributes(ctx context.Context, rows []Row) error
	UpdateRowValue(ctx context.Context, rowID int64, value string) error
	DeleteEntity(ctx context.Context, entityType string, id int64) (int64, error)
	DeleteEntities(ctx context.Context, entityType string, ids []int64) (int64, error)
	DeleteAttributeRows(ctx context.Context, entityType, attr, value string) (int64, error)
	FindInstanceIDs(ctx context.Context, entityType, attr, value string) ([]int64, error)
	ReadRows(ctx context.Context, entityType string, id int64) ([]Row, error)
	// ReadEntity returns an empty record when the instance has no rows.
	ReadEntity(ctx context.Context, entityType string, id int64) (Record, error)
	ReadEntities(ctx context.Context, entityType string, ids []int64) ([]Entity, error)
	ReadAllEntities(ctx context.Context, entityType string) ([]Entity, error)
	ReadAll(ctx context.Context, entityType string) ([]int64, error)

	// Lock serialises callers sharing key until the surrounding transaction ends.
	// Outside a transaction it is a no-op.
	Lock(ctx context.Context, key string) error

	RegisterEntityType(ctx context.Context, t domain.EntityType) error
	DeleteEntityType(ctx context.Context, name string) (int64, error)
	ListEntityTypes(ctx context.Context) ([]domain.EntityType, error)
	EntityTypeExists(ctx context.Context, name string) (bool, error)
}

// Store runs fn in one transaction: committed when fn returns nil, rolled back otherwise.
type Store interface {
	Querier
	InTx(ctx context.Context, fn func(q Querier) error) error
}
