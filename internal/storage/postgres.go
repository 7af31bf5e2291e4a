package storage

import (
	"context"
	"fmt"
	"strings"

	"restoflow/internal/domain"
	"restoflow/internal/eav"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const rowColumns = "val_id, ent_name, attr_name, ent_instance_id, value"

type PostgresStore struct {
	querier
	DB *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{querier: querier{ext: db}, DB: db}
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(q eav.Querier) error) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(&querier{ext: tx, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

var _ eav.Store = (*PostgresStore)(nil)

type querier struct {
	ext  sqlx.ExtContext
	inTx bool
}

func (q *querier) NextInstanceID(ctx context.Context, entityType string) (int64, error) {
	var id int64
	err := sqlx.GetContext(ctx, q.ext, &id, `
		INSERT INTO t_sys_sequences (ent_name, last_id)
		SELECT $1, COALESCE(MAX(ent_instance_id), 0) + 1
		FROM t_sys_attr_values WHERE ent_name = $1
		ON CONFLICT (ent_name) DO UPDATE
		SET last_id = GREATEST(t_sys_sequences.last_id + 1, EXCLUDED.last_id)
		RETURNING last_id
	`, entityType)
	if err != nil {
		return 0, storageErr("allocate "+entityType+" id", err)
	}
	return id, nil
}

func (q *querier) InsertAttributes(ctx context.Context, rows []eav.Row) error {
	if len(rows) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO t_sys_attr_values (ent_name, attr_name, ent_instance_id, value) VALUES ")
	args := make([]interface{}, 0, len(rows)*4)
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 4
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4)
		args = append(args, row.EntityType, row.Attribute, row.InstanceID, row.Value)
	}

	if _, err := q.ext.ExecContext(ctx, sb.String(), args...); err != nil {
		return storageErr("insert attributes", err)
	}
	return nil
}

func (q *querier) UpdateRowValue(ctx context.Context, rowID int64, value string) error {
	res, err := q.ext.ExecContext(ctx, "UPDATE t_sys_attr_values SET value = $1 WHERE val_id = $2", value, rowID)
	if err != nil {
		return storageErr("update row", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update row", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: attribute row %d", domain.ErrNotFound, rowID)
	}
	return nil
}

func (q *querier) DeleteEntity(ctx context.Context, entityType string, id int64) (int64, error) {
	return q.exec(ctx, "delete "+entityType,
		"DELETE FROM t_sys_attr_values WHERE ent_name = $1 AND ent_instance_id = $2", entityType, id)
}

func (q *querier) DeleteEntities(ctx context.Context, entityType string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return q.exec(ctx, "delete "+entityType,
		"DELETE FROM t_sys_attr_values WHERE ent_name = $1 AND ent_instance_id = ANY($2)", entityType, pq.Array(ids))
}

func (q *querier) DeleteAttributeRows(ctx context.Context, entityType, attr, value string) (int64, error) {
	return q.exec(ctx, "delete "+entityType+" rows",
		"DELETE FROM t_sys_attr_values WHERE ent_name = $1 AND attr_name = $2 AND value = $3", entityType, attr, value)
}

func (q *querier) FindInstanceIDs(ctx context.Context, entityType, attr, value string) ([]int64, error) {
	ids := []int64{}
	err := sqlx.SelectContext(ctx, q.ext, &ids, `
		SELECT DISTINCT ent_instance_id FROM t_sys_attr_values
		WHERE ent_name = $1 AND attr_name = $2 AND value = $3
		ORDER BY ent_instance_id
	`, entityType, attr, value)
	if err != nil {
		return nil, storageErr("find "+entityType, err)
	}
	return ids, nil
}

func (q *querier) ReadRows(ctx context.Context, entityType string, id int64) ([]eav.Row, error) {
	rows := []eav.Row{}
	err := sqlx.SelectContext(ctx, q.ext, &rows,
		"SELECT "+rowColumns+" FROM t_sys_attr_values WHERE ent_name = $1 AND ent_instance_id = $2 ORDER BY val_id",
		entityType, id)
	if err != nil {
		return nil, storageErr("read "+entityType, err)
	}
	return rows, nil
}

func (q *querier) ReadEntity(ctx context.Context, entityType string, id int64) (eav.Record, error) {
	rows, err := q.ReadRows(ctx, entityType, id)
	if err != nil {
		return nil, err
	}
	if rec, ok := eav.Pivot(rows)[id]; ok {
		return rec, nil
	}
	return eav.Record{}, nil
}

func (q *querier) ReadEntities(ctx context.Context, entityType string, ids []int64) ([]eav.Entity, error) {
	if len(ids) == 0 {
		return []eav.Entity{}, nil
	}
	rows := []eav.Row{}
	err := sqlx.SelectContext(ctx, q.ext, &rows,
		"SELECT "+rowColumns+" FROM t_sys_attr_values WHERE ent_name = $1 AND ent_instance_id = ANY($2) ORDER BY val_id",
		entityType, pq.Array(ids))
	if err != nil {
		return nil, storageErr("read "+entityType, err)
	}
	return eav.Entities(entityType, rows), nil
}

func (q *querier) ReadAllEntities(ctx context.Context, entityType string) ([]eav.Entity, error) {
	rows := []eav.Row{}
	err := sqlx.SelectContext(ctx, q.ext, &rows,
		"SELECT "+rowColumns+" FROM t_sys_attr_values WHERE ent_name = $1 ORDER BY val_id", entityType)
	if err != nil {
		return nil, storageErr("read "+entityType, err)
	}
	return eav.Entities(entityType, rows), nil
}

func (q *querier) ReadAll(ctx context.Context, entityType string) ([]int64, error) {
	ids := []int64{}
	err := sqlx.SelectContext(ctx, q.ext, &ids,
		"SELECT DISTINCT ent_instance_id FROM t_sys_attr_values WHERE ent_name = $1 ORDER BY ent_instance_id", entityType)
	if err != nil {
		return nil, storageErr("list "+entityType, err)
	}
	return ids, nil
}

func (q *querier) Lock(ctx context.Context, key string) error {
	if !q.inTx {
		return nil
	}
	if _, err := q.ext.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return storageErr("lock "+key, err)
	}
	return nil
}

func (q *querier) RegisterEntityType(ctx context.Context, t domain.EntityType) error {
	_, err := q.ext.ExecContext(ctx, `
		INSERT INTO t_sys_ent (ent_name, ent_app) VALUES ($1, $2)
		ON CONFLICT (ent_name) DO UPDATE SET ent_app = EXCLUDED.ent_app
	`, t.Name, t.App)
	if err != nil {
		return storageErr("register entity type", err)
	}
	return nil
}

func (q *querier) DeleteEntityType(ctx context.Context, name string) (int64, error) {
	return q.exec(ctx, "delete entity type", "DELETE FROM t_sys_ent WHERE ent_name = $1", name)
}

func (q *querier) ListEntityTypes(ctx context.Context) ([]domain.EntityType, error) {
	types := []domain.EntityType{}
	if err := sqlx.SelectContext(ctx, q.ext, &types, "SELECT ent_name, ent_app FROM t_sys_ent ORDER BY ent_name"); err != nil {
		return nil, storageErr("list entity types", err)
	}
	return types, nil
}

func (q *querier) EntityTypeExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := sqlx.GetContext(ctx, q.ext, &exists, "SELECT EXISTS(SELECT 1 FROM t_sys_ent WHERE ent_name = $1)", name); err != nil {
		return false, storageErr("lookup entity type", err)
	}
	return exists, nil
}

func (q *querier) exec(ctx context.Context, op, query string, args ...interface{}) (int64, error) {
	res, err := q.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, storageErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr(op, err)
	}
	return n, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}
