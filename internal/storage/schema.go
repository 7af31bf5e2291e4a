package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS t_sys_attr_values (
		val_id BIGSERIAL PRIMARY KEY,
		ent_name TEXT NOT NULL,
		attr_name TEXT NOT NULL,
		ent_instance_id BIGINT NOT NULL,
		value TEXT NOT NULL DEFAULT ''
	)`,
	"CREATE INDEX IF NOT EXISTS idx_attr_values_instance ON t_sys_attr_values (ent_name, ent_instance_id)",
	"CREATE INDEX IF NOT EXISTS idx_attr_values_attr ON t_sys_attr_values (ent_name, attr_name, value)",
	"CREATE TABLE IF NOT EXISTS t_sys_ent (ent_name TEXT PRIMARY KEY, ent_app TEXT NOT NULL DEFAULT '')",
	"CREATE TABLE IF NOT EXISTS t_sys_sequences (ent_name TEXT PRIMARY KEY, last_id BIGINT NOT NULL)",
}

func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}
