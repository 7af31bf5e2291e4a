package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema(t *testing.T) {
	mockDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	for _, stmt := range schemaStatements {
		sqlMock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, EnsureSchema(context.Background(), sqlx.NewDb(mockDB, "sqlmock")))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestEnsureSchemaStopsOnFailure(t *testing.T) {
	mockDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	sqlMock.ExpectExec(".*").WillReturnError(errors.New("permission denied"))

	err = EnsureSchema(context.Background(), sqlx.NewDb(mockDB, "sqlmock"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure schema")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestEnsureSchemaIndexesLookupByValue(t *testing.T) {
	mockDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	sqlMock.MatchExpectationsInOrder(false)
	sqlMock.ExpectExec(regexp.QuoteMeta("ON t_sys_attr_values (ent_name, attr_name, value)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	for range schemaStatements[1:] {
		sqlMock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, EnsureSchema(context.Background(), sqlx.NewDb(mockDB, "sqlmock")))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
