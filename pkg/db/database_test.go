package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteInMemory(t *testing.T) {
	db, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), DriverPostgres, "")
	assert.Error(t, err)

	_, err = Open(context.Background(), "oracle", "dsn")
	assert.ErrorContains(t, err, "unsupported database driver")
}
