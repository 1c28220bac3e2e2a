package gormstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/store"
	"github.com/Skotchmaster/shop_erp/internal/store/storetest"
	pkgdb "github.com/Skotchmaster/shop_erp/pkg/db"
)

// openExternal returns an opener that resets the schema of a real database
// before every subtest. The test is skipped unless envName is set.
func openExternal(t *testing.T, driver, envName string) func(t *testing.T) store.Store {
	t.Helper()

	dsn := os.Getenv(envName)
	if dsn == "" {
		t.Skipf("%s is required for %s integration tests", envName, driver)
	}

	db, err := pkgdb.Open(context.Background(), driver, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	return func(t *testing.T) store.Store {
		t.Helper()
		require.NoError(t, db.Migrator().DropTable(models.All()...))
		repo := New(db)
		require.NoError(t, repo.Migrate(context.Background()))
		return repo
	}
}

func TestContract_Postgres(t *testing.T) {
	storetest.Run(t, openExternal(t, pkgdb.DriverPostgres, "ERP_TEST_DATABASE_URL"))
}

func TestContract_MySQL(t *testing.T) {
	storetest.Run(t, openExternal(t, pkgdb.DriverMySQL, "ERP_TEST_MYSQL_URL"))
}
