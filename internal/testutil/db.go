// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"studentblog/internal/db"
)

// NewDB returns a migrated, private in-memory SQLite database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := db.Open(db.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	// one connection keeps SQLite shared-cache locking out of the picture
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gormDB
}
