// Package storetest opens throwaway record stores for tests.
package storetest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"console-cafe-backend/config"
	"console-cafe-backend/internal/db"
	"console-cafe-backend/internal/store"
)

// NewSQLite returns a migrated store on a private in-memory SQLite database.
// The database lives as long as its single pooled connection, which is
// closed when the test ends.
func NewSQLite(t *testing.T) (store.Store, *gorm.DB) {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	}
	gormDB, err := db.Init(cfg, zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return store.NewGormStore(gormDB), gormDB
}
