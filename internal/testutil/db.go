// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"io"
	"testing"

	"go-warung-pos/internal/model"
	"go-warung-pos/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database that lives for the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Options{
		Driver:    database.SQLite,
		DSN:       ":memory:",
		LogWriter: io.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SeedProducts inserts products as given.
func SeedProducts(t testing.TB, db *gorm.DB, products ...model.Product) {
	t.Helper()
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
}
