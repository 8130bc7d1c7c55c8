package testutil

import (
	"path/filepath"
	"testing"

	"Mansoor88-6/time-tracking-backend/internal/database"

	"go.uber.org/zap"
)

// NewTestDB opens a migrated SQLite database in a temporary directory.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(db *database.DB) database.UnitOfWork {
	return database.NewUnitOfWork(db.DB)
}
