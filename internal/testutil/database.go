package testutil

import (
	"testing"

	"yckf-go/internal/database"
	"yckf-go/internal/database/migrations"
	"yckf-go/internal/safebox"
)

// NewTestCaseDB creates a new in-memory SQLite case database with schema
// applied. The database is automatically closed when the test completes.
func NewTestCaseDB(t *testing.T) safebox.CaseDatabase {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := migrations.MigrateUp(sqlDB); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	db := database.NewSQLiteDatabaseFromDB(sqlDB)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
