package service_test

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/saadjs/mealwise/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mealwise.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
