package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pkordes/easytrip/backend/migrations"
	"github.com/pkordes/easytrip/backend/testutil"
)

// TestMain runs before any test in the repo_test package.
// It applies all pending migrations to the test database so individual tests
// never need to think about schema state.
func TestMain(m *testing.M) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		// No test DB configured; skip all tests in this package cleanly.
		os.Exit(m.Run())
	}

	// goose needs database/sql, not a pgx pool. TestMain has no *testing.T,
	// so open the connection directly instead of through testutil.NewSQLDB.
	db := testutil.MustOpenSQLDB(os.Getenv("TEST_DATABASE_URL"))

	if _, err := migrations.Up(context.Background(), db); err != nil {
		db.Close()
		log.Fatalf("TestMain: run migrations: %v", err)
	}
	db.Close()

	os.Exit(m.Run())
}
