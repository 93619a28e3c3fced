package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/gilponto/ponto-backend-go/internal/pkg/database"
	"github.com/gilponto/ponto-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds the connection to the test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema.
// The test is skipped when the variable is not set.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgresql.Migrate(ctx, db))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	return setup
}

// TruncateAllTables removes every row from the kiosk tables.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, `TRUNCATE TABLE time_logs, employees, settings`)
	return err
}
