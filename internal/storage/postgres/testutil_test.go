package postgres

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL container seeded with testdata/orders.sql.
// Returns a connector and its DSN. The container is terminated on test cleanup.
func setupTestDB(t *testing.T) (*Connector, string) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("algotrading"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	fixture, err := os.ReadFile(filepath.Join("testdata", "orders.sql"))
	require.NoError(t, err, "failed to read fixture")
	execSQL(t, dsn, string(fixture))

	connector, err := NewConnector(dsn)
	require.NoError(t, err, "failed to create connector")

	return connector, dsn
}

// execSQL runs sql on a dedicated connection.
func execSQL(t *testing.T, dsn, sql string) {
	t.Helper()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err, "failed to connect")
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, sql)
	require.NoError(t, err, "failed to execute sql")
}
