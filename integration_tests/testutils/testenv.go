package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/catalytics/catalytics-cron/db/bundb"
	"github.com/catalytics/catalytics-cron/integration_tests/containers"
)

// TestEnvironment holds all resources needed for integration testing
type TestEnvironment struct {
	Ctx         context.Context
	PgContainer *postgres.PostgresContainer
	DSN         string
	DB          *bun.DB
	DBService   *bundb.DBService
}

// NewTestEnvironment starts Postgres, applies every migration and registers
// teardown on t. The test is skipped without a usable Docker provider.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	t.Cleanup(cancel)

	env, err := setup(ctx)
	if err != nil {
		t.Fatalf("failed to set up test environment: %v", err)
	}
	t.Cleanup(func() {
		_ = env.DB.Close()
		_ = env.PgContainer.Terminate(context.Background())
	})
	return env
}

func setup(ctx context.Context) (*TestEnvironment, error) {
	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx, containers.DefaultPostgresOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}

	sqlDB, err := sql.Open("pgx", pgConnStr)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	db := bundb.BunDB(sqlDB)

	if err := RunMigrations(ctx, db, pgConnStr); err != nil {
		_ = db.Close()
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestEnvironment{
		Ctx:         ctx,
		PgContainer: pgContainer,
		DSN:         pgConnStr,
		DB:          db,
		DBService:   bundb.NewDBService(db),
	}, nil
}

// Reset empties every application table.
func (env *TestEnvironment) Reset(t *testing.T) {
	t.Helper()
	if err := CleanupDatabase(env.Ctx, env.DB); err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}
}
