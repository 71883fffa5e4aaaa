package containers

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresOptions describes the throwaway database used by the integration suite.
type PostgresOptions struct {
	Image          string
	Database       string
	User           string
	Password       string
	StartupTimeout time.Duration
}

// DefaultPostgresOptions matches the Postgres major version the job targets.
func DefaultPostgresOptions() PostgresOptions {
	return PostgresOptions{
		Image:          "postgres:16-alpine",
		Database:       "catalytics_test",
		User:           "catalytics",
		Password:       "catalytics",
		StartupTimeout: 45 * time.Second,
	}
}

// dsn builds a pgx DSN for the wait strategy, which only knows the mapped host and port.
func (o PostgresOptions) dsn(host string, port nat.Port) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		o.User, o.Password, host, port.Port(), o.Database)
}

// SetupPostgresContainer starts Postgres and returns it with a DSN usable by
// both pgdriver and pgx. The container is terminated on any setup error.
func SetupPostgresContainer(ctx context.Context, opts PostgresOptions) (*postgres.PostgresContainer, string, error) {
	container, err := postgres.Run(ctx, opts.Image,
		postgres.WithDatabase(opts.Database),
		postgres.WithUsername(opts.User),
		postgres.WithPassword(opts.Password),
		testcontainers.WithWaitStrategy(
			wait.ForSQL("5432/tcp", "pgx", opts.dsn).WithStartupTimeout(opts.StartupTimeout),
		),
	)
	if err != nil {
		if container != nil {
			_ = container.Terminate(ctx)
		}
		return nil, "", fmt.Errorf("containers.SetupPostgresContainer: start: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, "", fmt.Errorf("containers.SetupPostgresContainer: connection string: %w", err)
	}
	return container, dsn, nil
}
