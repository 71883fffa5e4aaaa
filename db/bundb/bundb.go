// db/bundb/bundb.go
package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	applicantdb "github.com/catalytics/catalytics-cron/app/modules/applicant/infrastructure/repositories"
	leaderboarddb "github.com/catalytics/catalytics-cron/app/modules/leaderboard/infrastructure/repositories"
	"github.com/catalytics/catalytics-cron/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DBService bundles the repositories that share one connection pool.
type DBService struct {
	ApplicantDB   applicantdb.Repository
	LeaderboardDB leaderboarddb.Repository
	db            *bun.DB
}

// GetDB returns the underlying database connection pool.
func (dbService *DBService) GetDB() *bun.DB {
	return dbService.db
}

// Close releases the connection pool.
func (dbService *DBService) Close() error {
	return dbService.db.Close()
}

// NewBunDBService initializes a new DBService with the provided Postgres configuration.
// The pool connects lazily; an unreachable database is reported by Ping but is not fatal,
// so each job phase can degrade on its own.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) *DBService {
	if logger == nil {
		logger = slog.Default()
	}

	sqldb := pgConn(cfg.DSN)
	db := BunDB(sqldb)

	if err := db.PingContext(ctx); err != nil {
		logger.WarnContext(ctx, "Database is not reachable yet", "error", err)
	}

	return NewDBService(db)
}

// NewDBService wires the repositories on an existing bun.DB.
func NewDBService(db *bun.DB) *DBService {
	return &DBService{
		ApplicantDB:   applicantdb.NewRepository(db),
		LeaderboardDB: leaderboarddb.NewRepository(db),
		db:            db,
	}
}

// BunDB returns a new bun.DB for given sql.DB connection pool.
func BunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

func pgConn(dsn string) *sql.DB {
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
}

// Open is a convenience used by the migration CLI.
func Open(dsn string) (*bun.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("bundb.Open: empty DSN")
	}
	return BunDB(pgConn(dsn)), nil
}
