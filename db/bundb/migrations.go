package bundb

import (
	"context"
	"fmt"

	applicantmigrations "github.com/catalytics/catalytics-cron/app/modules/applicant/infrastructure/repositories/migrations"
	leaderboardmigrations "github.com/catalytics/catalytics-cron/app/modules/leaderboard/infrastructure/repositories/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// ModuleMigrator is a module's bun migrator.
type ModuleMigrator struct {
	Name     string
	Migrator *migrate.Migrator
}

// Migrators returns the module migrators in dependency order:
// leaderboard_entries references beta_applicants.
func Migrators(db *bun.DB) []ModuleMigrator {
	return []ModuleMigrator{
		newModuleMigrator(db, "applicant", applicantmigrations.Migrations),
		newModuleMigrator(db, "leaderboard", leaderboardmigrations.Migrations),
	}
}

func newModuleMigrator(db *bun.DB, name string, migrations *migrate.Migrations) ModuleMigrator {
	return ModuleMigrator{
		Name: name,
		Migrator: migrate.NewMigrator(db, migrations,
			migrate.WithTableName("bun_migrations_"+name),
			migrate.WithLocksTableName("bun_migration_locks_"+name),
		),
	}
}

// MigrateUp initializes and applies every module's migrations.
func MigrateUp(ctx context.Context, db *bun.DB) error {
	for _, m := range Migrators(db) {
		if err := m.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("bundb.MigrateUp: init %s: %w", m.Name, err)
		}
		if _, err := m.Migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("bundb.MigrateUp: %s: %w", m.Name, err)
		}
	}
	return nil
}

// MigrateRiver applies River's queue schema.
func MigrateRiver(ctx context.Context, dsn string) (*rivermigrate.MigrateResult, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("bundb.MigrateRiver: pool: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return nil, fmt.Errorf("bundb.MigrateRiver: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	if err != nil {
		return nil, fmt.Errorf("bundb.MigrateRiver: %w", err)
	}
	return res, nil
}
