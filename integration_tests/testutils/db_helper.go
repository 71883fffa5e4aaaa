package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/uptrace/bun"

	"github.com/catalytics/catalytics-cron/db/bundb"
)

// RunMigrations applies the River schema and every module migration.
func RunMigrations(ctx context.Context, db *bun.DB, pgConnStr string) error {
	if _, err := bundb.MigrateRiver(ctx, pgConnStr); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	if err := bundb.MigrateUp(ctx, db); err != nil {
		return err
	}
	log.Println("All migrations ran successfully")
	return nil
}

// Application tables, dependents first.
var appTables = []string{"leaderboard_entries", "beta_applicant_badges", "badges", "beta_applicants"}

// CleanupRiverJobs deletes all jobs from the River queue
func CleanupRiverJobs(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, "DELETE FROM river_job")
	return err
}

// CleanupDatabase truncates all tables in the database to ensure a clean state
func CleanupDatabase(ctx context.Context, db *bun.DB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(appTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	if err := CleanupRiverJobs(ctx, db); err != nil {
		if !strings.Contains(err.Error(), "does not exist") {
			return fmt.Errorf("failed to cleanup river jobs: %w", err)
		}
	}
	return nil
}
