package leaderboardmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating leaderboard_entries table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS leaderboard_entries (
					id BIGSERIAL PRIMARY KEY,
					beta_applicant_id BIGINT NOT NULL UNIQUE
						REFERENCES beta_applicants (id) ON DELETE CASCADE,
					public_key TEXT NOT NULL,
					total_score INTEGER NOT NULL DEFAULT 0,
					rank INTEGER NOT NULL DEFAULT 0,
					previous_rank INTEGER,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)
			`); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`CREATE INDEX IF NOT EXISTS idx_leaderboard_entries_rank ON leaderboard_entries (rank)`,
			); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`CREATE INDEX IF NOT EXISTS idx_leaderboard_entries_public_key ON leaderboard_entries (public_key)`,
			); err != nil {
				return err
			}

			fmt.Println("leaderboard_entries table created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping leaderboard_entries table...")
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS leaderboard_entries`); err != nil {
			return err
		}
		fmt.Println("leaderboard_entries table dropped successfully!")
		return nil
	})
}
