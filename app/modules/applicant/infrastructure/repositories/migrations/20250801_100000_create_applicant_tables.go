package applicantmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating beta_applicants, badges and beta_applicant_badges tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS beta_applicants (
					id BIGSERIAL PRIMARY KEY,
					public_key TEXT NOT NULL UNIQUE,
					email TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create beta_applicants table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS badges (
					id BIGSERIAL PRIMARY KEY,
					title TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					score INTEGER NOT NULL DEFAULT 0,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create badges table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS beta_applicant_badges (
					beta_applicant_id BIGINT NOT NULL REFERENCES beta_applicants(id) ON DELETE CASCADE,
					badge_id BIGINT NOT NULL REFERENCES badges(id) ON DELETE CASCADE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (beta_applicant_id, badge_id)
				);
				CREATE INDEX IF NOT EXISTS idx_beta_applicant_badges_badge_id ON beta_applicant_badges (badge_id);
			`); err != nil {
				return fmt.Errorf("failed to create beta_applicant_badges table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping beta_applicant_badges, badges and beta_applicants tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS beta_applicant_badges;
			DROP TABLE IF EXISTS badges;
			DROP TABLE IF EXISTS beta_applicants;
		`)
		return err
	})
}
