package leaderboarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// badgeSums yields one row per applicant with the summed score of its badges.
const badgeSums = `
SELECT
	ba.id AS beta_applicant_id,
	ba.public_key AS public_key,
	COALESCE(SUM(b.score), 0)::INTEGER AS badge_sum
FROM beta_applicants AS ba
LEFT JOIN beta_applicant_badges AS bab ON bab.beta_applicant_id = ba.id
LEFT JOIN badges AS b ON b.id = bab.badge_id
GROUP BY ba.id, ba.public_key`

var accumulateExistingQuery = `
UPDATE leaderboard_entries AS le
SET
	previous_rank = le.rank,
	total_score = le.total_score + s.badge_sum,
	public_key = s.public_key,
	updated_at = NOW()
FROM (` + badgeSums + `
) AS s
WHERE le.beta_applicant_id = s.beta_applicant_id`

var insertMissingQuery = `
INSERT INTO leaderboard_entries
	(beta_applicant_id, public_key, total_score, rank, previous_rank, created_at, updated_at)
SELECT s.beta_applicant_id, s.public_key, s.badge_sum, 0, NULL, NOW(), NOW()
FROM (` + badgeSums + `
) AS s
WHERE NOT EXISTS (
	SELECT 1 FROM leaderboard_entries AS le WHERE le.beta_applicant_id = s.beta_applicant_id
)`

// Ties on total_score go to the earlier applicant, then the lower id.
const reassignRanksQuery = `
UPDATE leaderboard_entries AS le
SET rank = r.new_rank
FROM (
	SELECT
		e.id,
		ROW_NUMBER() OVER (ORDER BY e.total_score DESC, ba.created_at ASC, ba.id ASC)::INTEGER AS new_rank
	FROM leaderboard_entries AS e
	JOIN beta_applicants AS ba ON ba.id = e.beta_applicant_id
) AS r
WHERE le.id = r.id`

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new leaderboard repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// AccumulateExisting adds the current badge sum to every existing row and
// moves its rank into previous_rank.
func (r *Impl) AccumulateExisting(ctx context.Context, db bun.IDB) (int, error) {
	db = r.resolveDB(db)
	res, err := db.NewRaw(accumulateExistingQuery).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("leaderboarddb.AccumulateExisting: %w", err)
	}
	return rowsAffected(res)
}

// InsertMissing creates rows for applicants not yet on the leaderboard.
func (r *Impl) InsertMissing(ctx context.Context, db bun.IDB) (int, error) {
	db = r.resolveDB(db)
	res, err := db.NewRaw(insertMissingQuery).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("leaderboarddb.InsertMissing: %w", err)
	}
	return rowsAffected(res)
}

// ReassignRanks numbers every row 1..N by total_score.
func (r *Impl) ReassignRanks(ctx context.Context, db bun.IDB) (int, error) {
	db = r.resolveDB(db)
	res, err := db.NewRaw(reassignRanksQuery).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("leaderboarddb.ReassignRanks: %w", err)
	}
	return rowsAffected(res)
}

// Stats returns aggregate figures over all entries.
func (r *Impl) Stats(ctx context.Context, db bun.IDB) (*Stats, error) {
	db = r.resolveDB(db)
	stats := new(Stats)
	err := db.NewSelect().
		Model((*Entry)(nil)).
		ColumnExpr("COUNT(*) AS total_entries").
		ColumnExpr("COALESCE(MAX(le.total_score), 0) AS max_score").
		ColumnExpr("COALESCE(MIN(le.total_score), 0) AS min_score").
		ColumnExpr("COUNT(le.previous_rank) AS entries_with_history").
		Scan(ctx, stats)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.Stats: %w", err)
	}
	return stats, nil
}

// ListEntries returns a page of entries in rank order.
func (r *Impl) ListEntries(ctx context.Context, db bun.IDB, offset, limit int) ([]Entry, error) {
	db = r.resolveDB(db)
	var entries []Entry
	err := db.NewSelect().
		Model(&entries).
		OrderExpr("le.rank ASC, le.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.ListEntries: %w", err)
	}
	return entries, nil
}

// CountEntries returns the number of leaderboard rows.
func (r *Impl) CountEntries(ctx context.Context, db bun.IDB) (int, error) {
	db = r.resolveDB(db)
	count, err := db.NewSelect().Model((*Entry)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("leaderboarddb.CountEntries: %w", err)
	}
	return count, nil
}

// GetByPublicKey retrieves the entry of one applicant.
func (r *Impl) GetByPublicKey(ctx context.Context, db bun.IDB, publicKey string) (*Entry, error) {
	db = r.resolveDB(db)
	entry := new(Entry)
	err := db.NewSelect().
		Model(entry).
		Where("le.public_key = ?", publicKey).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("leaderboarddb.GetByPublicKey: %w", err)
	}
	return entry, nil
}

func rowsAffected(res sql.Result) (int, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("leaderboarddb: rows affected: %w", err)
	}
	return int(n), nil
}
