package leaderboarddb

import (
	"time"

	"github.com/uptrace/bun"
)

// Entry is one applicant's row on the leaderboard.
type Entry struct {
	bun.BaseModel `bun:"table:leaderboard_entries,alias:le"`

	ID              int64     `bun:"id,pk,autoincrement"`
	BetaApplicantID int64     `bun:"beta_applicant_id,notnull,unique"`
	PublicKey       string    `bun:"public_key,notnull"`
	TotalScore      int       `bun:"total_score,notnull,default:0"`
	Rank            int       `bun:"rank,notnull,default:0"`
	PreviousRank    *int      `bun:"previous_rank"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Stats summarizes the table for the job report.
type Stats struct {
	TotalEntries       int `bun:"total_entries"`
	MaxScore           int `bun:"max_score"`
	MinScore           int `bun:"min_score"`
	EntriesWithHistory int `bun:"entries_with_history"`
}
