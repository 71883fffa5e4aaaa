package applicantdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Applicant is a beta applicant identified by a public key.
type Applicant struct {
	bun.BaseModel `bun:"table:beta_applicants,alias:ba"`

	ID        int64     `bun:"id,pk,autoincrement"`
	PublicKey string    `bun:"public_key,notnull,unique"`
	Email     string    `bun:"email"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Badge is static reference data carrying a score.
type Badge struct {
	bun.BaseModel `bun:"table:badges,alias:b"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description"`
	Score       int       `bun:"score,notnull,default:0"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// ApplicantBadge is the many-to-many join between applicants and badges.
type ApplicantBadge struct {
	bun.BaseModel `bun:"table:beta_applicant_badges,alias:bab"`

	BetaApplicantID int64     `bun:"beta_applicant_id,pk"`
	BadgeID         int64     `bun:"badge_id,pk"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
