package applicantdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new applicant repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// ListPublicKeys returns every non-null, non-empty public key in id order.
func (r *Impl) ListPublicKeys(ctx context.Context, db bun.IDB) ([]string, error) {
	db = r.resolveDB(db)
	var keys []string
	err := db.NewSelect().
		Model((*Applicant)(nil)).
		Column("public_key").
		Where("public_key IS NOT NULL").
		Where("public_key <> ''").
		Order("id ASC").
		Scan(ctx, &keys)
	if err != nil {
		return nil, fmt.Errorf("applicantdb.ListPublicKeys: %w", err)
	}
	return keys, nil
}

// GetByPublicKey retrieves an applicant by public key.
func (r *Impl) GetByPublicKey(ctx context.Context, db bun.IDB, publicKey string) (*Applicant, error) {
	db = r.resolveDB(db)
	applicant := new(Applicant)
	err := db.NewSelect().
		Model(applicant).
		Where("public_key = ?", publicKey).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("applicantdb.GetByPublicKey: %w", err)
	}
	return applicant, nil
}

// BadgeSum returns the summed score of the applicant's badges.
func (r *Impl) BadgeSum(ctx context.Context, db bun.IDB, applicantID int64) (int, error) {
	db = r.resolveDB(db)
	var sum int
	err := db.NewSelect().
		TableExpr("beta_applicant_badges AS bab").
		Join("JOIN badges AS b ON b.id = bab.badge_id").
		ColumnExpr("COALESCE(SUM(b.score), 0)").
		Where("bab.beta_applicant_id = ?", applicantID).
		Scan(ctx, &sum)
	if err != nil {
		return 0, fmt.Errorf("applicantdb.BadgeSum: %w", err)
	}
	return sum, nil
}
