package applicantdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for applicant persistence.
// A nil db argument means "use the repository's own connection".
type Repository interface {
	// ListPublicKeys returns every non-null, non-empty public key.
	ListPublicKeys(ctx context.Context, db bun.IDB) ([]string, error)

	// GetByPublicKey retrieves an applicant. Returns ErrNotFound if absent.
	GetByPublicKey(ctx context.Context, db bun.IDB, publicKey string) (*Applicant, error)

	// BadgeSum returns the summed score of the applicant's badges (0 if none).
	BadgeSum(ctx context.Context, db bun.IDB, applicantID int64) (int, error)
}
