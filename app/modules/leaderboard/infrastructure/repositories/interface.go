package leaderboarddb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for leaderboard persistence.
// A nil db uses the repository's own connection; pass a bun.Tx to join a transaction.
type Repository interface {
	// Refresh steps. Callers run all three in one transaction.
	AccumulateExisting(ctx context.Context, db bun.IDB) (int, error)
	InsertMissing(ctx context.Context, db bun.IDB) (int, error)
	ReassignRanks(ctx context.Context, db bun.IDB) (int, error)

	Stats(ctx context.Context, db bun.IDB) (*Stats, error)
	ListEntries(ctx context.Context, db bun.IDB, offset, limit int) ([]Entry, error)
	CountEntries(ctx context.Context, db bun.IDB) (int, error)
	GetByPublicKey(ctx context.Context, db bun.IDB, publicKey string) (*Entry, error)
}
