package leaderboardservice

import (
	"context"

	leaderboarddb "github.com/catalytics/catalytics-cron/app/modules/leaderboard/infrastructure/repositories"
)

// Service defines the leaderboard operations.
type Service interface {
	// RefreshLeaderboard accumulates badge sums and reassigns ranks in one transaction.
	RefreshLeaderboard(ctx context.Context) (RefreshResult, error)
	Stats(ctx context.Context) (*leaderboarddb.Stats, error)

	GetLeaderboard(ctx context.Context, req ListRequest) (*LeaderboardPage, error)
	GetUserEntry(ctx context.Context, publicKey string) (UserEntry, error)
}
