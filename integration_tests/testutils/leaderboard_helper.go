package testutils

import (
	"context"
	"sort"
	"testing"

	"github.com/uptrace/bun"

	leaderboarddb "github.com/catalytics/catalytics-cron/app/modules/leaderboard/infrastructure/repositories"
)

// QueryEntries returns all leaderboard rows keyed by public key.
func QueryEntries(t *testing.T, ctx context.Context, db *bun.DB) map[string]leaderboarddb.Entry {
	t.Helper()
	var entries []leaderboarddb.Entry
	if err := db.NewSelect().Model(&entries).Scan(ctx); err != nil {
		t.Fatalf("failed to query leaderboard entries: %v", err)
	}
	out := make(map[string]leaderboarddb.Entry, len(entries))
	for _, e := range entries {
		out[e.PublicKey] = e
	}
	return out
}

// Ranks returns the sorted rank values of all rows.
func Ranks(entries map[string]leaderboarddb.Entry) []int {
	ranks := make([]int, 0, len(entries))
	for _, e := range entries {
		ranks = append(ranks, e.Rank)
	}
	sort.Ints(ranks)
	return ranks
}
