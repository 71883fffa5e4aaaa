package jobservice

import (
	"context"

	applicantservice "github.com/catalytics/catalytics-cron/app/modules/applicant/application"
	badgesyncservice "github.com/catalytics/catalytics-cron/app/modules/badgesync/application"
	leaderboardservice "github.com/catalytics/catalytics-cron/app/modules/leaderboard/application"
	leaderboarddb "github.com/catalytics/catalytics-cron/app/modules/leaderboard/infrastructure/repositories"
)

// callLog is shared by the fakes so the test sees the cross-service order.
type callLog struct {
	calls []string
}

func (l *callLog) record(step string) {
	l.calls = append(l.calls, step)
}

type FakeApplicantService struct {
	log  *callLog
	Keys []string
}

func (f *FakeApplicantService) ListPublicKeys(ctx context.Context) []string {
	f.log.record("ListPublicKeys")
	return f.Keys
}

type FakeBadgeSyncService struct {
	log      *callLog
	gotKeys  []string
	Failures int
}

func (f *FakeBadgeSyncService) SyncAll(ctx context.Context, keys []string) badgesyncservice.SyncSummary {
	f.log.record("SyncAll")
	f.gotKeys = keys
	return badgesyncservice.SyncSummary{
		Total:     len(keys),
		Succeeded: len(keys) - f.Failures,
		Failed:    f.Failures,
	}
}

type FakeLeaderboardService struct {
	log *callLog

	RefreshResult leaderboardservice.RefreshResult
	RefreshErr    error
	StatsFunc     func(call int) (*leaderboarddb.Stats, error)

	statsCalls int
}

func (f *FakeLeaderboardService) RefreshLeaderboard(ctx context.Context) (leaderboardservice.RefreshResult, error) {
	f.log.record("RefreshLeaderboard")
	return f.RefreshResult, f.RefreshErr
}

func (f *FakeLeaderboardService) Stats(ctx context.Context) (*leaderboarddb.Stats, error) {
	f.log.record("Stats")
	f.statsCalls++
	if f.StatsFunc != nil {
		return f.StatsFunc(f.statsCalls)
	}
	return &leaderboarddb.Stats{}, nil
}

func (f *FakeLeaderboardService) GetLeaderboard(ctx context.Context, req leaderboardservice.ListRequest) (*leaderboardservice.LeaderboardPage, error) {
	return nil, nil
}

func (f *FakeLeaderboardService) GetUserEntry(ctx context.Context, publicKey string) (leaderboardservice.UserEntry, error) {
	return leaderboardservice.UserEntry{}, nil
}

var (
	_ applicantservice.Service   = (*FakeApplicantService)(nil)
	_ badgesyncservice.Service   = (*FakeBadgeSyncService)(nil)
	_ leaderboardservice.Service = (*FakeLeaderboardService)(nil)
)
