package leaderboardservice

import (
	"context"

	applicantdb "github.com/catalytics/catalytics-cron/app/modules/applicant/infrastructure/repositories"
	leaderboarddb "github.com/catalytics/catalytics-cron/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Leaderboard Repo
// ------------------------

type FakeLeaderboardRepo struct {
	trace []string

	AccumulateExistingFunc func(ctx context.Context, db bun.IDB) (int, error)
	InsertMissingFunc      func(ctx context.Context, db bun.IDB) (int, error)
	ReassignRanksFunc      func(ctx context.Context, db bun.IDB) (int, error)
	StatsFunc              func(ctx context.Context, db bun.IDB) (*leaderboarddb.Stats, error)
	ListEntriesFunc        func(ctx context.Context, db bun.IDB, offset, limit int) ([]leaderboarddb.Entry, error)
	CountEntriesFunc       func(ctx context.Context, db bun.IDB) (int, error)
	GetByPublicKeyFunc     func(ctx context.Context, db bun.IDB, publicKey string) (*leaderboarddb.Entry, error)
}

func NewFakeLeaderboardRepo() *FakeLeaderboardRepo {
	return &FakeLeaderboardRepo{trace: []string{}}
}

func (f *FakeLeaderboardRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLeaderboardRepo) AccumulateExisting(ctx context.Context, db bun.IDB) (int, error) {
	f.record("AccumulateExisting")
	if f.AccumulateExistingFunc != nil {
		return f.AccumulateExistingFunc(ctx, db)
	}
	return 0, nil
}

func (f *FakeLeaderboardRepo) InsertMissing(ctx context.Context, db bun.IDB) (int, error) {
	f.record("InsertMissing")
	if f.InsertMissingFunc != nil {
		return f.InsertMissingFunc(ctx, db)
	}
	return 0, nil
}

func (f *FakeLeaderboardRepo) ReassignRanks(ctx context.Context, db bun.IDB) (int, error) {
	f.record("ReassignRanks")
	if f.ReassignRanksFunc != nil {
		return f.ReassignRanksFunc(ctx, db)
	}
	return 0, nil
}

func (f *FakeLeaderboardRepo) Stats(ctx context.Context, db bun.IDB) (*leaderboarddb.Stats, error) {
	f.record("Stats")
	if f.StatsFunc != nil {
		return f.StatsFunc(ctx, db)
	}
	return &leaderboarddb.Stats{}, nil
}

func (f *FakeLeaderboardRepo) ListEntries(ctx context.Context, db bun.IDB, offset, limit int) ([]leaderboarddb.Entry, error) {
	f.record("ListEntries")
	if f.ListEntriesFunc != nil {
		return f.ListEntriesFunc(ctx, db, offset, limit)
	}
	return nil, nil
}

func (f *FakeLeaderboardRepo) CountEntries(ctx context.Context, db bun.IDB) (int, error) {
	f.record("CountEntries")
	if f.CountEntriesFunc != nil {
		return f.CountEntriesFunc(ctx, db)
	}
	return 0, nil
}

func (f *FakeLeaderboardRepo) GetByPublicKey(ctx context.Context, db bun.IDB, publicKey string) (*leaderboarddb.Entry, error) {
	f.record("GetByPublicKey")
	if f.GetByPublicKeyFunc != nil {
		return f.GetByPublicKeyFunc(ctx, db, publicKey)
	}
	return nil, leaderboarddb.ErrNotFound
}

func (f *FakeLeaderboardRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ leaderboarddb.Repository = (*FakeLeaderboardRepo)(nil)

// ------------------------
// Fake Applicant Repo
// ------------------------

type FakeApplicantRepo struct {
	GetByPublicKeyFunc func(ctx context.Context, db bun.IDB, publicKey string) (*applicantdb.Applicant, error)
	BadgeSumFunc       func(ctx context.Context, db bun.IDB, applicantID int64) (int, error)
}

func (f *FakeApplicantRepo) ListPublicKeys(ctx context.Context, db bun.IDB) ([]string, error) {
	return nil, nil
}

func (f *FakeApplicantRepo) GetByPublicKey(ctx context.Context, db bun.IDB, publicKey string) (*applicantdb.Applicant, error) {
	if f.GetByPublicKeyFunc != nil {
		return f.GetByPublicKeyFunc(ctx, db, publicKey)
	}
	return nil, applicantdb.ErrNotFound
}

func (f *FakeApplicantRepo) BadgeSum(ctx context.Context, db bun.IDB, applicantID int64) (int, error) {
	if f.BadgeSumFunc != nil {
		return f.BadgeSumFunc(ctx, db, applicantID)
	}
	return 0, nil
}

var _ applicantdb.Repository = (*FakeApplicantRepo)(nil)
