package applicantservice

import (
	"context"

	applicantdb "github.com/catalytics/catalytics-cron/app/modules/applicant/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Applicant Repo
// ------------------------

type FakeApplicantRepo struct {
	trace []string

	ListPublicKeysFunc func(ctx context.Context, db bun.IDB) ([]string, error)
	GetByPublicKeyFunc func(ctx context.Context, db bun.IDB, publicKey string) (*applicantdb.Applicant, error)
	BadgeSumFunc       func(ctx context.Context, db bun.IDB, applicantID int64) (int, error)
}

func NewFakeApplicantRepo() *FakeApplicantRepo {
	return &FakeApplicantRepo{trace: []string{}}
}

func (f *FakeApplicantRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeApplicantRepo) ListPublicKeys(ctx context.Context, db bun.IDB) ([]string, error) {
	f.record("ListPublicKeys")
	if f.ListPublicKeysFunc != nil {
		return f.ListPublicKeysFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeApplicantRepo) GetByPublicKey(ctx context.Context, db bun.IDB, publicKey string) (*applicantdb.Applicant, error) {
	f.record("GetByPublicKey")
	if f.GetByPublicKeyFunc != nil {
		return f.GetByPublicKeyFunc(ctx, db, publicKey)
	}
	return nil, applicantdb.ErrNotFound
}

func (f *FakeApplicantRepo) BadgeSum(ctx context.Context, db bun.IDB, applicantID int64) (int, error) {
	f.record("BadgeSum")
	if f.BadgeSumFunc != nil {
		return f.BadgeSumFunc(ctx, db, applicantID)
	}
	return 0, nil
}

func (f *FakeApplicantRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ applicantdb.Repository = (*FakeApplicantRepo)(nil)
