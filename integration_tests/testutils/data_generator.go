package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/uptrace/bun"

	applicantdb "github.com/catalytics/catalytics-cron/app/modules/applicant/infrastructure/repositories"
)

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	db    *bun.DB
}

// NewTestDataGenerator creates a generator writing to db. A zero seed is random.
func NewTestDataGenerator(db *bun.DB, seed uint64) *TestDataGenerator {
	return &TestDataGenerator{faker: gofakeit.New(seed), db: db}
}

// PublicKey returns a base58-looking 44 character key.
func (g *TestDataGenerator) PublicKey() string {
	const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	b := make([]byte, 44)
	for i := range b {
		b[i] = alphabet[g.faker.IntN(len(alphabet))]
	}
	return string(b)
}

// InsertApplicant creates an applicant created at createdAt.
func (g *TestDataGenerator) InsertApplicant(t *testing.T, ctx context.Context, createdAt time.Time) *applicantdb.Applicant {
	t.Helper()
	a := &applicantdb.Applicant{
		PublicKey: g.PublicKey(),
		Email:     g.faker.Email(),
		CreatedAt: createdAt,
	}
	if _, err := g.db.NewInsert().Model(a).Returning("id").Exec(ctx); err != nil {
		t.Fatalf("failed to insert applicant: %v", err)
	}
	return a
}

// InsertBadge creates a badge worth score.
func (g *TestDataGenerator) InsertBadge(t *testing.T, ctx context.Context, score int) *applicantdb.Badge {
	t.Helper()
	b := &applicantdb.Badge{
		Title:       g.faker.BuzzWord(),
		Description: g.faker.HackerPhrase(),
		Score:       score,
	}
	if _, err := g.db.NewInsert().Model(b).Returning("id").Exec(ctx); err != nil {
		t.Fatalf("failed to insert badge: %v", err)
	}
	return b
}

// Award links a badge to an applicant.
func (g *TestDataGenerator) Award(t *testing.T, ctx context.Context, applicant *applicantdb.Applicant, badge *applicantdb.Badge) {
	t.Helper()
	link := &applicantdb.ApplicantBadge{BetaApplicantID: applicant.ID, BadgeID: badge.ID}
	if _, err := g.db.NewInsert().Model(link).Exec(ctx); err != nil {
		t.Fatalf("failed to award badge: %v", err)
	}
}
