package leaderboardintegrationtests

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	leaderboardservice "github.com/catalytics/catalytics-cron/app/modules/leaderboard/application"
	"github.com/catalytics/catalytics-cron/integration_tests/testutils"
	"github.com/catalytics/catalytics-cron/internal/observability"
)

// LeaderboardTestDeps bundles the service under test and its environment.
type LeaderboardTestDeps struct {
	Env     *testutils.TestEnvironment
	Service *leaderboardservice.LeaderboardService
	Data    *testutils.TestDataGenerator
}

// SetupTestLeaderboardService wires the real service on a migrated database.
func SetupTestLeaderboardService(t *testing.T) LeaderboardTestDeps {
	t.Helper()
	env := testutils.NewTestEnvironment(t)
	svc := leaderboardservice.NewLeaderboardService(
		env.DBService.LeaderboardDB,
		env.DBService.ApplicantDB,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewNoop(),
		noop.NewTracerProvider().Tracer("test"),
		env.DB,
	)
	return LeaderboardTestDeps{
		Env:     env,
		Service: svc,
		Data:    testutils.NewTestDataGenerator(env.DB, 42),
	}
}

// base is the creation time of the first applicant in each scenario.
var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
