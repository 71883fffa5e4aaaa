package jobservice

import (
	"fmt"
	"io"
	"strings"
	"time"

	badgesyncservice "github.com/catalytics/catalytics-cron/app/modules/badgesync/application"
	leaderboardservice "github.com/catalytics/catalytics-cron/app/modules/leaderboard/application"
	leaderboarddb "github.com/catalytics/catalytics-cron/app/modules/leaderboard/infrastructure/repositories"
)

// Stats is a leaderboard snapshot taken around the refresh.
type Stats leaderboarddb.Stats

// Report is the outcome of one job run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	Sync badgesyncservice.SyncSummary

	Refresh    leaderboardservice.RefreshResult
	RefreshErr error

	Before *Stats
	After  *Stats
}

// OK is true when every sync call succeeded and the refresh committed.
func (r Report) OK() bool {
	return r.Sync.OK() && r.RefreshErr == nil
}

// WriteSummary prints the human-readable job summary.
func (r Report) WriteSummary(w io.Writer) error {
	rule := strings.Repeat("=", 50)
	sub := strings.Repeat("-", 30)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\nJob Summary (%s)\n%s\n", rule, r.RunID, sub)

	fmt.Fprintln(&b, "Badge Sync:")
	fmt.Fprintf(&b, "  - Total processed: %d\n", r.Sync.Total)
	fmt.Fprintf(&b, "  - Successful: %d\n", r.Sync.Succeeded)
	fmt.Fprintf(&b, "  - Failed: %d\n", r.Sync.Failed)
	fmt.Fprintf(&b, "  - Status: %s\n", status(r.Sync.OK(), "Success", "Some failures"))

	fmt.Fprintln(&b, "Leaderboard Refresh:")
	if r.RefreshErr == nil {
		fmt.Fprintf(&b, "  - Updated: %d\n", r.Refresh.Updated)
		fmt.Fprintf(&b, "  - Inserted: %d\n", r.Refresh.Inserted)
	} else {
		fmt.Fprintf(&b, "  - Error: %v\n", r.RefreshErr)
	}
	if r.Before != nil {
		fmt.Fprintf(&b, "  - Before: %s\n", r.Before)
	}
	if r.After != nil {
		fmt.Fprintf(&b, "  - After: %s\n", r.After)
	}
	fmt.Fprintf(&b, "  - Status: %s\n", status(r.RefreshErr == nil, "Success", "Failed"))

	fmt.Fprintf(&b, "Overall Status: %s\n", status(r.OK(), "Complete Success", "Some Issues"))

	_, err := io.WriteString(w, b.String())
	return err
}

func (s *Stats) String() string {
	return fmt.Sprintf("%d entries, max score: %d, min score: %d, with history: %d",
		s.TotalEntries, s.MaxScore, s.MinScore, s.EntriesWithHistory)
}

func status(ok bool, good, bad string) string {
	if ok {
		return "✓ " + good
	}
	return "✗ " + bad
}
