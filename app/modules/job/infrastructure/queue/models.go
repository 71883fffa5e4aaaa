package jobqueue

import (
	"github.com/riverqueue/river"
)

// QueueName is the dedicated queue for the badge sync job.
const QueueName = "badge_sync"

// BadgeSyncJob triggers one badge sync and leaderboard refresh run.
type BadgeSyncJob struct{}

// Kind returns the job type identifier for River
func (BadgeSyncJob) Kind() string { return "badge_sync" }

// InsertOpts disables retries; the next scheduled run picks up where this one failed.
func (BadgeSyncJob) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       QueueName,
		MaxAttempts: 1,
	}
}
