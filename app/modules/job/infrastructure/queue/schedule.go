package jobqueue

import (
	"fmt"

	"github.com/riverqueue/river"
	"github.com/robfig/cron/v3"
)

// ParseSchedule parses a standard five-field cron expression.
// Descriptors such as @hourly and @every 30m are accepted too.
func ParseSchedule(expr string) (river.PeriodicSchedule, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("jobqueue.ParseSchedule %q: %w", expr, err)
	}
	return schedule, nil
}
