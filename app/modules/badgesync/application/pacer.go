package badgesyncservice

import (
	"context"
	"time"

	"github.com/catalytics/catalytics-cron/config"
	"golang.org/x/time/rate"
)

// Pacer blocks between two consecutive outbound calls.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedDelay pauses for a constant duration.
type FixedDelay time.Duration

func (d FixedDelay) Wait(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(d))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RateLimited paces calls with a token bucket of burst 1.
type RateLimited struct {
	limiter *rate.Limiter
}

// NewRateLimited allows at most rps calls per second. The bucket starts empty
// so the first Wait already blocks for 1/rps.
func NewRateLimited(rps float64) *RateLimited {
	limiter := rate.NewLimiter(rate.Limit(rps), 1)
	limiter.Allow()
	return &RateLimited{limiter: limiter}
}

func (r *RateLimited) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// NewPacer picks the pacer configured for the sync phase.
func NewPacer(cfg config.SyncConfig) Pacer {
	if cfg.MaxRPS > 0 {
		return NewRateLimited(cfg.MaxRPS)
	}
	return FixedDelay(cfg.Delay)
}
