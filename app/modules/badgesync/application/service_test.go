package badgesyncservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/catalytics/catalytics-cron/config"
	"github.com/catalytics/catalytics-cron/internal/observability"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestService(client *FakeBadgeClient, pacer Pacer) *BadgeSyncService {
	return NewBadgeSyncService(
		client,
		pacer,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewNoop(),
		noop.NewTracerProvider().Tracer("test"),
	)
}

func TestSyncAll(t *testing.T) {
	tests := []struct {
		name        string
		keys        []string
		failing     map[string]bool
		wantSummary SyncSummary
		wantTrace   []string
	}{
		{
			name:        "no keys makes no calls",
			keys:        []string{},
			wantSummary: SyncSummary{},
			wantTrace:   []string{},
		},
		{
			name:        "single key has no pause",
			keys:        []string{"k1"},
			wantSummary: SyncSummary{Total: 1, Succeeded: 1},
			wantTrace:   []string{"SyncBadges:k1"},
		},
		{
			name:        "pauses between calls but not after the last",
			keys:        []string{"k1", "k2", "k3"},
			wantSummary: SyncSummary{Total: 3, Succeeded: 3},
			wantTrace:   []string{"SyncBadges:k1", "Wait", "SyncBadges:k2", "Wait", "SyncBadges:k3"},
		},
		{
			name:        "failure is counted and the loop continues",
			keys:        []string{"k1", "k2", "k3"},
			failing:     map[string]bool{"k2": true},
			wantSummary: SyncSummary{Total: 3, Succeeded: 2, Failed: 1},
			wantTrace:   []string{"SyncBadges:k1", "Wait", "SyncBadges:k2", "Wait", "SyncBadges:k3"},
		},
		{
			name:        "every call fails",
			keys:        []string{"k1", "k2"},
			failing:     map[string]bool{"k1": true, "k2": true},
			wantSummary: SyncSummary{Total: 2, Failed: 2},
			wantTrace:   []string{"SyncBadges:k1", "Wait", "SyncBadges:k2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewFakeBadgeClient()
			client.SyncBadgesFunc = func(ctx context.Context, publicKey string) error {
				if tt.failing[publicKey] {
					return errors.New("status 500")
				}
				return nil
			}
			pacer := &recordingPacer{client: client}

			got := newTestService(client, pacer).SyncAll(context.Background(), tt.keys)

			if diff := cmp.Diff(tt.wantSummary, got); diff != "" {
				t.Errorf("SyncAll() summary mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantTrace, client.Trace())
			assert.Equal(t, tt.wantSummary.OK(), got.OK())
		})
	}
}

func TestSyncAll_WaitsAreNMinusOne(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}
	client := NewFakeBadgeClient()
	pacer := &recordingPacer{}

	summary := newTestService(client, pacer).SyncAll(context.Background(), keys)

	assert.Equal(t, len(keys)-1, pacer.waits)
	assert.Len(t, client.Trace(), len(keys))
	assert.True(t, summary.OK())
}

func TestSyncAll_CancelledStopsBeforeNextCall(t *testing.T) {
	client := NewFakeBadgeClient()
	pacer := &recordingPacer{err: context.Canceled}

	summary := newTestService(client, pacer).SyncAll(context.Background(), []string{"k1", "k2", "k3"})

	assert.Equal(t, []string{"SyncBadges:k1"}, client.Trace())
	assert.Equal(t, SyncSummary{Total: 3, Succeeded: 1, Failed: 2}, summary)
	assert.False(t, summary.OK())
}

func TestFixedDelay_Wait(t *testing.T) {
	start := time.Now()
	require.NoError(t, FixedDelay(20*time.Millisecond).Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, FixedDelay(time.Hour).Wait(ctx), context.Canceled)
	assert.ErrorIs(t, FixedDelay(0).Wait(ctx), context.Canceled)
	assert.NoError(t, FixedDelay(0).Wait(context.Background()))
}

func TestNewPacer(t *testing.T) {
	assert.Equal(t, FixedDelay(2*time.Second), NewPacer(config.SyncConfig{Delay: 2 * time.Second}))
	assert.IsType(t, &RateLimited{}, NewPacer(config.SyncConfig{Delay: 2 * time.Second, MaxRPS: 0.5}))
}

func TestRateLimited_FirstWaitBlocks(t *testing.T) {
	const rps = 20.0
	interval := time.Duration(float64(time.Second) / rps)

	p := NewRateLimited(rps)
	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), interval-5*time.Millisecond)
}

func TestSyncAll_RateLimitedGapBetweenEveryCall(t *testing.T) {
	const rps = 20.0
	interval := time.Duration(float64(time.Second) / rps)

	var calls []time.Time
	client := &FakeBadgeClient{
		SyncBadgesFunc: func(ctx context.Context, publicKey string) error {
			calls = append(calls, time.Now())
			return nil
		},
	}
	pacer := NewPacer(config.SyncConfig{MaxRPS: rps})

	summary := newTestService(client, pacer).SyncAll(context.Background(), []string{"a", "b", "c"})
	assert.Equal(t, SyncSummary{Total: 3, Succeeded: 3}, summary)

	require.Len(t, calls, 3)
	for i := 1; i < len(calls); i++ {
		assert.GreaterOrEqual(t, calls[i].Sub(calls[i-1]), interval-5*time.Millisecond, "gap %d->%d", i, i+1)
	}
}
