package badgesyncservice

import (
	"context"
	"sync"
)

// ------------------------
// Fake Badge Client
// ------------------------

type FakeBadgeClient struct {
	mu    sync.Mutex
	trace []string

	SyncBadgesFunc func(ctx context.Context, publicKey string) error
}

func NewFakeBadgeClient() *FakeBadgeClient {
	return &FakeBadgeClient{trace: []string{}}
}

func (f *FakeBadgeClient) SyncBadges(ctx context.Context, publicKey string) error {
	f.mu.Lock()
	f.trace = append(f.trace, "SyncBadges:"+publicKey)
	f.mu.Unlock()
	if f.SyncBadgesFunc != nil {
		return f.SyncBadgesFunc(ctx, publicKey)
	}
	return nil
}

func (f *FakeBadgeClient) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ BadgeClient = (*FakeBadgeClient)(nil)

// ------------------------
// Recording Pacer
// ------------------------

// recordingPacer interleaves its waits into the client's trace.
type recordingPacer struct {
	client *FakeBadgeClient
	waits  int
	err    error
}

func (p *recordingPacer) Wait(ctx context.Context) error {
	p.waits++
	if p.client != nil {
		p.client.mu.Lock()
		p.client.trace = append(p.client.trace, "Wait")
		p.client.mu.Unlock()
	}
	return p.err
}

var _ Pacer = (*recordingPacer)(nil)
