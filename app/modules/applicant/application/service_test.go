package applicantservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/catalytics/catalytics-cron/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestListPublicKeys(t *testing.T) {
	tests := []struct {
		name      string
		setupRepo func(*FakeApplicantRepo)
		want      []string
	}{
		{
			name: "returns keys in store order",
			setupRepo: func(f *FakeApplicantRepo) {
				f.ListPublicKeysFunc = func(ctx context.Context, db bun.IDB) ([]string, error) {
					return []string{"key-a", "key-b"}, nil
				}
			},
			want: []string{"key-a", "key-b"},
		},
		{
			name: "drops empty keys",
			setupRepo: func(f *FakeApplicantRepo) {
				f.ListPublicKeysFunc = func(ctx context.Context, db bun.IDB) ([]string, error) {
					return []string{"", "key-a", ""}, nil
				}
			},
			want: []string{"key-a"},
		},
		{
			name: "empty table is not an error",
			setupRepo: func(f *FakeApplicantRepo) {
				f.ListPublicKeysFunc = func(ctx context.Context, db bun.IDB) ([]string, error) {
					return nil, nil
				}
			},
			want: []string{},
		},
		{
			name: "store failure degrades to empty list",
			setupRepo: func(f *FakeApplicantRepo) {
				f.ListPublicKeysFunc = func(ctx context.Context, db bun.IDB) ([]string, error) {
					return nil, errors.New("dial tcp: connection refused")
				}
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := NewFakeApplicantRepo()
			tt.setupRepo(fakeRepo)

			svc := NewApplicantService(
				fakeRepo,
				slog.New(slog.NewTextHandler(io.Discard, nil)),
				observability.NewNoop(),
				noop.NewTracerProvider().Tracer("test"),
			)

			got := svc.ListPublicKeys(context.Background())

			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{"ListPublicKeys"}, fakeRepo.Trace())
		})
	}
}
