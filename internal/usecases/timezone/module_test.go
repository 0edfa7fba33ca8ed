package timezone

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/admin/astromood/chart-api/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	info  domain.TimezoneInfo
	err   error
	calls int
}

func (r *countingResolver) Resolve(_ context.Context, _, _ float64) (domain.TimezoneInfo, error) {
	r.calls++
	return r.info, r.err
}

func newService(r *countingResolver) *Service {
	return New(r, inmemory.NewCache(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_Resolve_Cached(t *testing.T) {
	r := &countingResolver{info: domain.TimezoneInfo{Offset: 5.5, Name: "Asia/Kolkata"}}
	svc := newService(r)

	for range 3 {
		info, err := svc.Resolve(context.Background(), 19.076, 72.8777)
		require.NoError(t, err)
		assert.Equal(t, 5.5, info.Offset)
		assert.Equal(t, "Asia/Kolkata", info.Name)
	}
	assert.Equal(t, 1, r.calls)
}

func TestService_Resolve_Validation(t *testing.T) {
	r := &countingResolver{}
	svc := newService(r)

	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"lat above range", 91, 0},
		{"lat below range", -90.1, 0},
		{"lon above range", 0, 180.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Resolve(context.Background(), tt.lat, tt.lon)
			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err))
		})
	}
	assert.Zero(t, r.calls)
}

func TestService_Resolve_ErrorNotCached(t *testing.T) {
	r := &countingResolver{err: errors.New("no zone")}
	svc := newService(r)

	_, err := svc.Resolve(context.Background(), 0, 0)
	require.Error(t, err)
	_, err = svc.Resolve(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Equal(t, 2, r.calls)
}

func TestService_Resolve_WithoutCache(t *testing.T) {
	r := &countingResolver{info: domain.TimezoneInfo{Name: "UTC"}}
	svc := New(r, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.Resolve(context.Background(), 10, 10)
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, r.calls)
}
