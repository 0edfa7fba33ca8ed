package timezone

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/admin/astromood/chart-api/internal/ports/cache"
	"github.com/admin/astromood/chart-api/internal/ports/service"
)

const cacheTTL = 24 * time.Hour

// Service определение часового пояса по координатам с кэшем
type Service struct {
	Resolver service.ITimezoneResolver
	Cache    cache.Cache
	Log      *slog.Logger
}

// New создаёт сервис часовых поясов. cache может быть nil.
func New(resolver service.ITimezoneResolver, c cache.Cache, log *slog.Logger) *Service {
	return &Service{
		Resolver: resolver,
		Cache:    c,
		Log:      log,
	}
}

// Resolve проверяет диапазоны и возвращает зону для точки
func (s *Service) Resolve(ctx context.Context, lat, lon float64) (domain.TimezoneInfo, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return domain.TimezoneInfo{}, domain.NewValidationError("Invalid lat/lon parameters")
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return domain.TimezoneInfo{}, domain.NewValidationError("lat/lon out of range")
	}

	key := cacheKey(lat, lon)
	if info, ok := s.fromCache(ctx, key); ok {
		return info, nil
	}

	info, err := s.Resolver.Resolve(ctx, lat, lon)
	if err != nil {
		return domain.TimezoneInfo{}, fmt.Errorf("failed to resolve timezone: %w", err)
	}

	s.toCache(ctx, key, info)
	return info, nil
}

// cacheKey округляет координаты до ~11 метров
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("timezone:%.4f:%.4f", lat, lon)
}

func (s *Service) fromCache(ctx context.Context, key string) (domain.TimezoneInfo, bool) {
	if s.Cache == nil {
		return domain.TimezoneInfo{}, false
	}

	raw, err := s.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.Log.WarnContext(ctx, "failed to read timezone cache", "error", err, "key", key)
		}
		return domain.TimezoneInfo{}, false
	}

	var info domain.TimezoneInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		s.Log.WarnContext(ctx, "broken timezone cache entry", "error", err, "key", key)
		return domain.TimezoneInfo{}, false
	}
	return info, true
}

func (s *Service) toCache(ctx context.Context, key string, info domain.TimezoneInfo) {
	if s.Cache == nil {
		return
	}

	raw, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, string(raw), cacheTTL); err != nil {
		s.Log.WarnContext(ctx, "failed to write timezone cache", "error", err, "key", key)
	}
}
