package horoscope

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/admin/astromood/chart-api/internal/ports/cache"
	"github.com/admin/astromood/chart-api/internal/ports/service"
)

const cacheTTL = time.Hour

// Service гороскопы из публичного API с кэшированием
type Service struct {
	API   service.IHoroscopeService
	Cache cache.Cache
	Log   *slog.Logger
}

// New создаёт сервис гороскопов. cache может быть nil.
func New(api service.IHoroscopeService, c cache.Cache, log *slog.Logger) *Service {
	return &Service{
		API:   api,
		Cache: c,
		Log:   log,
	}
}

// GetHoroscope нормализует параметры и отдаёт гороскоп, сначала заглядывая в кэш
func (s *Service) GetHoroscope(ctx context.Context, sign, period, day string) (*domain.Horoscope, error) {
	normSign, ok := domain.NormalizeSign(sign)
	if !ok {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid sign: %q", sign))
	}

	p := domain.HoroscopePeriod(period)
	if period == "" {
		p = domain.HoroscopeDaily
	}
	if !p.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid period: %q", period))
	}

	normDay := ""
	if p == domain.HoroscopeDaily {
		if normDay, ok = domain.NormalizeHoroscopeDay(day); !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("invalid day: %q", day))
		}
	}

	key := cacheKey(p, normSign, normDay)
	if h, ok := s.fromCache(ctx, key); ok {
		return h, nil
	}

	return s.fetch(ctx, key, normSign, p, normDay)
}

// PrefetchDaily обновляет кэш дневных гороскопов всех знаков на сегодня
func (s *Service) PrefetchDaily(ctx context.Context) error {
	var errs []error
	for _, sign := range domain.ZodiacSigns {
		key := cacheKey(domain.HoroscopeDaily, sign, "TODAY")
		if _, err := s.fetch(ctx, key, sign, domain.HoroscopeDaily, "TODAY"); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to prefetch %d of %d horoscopes: %w", len(errs), len(domain.ZodiacSigns), errors.Join(errs...))
	}

	s.Log.InfoContext(ctx, "daily horoscopes prefetched", "signs", len(domain.ZodiacSigns))
	return nil
}

func (s *Service) fetch(ctx context.Context, key, sign string, period domain.HoroscopePeriod, day string) (*domain.Horoscope, error) {
	h, err := s.API.GetHoroscope(ctx, sign, period, day)
	if err != nil {
		s.Log.ErrorContext(ctx, "failed to get horoscope", "error", err, "sign", sign, "period", period)
		return nil, fmt.Errorf("failed to get horoscope for %s: %w", sign, err)
	}

	s.toCache(ctx, key, h)
	return h, nil
}

func cacheKey(period domain.HoroscopePeriod, sign, day string) string {
	return fmt.Sprintf("horoscope:%s:%s:%s", period, sign, day)
}

func (s *Service) fromCache(ctx context.Context, key string) (*domain.Horoscope, bool) {
	if s.Cache == nil {
		return nil, false
	}

	raw, err := s.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.Log.WarnContext(ctx, "failed to read horoscope cache", "error", err, "key", key)
		}
		return nil, false
	}

	var h domain.Horoscope
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return nil, false
	}
	return &h, true
}

func (s *Service) toCache(ctx context.Context, key string, h *domain.Horoscope) {
	if s.Cache == nil {
		return
	}

	raw, err := json.Marshal(h)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, string(raw), cacheTTL); err != nil {
		s.Log.WarnContext(ctx, "failed to write horoscope cache", "error", err, "key", key)
	}
}
