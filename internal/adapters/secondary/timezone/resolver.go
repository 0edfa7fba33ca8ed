package timezone

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/ringsaturn/tzf"
)

// Resolver определяет IANA-зону по координатам через tzf
type Resolver struct {
	finder tzf.F
	now    func() time.Time
}

// NewResolver загружает встроенные полигоны часовых поясов.
// Загрузка занимает заметное время, создавать один раз на процесс.
func NewResolver() (*Resolver, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone finder: %w", err)
	}
	return &Resolver{finder: finder, now: time.Now}, nil
}

// Resolve возвращает имя зоны и текущее смещение от UTC в часах
func (r *Resolver) Resolve(_ context.Context, lat, lon float64) (domain.TimezoneInfo, error) {
	name := r.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return domain.TimezoneInfo{}, fmt.Errorf("no timezone found for %f,%f", lat, lon)
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return domain.TimezoneInfo{}, fmt.Errorf("failed to load location %s: %w", name, err)
	}

	_, offsetSeconds := r.now().In(loc).Zone()

	return domain.TimezoneInfo{
		Offset: float64(offsetSeconds) / 3600,
		Name:   name,
	}, nil
}
