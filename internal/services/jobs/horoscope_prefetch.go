package jobs

import (
	"context"
	"log/slog"
	"time"
)

const horoscopePrefetchName = "horoscope-prefetch"

// IHoroscopePrefetcher прогрев кэша гороскопов
type IHoroscopePrefetcher interface {
	PrefetchDaily(ctx context.Context) error
}

// HoroscopePrefetch прогревает дневные гороскопы всех знаков, каждый день в 00:05 UTC
type HoroscopePrefetch struct {
	horoscopes IHoroscopePrefetcher
	log        *slog.Logger
}

func NewHoroscopePrefetch(horoscopes IHoroscopePrefetcher, log *slog.Logger) *HoroscopePrefetch {
	return &HoroscopePrefetch{
		horoscopes: horoscopes,
		log:        log,
	}
}

func (j *HoroscopePrefetch) Name() string {
	return horoscopePrefetchName
}

// NextRun вычисляет следующее время запуска
func (j *HoroscopePrefetch) NextRun(now time.Time) time.Time {
	nowUTC := now.UTC()

	next := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day(), 0, 5, 0, 0, time.UTC)
	if !next.After(nowUTC) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

func (j *HoroscopePrefetch) Run(ctx context.Context) error {
	return j.horoscopes.PrefetchDaily(ctx)
}
