package service

import (
	"context"

	"github.com/admin/astromood/chart-api/internal/domain"
)

// IHoroscopeService интерфейс для публичного API гороскопов
type IHoroscopeService interface {
	GetHoroscope(ctx context.Context, sign string, period domain.HoroscopePeriod, day string) (*domain.Horoscope, error)
}
