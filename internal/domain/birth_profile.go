package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Имена обязательных полей в том виде, в котором их присылает клиент
const (
	FieldDateOfBirth    = "dateOfBirth"
	FieldTimeOfBirth    = "timeOfBirth"
	FieldLatitude       = "latitude"
	FieldLongitude      = "longitude"
	FieldTimezoneOffset = "timezoneOffset"
)

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}
var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "15:04:05", "15:04"}

// BirthProfileInput данные рождения для одной генерации карты.
// Указатели нужны, чтобы отличать отсутствующее поле от легитимного нуля
// (широта 0, смещение UTC+0).
type BirthProfileInput struct {
	ID             string   `json:"id"`
	DateOfBirth    *string  `json:"dateOfBirth"`
	TimeOfBirth    *string  `json:"timeOfBirth"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	TimezoneOffset *float64 `json:"timezoneOffset"`
}

// MissingFields возвращает имена отсутствующих полей в фиксированном порядке
func (in *BirthProfileInput) MissingFields() []string {
	var missing []string
	if in.DateOfBirth == nil {
		missing = append(missing, FieldDateOfBirth)
	}
	if in.TimeOfBirth == nil {
		missing = append(missing, FieldTimeOfBirth)
	}
	if in.Latitude == nil {
		missing = append(missing, FieldLatitude)
	}
	if in.Longitude == nil {
		missing = append(missing, FieldLongitude)
	}
	if in.TimezoneOffset == nil {
		missing = append(missing, FieldTimezoneOffset)
	}
	return missing
}

// Validate проверяет наличие и диапазоны полей
func (in *BirthProfileInput) Validate() error {
	if missing := in.MissingFields(); len(missing) > 0 {
		return NewMissingFieldsError(missing)
	}

	switch {
	case math.IsNaN(*in.Latitude) || *in.Latitude < -90 || *in.Latitude > 90:
		return NewValidationError("latitude must be between -90 and 90")
	case math.IsNaN(*in.Longitude) || *in.Longitude < -180 || *in.Longitude > 180:
		return NewValidationError("longitude must be between -180 and 180")
	case math.IsNaN(*in.TimezoneOffset) || *in.TimezoneOffset < -14 || *in.TimezoneOffset > 14:
		return NewValidationError("timezoneOffset must be between -14 and 14")
	}

	return nil
}

// ToChartRequest собирает запрос к астро-API. Компоненты даты и времени
// извлекаются в UTC, секунды всегда 0.
func (in *BirthProfileInput) ToChartRequest() (ChartComputationRequest, error) {
	if err := in.Validate(); err != nil {
		return ChartComputationRequest{}, err
	}

	date, err := parseWithLayouts(*in.DateOfBirth, dateLayouts)
	if err != nil {
		return ChartComputationRequest{}, NewValidationError(fmt.Sprintf("invalid dateOfBirth: %q", *in.DateOfBirth))
	}

	clock, err := parseWithLayouts(*in.TimeOfBirth, timeLayouts)
	if err != nil {
		return ChartComputationRequest{}, NewValidationError(fmt.Sprintf("invalid timeOfBirth: %q", *in.TimeOfBirth))
	}

	date = date.UTC()
	clock = clock.UTC()

	return ChartComputationRequest{
		Year:      date.Year(),
		Month:     int(date.Month()),
		Date:      date.Day(),
		Hours:     clock.Hour(),
		Minutes:   clock.Minute(),
		Seconds:   0,
		Latitude:  *in.Latitude,
		Longitude: *in.Longitude,
		Timezone:  *in.TimezoneOffset,
		Config:    DefaultRenderConfig(),
	}, nil
}

func parseWithLayouts(value string, layouts []string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
