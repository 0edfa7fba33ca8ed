package domain

import (
	"time"

	"github.com/google/uuid"
)

// AscendantPlanetName имя точки асцендента в ответе астро-API
const AscendantPlanetName = "Ascendant"

// ChartContentType тип содержимого картинки карты
const ChartContentType = "image/svg+xml"

// ChartStoragePath детерминированный ключ картинки карты пользователя в хранилище
func ChartStoragePath(userID string) string {
	return "charts/" + userID + "_birthchart.svg"
}

// ChartComputationRequest запрос к внешнему астро-API
type ChartComputationRequest struct {
	Year      int               `json:"year" validate:"gte=1,lte=9999"`
	Month     int               `json:"month" validate:"gte=1,lte=12"`
	Date      int               `json:"date" validate:"gte=1,lte=31"`
	Hours     int               `json:"hours" validate:"gte=0,lte=23"`
	Minutes   int               `json:"minutes" validate:"gte=0,lte=59"`
	Seconds   int               `json:"seconds" validate:"gte=0,lte=59"`
	Latitude  float64           `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64           `json:"longitude" validate:"gte=-180,lte=180"`
	Timezone  float64           `json:"timezone" validate:"gte=-14,lte=14"`
	Config    ChartRenderConfig `json:"config"`
}

// ChartRenderConfig статичные настройки отрисовки, пользователь их не задаёт
type ChartRenderConfig struct {
	ObservationPoint string             `json:"observation_point"`
	Ayanamsha        string             `json:"ayanamsha"`
	HouseSystem      string             `json:"house_system,omitempty"`
	Language         string             `json:"language"`
	ExcludePlanets   []string           `json:"exclude_planets"`
	AllowedAspects   []string           `json:"allowed_aspects,omitempty"`
	AspectLineColors map[string]string  `json:"aspect_line_colors,omitempty"`
	WheelChartColors map[string]string  `json:"wheel_chart_colors,omitempty"`
	OrbValues        map[string]float64 `json:"orb_values,omitempty"`
}

// DefaultRenderConfig тропический зодиак, дома Плацидуса, тёмная палитра колеса
func DefaultRenderConfig() ChartRenderConfig {
	return ChartRenderConfig{
		ObservationPoint: "topocentric",
		Ayanamsha:        "tropical",
		HouseSystem:      "Placidus",
		Language:         "en",
		ExcludePlanets:   []string{},
		AllowedAspects:   []string{"Conjunction", "Opposition", "Trine", "Square", "Sextile"},
		AspectLineColors: map[string]string{
			"Conjunction": "#558B2F",
			"Opposition":  "#FF6F00",
			"Trine":       "#1565C0",
			"Square":      "#C62828",
			"Sextile":     "#6A1B9A",
		},
		WheelChartColors: map[string]string{
			"zodiac_sign_background_color": "#1C1B29",
			"chart_background_color":       "#1C1B29",
			"zodiac_signs_text_color":      "#F4E9FF",
			"dotted_line_color":            "#B39DDB",
			"planets_icon_color":           "#FFD180",
		},
		OrbValues: map[string]float64{
			"Conjunction": 3,
			"Opposition":  5,
			"Trine":       5,
			"Square":      5,
			"Sextile":     5,
		},
	}
}

// LocalizedName имя на нескольких языках, нас интересует только en
type LocalizedName struct {
	En *string `json:"en"`
}

// ZodiacSign знак зодиака из ответа API
type ZodiacSign struct {
	Number *int           `json:"number,omitempty"`
	Name   *LocalizedName `json:"name"`
}

// PlanetPosition позиция одного тела из ответа астро-API.
// Схема принадлежит внешнему сервису, поэтому всё опционально.
type PlanetPosition struct {
	Planet     *LocalizedName `json:"planet"`
	FullDegree *float64       `json:"fullDegree,omitempty"`
	NormDegree *float64       `json:"normDegree,omitempty"`
	IsRetro    *string        `json:"isRetro,omitempty"`
	ZodiacSign *ZodiacSign    `json:"zodiac_sign"`
}

// PlanetName возвращает planet.en, если он есть
func (p PlanetPosition) PlanetName() (string, bool) {
	if p.Planet == nil || p.Planet.En == nil {
		return "", false
	}
	return *p.Planet.En, true
}

// SignName возвращает zodiac_sign.name.en, если он есть
func (p PlanetPosition) SignName() (string, bool) {
	if p.ZodiacSign == nil || p.ZodiacSign.Name == nil || p.ZodiacSign.Name.En == nil {
		return "", false
	}
	return *p.ZodiacSign.Name.En, true
}

// SimplifiedPlanets планета -> знак
type SimplifiedPlanets map[string]string

// AscendantRecord знак асцендента
type AscendantRecord struct {
	Sign string `json:"sign"`
}

// GeneratedChartResult результат генерации карты
type GeneratedChartResult struct {
	Success      bool              `json:"success"`
	ChartURL     string            `json:"chartUrl"`
	Planets      SimplifiedPlanets `json:"planets"`
	Ascendant    *AscendantRecord  `json:"ascendant"`
	UploadPath   string            `json:"uploadPath,omitempty"`
	Version      int64             `json:"version,omitempty"`
	GenerationID uuid.UUID         `json:"generationId"`
}

// ProfileMetadataUpdate поля карты, которые пишутся в метаданные пользователя
type ProfileMetadataUpdate struct {
	BirthChartURL    string            `json:"birthChartUrl"`
	Planets          SimplifiedPlanets `json:"planets"`
	Ascendant        *AscendantRecord  `json:"ascendant"`
	ChartVersion     int64             `json:"chartVersion,omitempty"`
	ChartGeneratedAt *time.Time        `json:"chartGeneratedAt,omitempty"`
}

// ChartGeneratedEvent событие об успешной генерации карты
type ChartGeneratedEvent struct {
	GenerationID uuid.UUID         `json:"generation_id"`
	UserID       string            `json:"user_id"`
	Version      int64             `json:"version"`
	ChartURL     string            `json:"chart_url"`
	Planets      SimplifiedPlanets `json:"planets"`
	Ascendant    *AscendantRecord  `json:"ascendant"`
	GeneratedAt  time.Time         `json:"generated_at"`
}
