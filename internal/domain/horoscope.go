package domain

import (
	"regexp"
	"strings"
)

// HoroscopePeriod период гороскопа
type HoroscopePeriod string

const (
	HoroscopeDaily   HoroscopePeriod = "daily"
	HoroscopeWeekly  HoroscopePeriod = "weekly"
	HoroscopeMonthly HoroscopePeriod = "monthly"
)

// IsValid проверяет, поддерживается ли период
func (p HoroscopePeriod) IsValid() bool {
	switch p {
	case HoroscopeDaily, HoroscopeWeekly, HoroscopeMonthly:
		return true
	default:
		return false
	}
}

// ZodiacSigns все знаки зодиака в порядке следования
var ZodiacSigns = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// NormalizeSign приводит знак к каноническому виду ("aries" -> "Aries")
func NormalizeSign(sign string) (string, bool) {
	for _, s := range ZodiacSigns {
		if strings.EqualFold(s, strings.TrimSpace(sign)) {
			return s, true
		}
	}
	return "", false
}

var horoscopeDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// NormalizeHoroscopeDay TODAY/TOMORROW/YESTERDAY или YYYY-MM-DD
func NormalizeHoroscopeDay(day string) (string, bool) {
	day = strings.TrimSpace(day)
	if day == "" {
		return "TODAY", true
	}
	switch upper := strings.ToUpper(day); upper {
	case "TODAY", "TOMORROW", "YESTERDAY":
		return upper, true
	}
	if horoscopeDatePattern.MatchString(day) {
		return day, true
	}
	return "", false
}

// Horoscope гороскоп для знака за период
type Horoscope struct {
	Sign   string          `json:"sign"`
	Period HoroscopePeriod `json:"period"`
	Date   string          `json:"date"`
	Text   string          `json:"horoscope"`
}
