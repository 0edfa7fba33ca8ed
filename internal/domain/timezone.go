package domain

// TimezoneInfo часовой пояс точки: смещение от UTC в часах и IANA-имя
type TimezoneInfo struct {
	Offset float64 `json:"timezone"`
	Name   string  `json:"name"`
}
