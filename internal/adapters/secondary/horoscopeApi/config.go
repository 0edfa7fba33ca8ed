package horoscopeApi

import "time"

type Config struct {
	BaseURL string        `envconfig:"BASE_URL" default:"https://horoscope-app-api.vercel.app"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"15s"`
}
