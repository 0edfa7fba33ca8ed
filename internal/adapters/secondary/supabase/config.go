package supabase

import "time"

type Config struct {
	URL         string        `envconfig:"URL" required:"true"`
	ServiceKey  string        `envconfig:"SERVICE_KEY" required:"true"`
	JWTSecret   string        `envconfig:"JWT_SECRET"`
	JWTAudience string        `envconfig:"JWT_AUDIENCE" default:"authenticated"`
	Bucket      string        `envconfig:"BUCKET" default:"birth-charts"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"30s"`
}
