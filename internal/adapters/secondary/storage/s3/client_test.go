package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClient_PublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "bucket on endpoint",
			cfg:  Config{Host: "localhost:9000", Bucket: "birth-charts"},
			want: "http://localhost:9000/birth-charts/charts/u1_birthchart.svg",
		},
		{
			name: "ssl endpoint",
			cfg:  Config{Host: "s3.example.com", Bucket: "charts", UseSSL: true},
			want: "https://s3.example.com/charts/charts/u1_birthchart.svg",
		},
		{
			name: "cdn base",
			cfg:  Config{Host: "s3.example.com", Bucket: "charts", PublicBaseURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/charts/u1_birthchart.svg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(nil, &tt.cfg, nil)
			assert.Equal(t, tt.want, c.PublicURL("charts/u1_birthchart.svg"))
		})
	}
}
