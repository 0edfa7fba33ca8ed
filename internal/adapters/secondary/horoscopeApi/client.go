package horoscopeApi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/admin/astromood/chart-api/internal/pkg/metrics"
)

const serviceName = "horoscope-api"

// Client клиент публичного API гороскопов
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	Log        *slog.Logger
}

func NewClient(cfg *Config, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		HTTPClient: &http.Client{Timeout: timeout},
		Log:        log,
	}
}

// GetHoroscope sign и day должны быть уже нормализованы
func (c *Client) GetHoroscope(ctx context.Context, sign string, period domain.HoroscopePeriod, day string) (h *domain.Horoscope, err error) {
	defer func(start time.Time) { metrics.ObserveUpstream(serviceName, string(period), start, err) }(time.Now())

	query := url.Values{"sign": {sign}}
	if period == domain.HoroscopeDaily {
		query.Set("day", day)
	}
	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/api/v1/get-horoscope/" + string(period) + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("horoscope API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.Log.Debug("horoscope API returned non-200 status", "status_code", resp.StatusCode, "period", period)
		return nil, fmt.Errorf("horoscope API error [status=%d]", resp.StatusCode)
	}

	var parsed horoscopeResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Data == nil {
		return nil, &domain.UpstreamSchemaError{Service: serviceName, Reason: "missing data"}
	}
	if parsed.Success != nil && !*parsed.Success {
		return nil, fmt.Errorf("horoscope API error [status=%d]", parsed.Status)
	}
	if parsed.Data.HoroscopeData == "" {
		return nil, &domain.UpstreamSchemaError{Service: serviceName, Reason: "empty horoscope_data"}
	}

	date := parsed.Data.Date
	switch {
	case parsed.Data.Week != "":
		date = parsed.Data.Week
	case parsed.Data.Month != "":
		date = parsed.Data.Month
	}

	return &domain.Horoscope{
		Sign:   sign,
		Period: period,
		Date:   date,
		Text:   parsed.Data.HoroscopeData,
	}, nil
}
