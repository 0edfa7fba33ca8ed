package astroApi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/admin/astromood/chart-api/internal/pkg/metrics"
	"github.com/go-playground/validator/v10"
)

const (
	GetNatalWheelChart = "western/natal-wheel-chart"
	GetPlanets         = "western/planets"

	serviceName = "astro-api"
)

// truncateString обрезает строку до указанной длины
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Client - клиент для работы с астрологическим API
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	Log        *slog.Logger
	validate   *validator.Validate
}

// NewClient создаёт новый клиент для работы с астро-API
func NewClient(cfg *Config, log *slog.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ShouldSkipSSL() {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		Log:      log,
		validate: validator.New(),
	}
}

func (c *Client) buildURL(endpoint string) string {
	return strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + endpoint
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.ApiKey)
}

// GetChartImage запрашивает картинку колеса натальной карты, возвращает URL svg
func (c *Client) GetChartImage(ctx context.Context, req domain.ChartComputationRequest) (url string, err error) {
	defer func(start time.Time) { metrics.ObserveUpstream(serviceName, "natal-wheel-chart", start, err) }(time.Now())

	env, err := c.post(ctx, GetNatalWheelChart, req)
	if err != nil {
		return "", err
	}

	var output string
	if err := json.Unmarshal(env.Output, &output); err != nil {
		return "", &domain.UpstreamSchemaError{Service: serviceName, Reason: "output is not a string"}
	}
	if strings.TrimSpace(output) == "" {
		return "", &domain.UpstreamSchemaError{Service: serviceName, Reason: "empty chart url"}
	}

	return output, nil
}

// GetPlanetPositions запрашивает позиции планет
func (c *Client) GetPlanetPositions(ctx context.Context, req domain.ChartComputationRequest) (positions []domain.PlanetPosition, err error) {
	defer func(start time.Time) { metrics.ObserveUpstream(serviceName, "planets", start, err) }(time.Now())

	env, err := c.post(ctx, GetPlanets, req)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(env.Output)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &domain.UpstreamSchemaError{Service: serviceName, Reason: "output is not an array"}
	}

	if err := json.Unmarshal(trimmed, &positions); err != nil {
		return nil, &domain.UpstreamSchemaError{Service: serviceName, Reason: err.Error()}
	}

	return positions, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload domain.ChartComputationRequest) (*envelope, error) {
	if err := c.validate.Struct(payload); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid chart request: %v", err))
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(endpoint), bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("astro API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	rawJSON := string(body)

	if resp.StatusCode != http.StatusOK {
		c.Log.Debug("astro API returned non-200 status",
			"endpoint", endpoint,
			"status_code", resp.StatusCode,
			"body_preview", truncateString(rawJSON, 200),
		)
		return nil, fmt.Errorf("astro API error [status=%d]: %s", resp.StatusCode, truncateString(rawJSON, 500))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.Log.Debug("failed to unmarshal astro API response",
			"endpoint", endpoint,
			"error", err,
			"body_preview", truncateString(rawJSON, 200),
		)
		return nil, &domain.UpstreamSchemaError{Service: serviceName, Reason: "response is not a json object"}
	}

	// API иногда отвечает 200 с ошибкой внутри тела
	if env.StatusCode != nil && *env.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("astro API error [statusCode=%d]: %s", *env.StatusCode, truncateString(rawJSON, 500))
	}
	if len(env.Output) == 0 {
		return nil, &domain.UpstreamSchemaError{Service: serviceName, Reason: "missing output"}
	}

	return &env, nil
}
