package imagefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/admin/astromood/chart-api/internal/pkg/metrics"
)

const maxImageBytes = 10 << 20

// ErrDownloadFailed картинку не удалось скачать
var ErrDownloadFailed = errors.New("Failed to download chart image")

type Config struct {
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// Client скачивает сгенерированные картинки карт целиком в память
type Client struct {
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg *Config, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Download GET по url, любой статус кроме 2xx считается ошибкой
func (c *Client) Download(ctx context.Context, url string) (data []byte, err error) {
	defer func(start time.Time) { metrics.ObserveUpstream("image-fetch", "download", start, err) }(time.Now())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug("chart image download returned non-2xx", "status_code", resp.StatusCode, "url", url)
		return nil, fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}

	data, err = io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", ErrDownloadFailed, maxImageBytes)
	}

	return data, nil
}
