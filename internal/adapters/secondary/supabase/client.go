package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/admin/astromood/chart-api/internal/pkg/metrics"
)

const component = "supabase"

// Client REST-клиент Supabase с сервисным ключом
type Client struct {
	cfg        *Config
	baseURL    string
	HTTPClient *http.Client
	Log        *slog.Logger
}

// NewClient создаёт клиент Supabase
func NewClient(cfg *Config, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Log:        log,
	}
}

// apiError тело ошибки Supabase, поля отличаются между auth и storage
type apiError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e apiError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// StatusError ответ Supabase с не-2xx статусом
type StatusError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("supabase %s failed [status=%d]: %s", e.Operation, e.StatusCode, e.Message)
}

type request struct {
	operation   string
	method      string
	path        string
	body        io.Reader
	contentType string
	bearer      string
	headers     map[string]string
}

// do выполняет запрос и возвращает тело для 2xx, иначе *StatusError
func (c *Client) do(ctx context.Context, r request) (body []byte, err error) {
	defer func(start time.Time) { metrics.ObserveUpstream(component, r.operation, start, err) }(time.Now())

	httpReq, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	bearer := r.bearer
	if bearer == "" {
		bearer = c.cfg.ServiceKey
	}
	httpReq.Header.Set("apikey", c.cfg.ServiceKey)
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}
	for k, v := range r.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("supabase %s request failed: %w", r.operation, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		msg := apiErr.text()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.Log.Debug("supabase returned error status",
			"operation", r.operation,
			"status_code", resp.StatusCode,
			"message", msg,
		)
		return nil, &StatusError{Operation: r.operation, StatusCode: resp.StatusCode, Message: msg}
	}

	return body, nil
}

func (c *Client) doJSON(ctx context.Context, operation, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	return c.do(ctx, request{
		operation:   operation,
		method:      method,
		path:        path,
		body:        body,
		contentType: "application/json",
	})
}
