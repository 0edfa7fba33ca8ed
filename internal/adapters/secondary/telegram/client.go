package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"
)

const (
	telegramAPIBaseURL = "https://api.telegram.org"
	apiTimeout         = 30 * time.Second
)

// Client клиент Telegram Bot API, используется только для алертов
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *slog.Logger
}

// NewClient создаёт новый клиент для Telegram Bot API.
// apiURL пустой означает api.telegram.org.
func NewClient(apiURL, token string, log *slog.Logger) *Client {
	if apiURL == "" {
		apiURL = telegramAPIBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: apiTimeout,
		},
		baseURL: strings.TrimSuffix(apiURL, "/") + "/bot" + token,
		log:     log,
	}
}

// SendMessageRequest запрос на отправку сообщения
type SendMessageRequest struct {
	ChatID          int64  `json:"chat_id"`
	Text            string `json:"text"`
	ParseMode       string `json:"parse_mode,omitempty"` // "HTML", "Markdown", "MarkdownV2"
	MessageThreadID *int64 `json:"message_thread_id,omitempty"`
}

// SendMessageResult результат отправки сообщения
type SendMessageResult struct {
	MessageID int64 `json:"message_id"`
	Date      int64 `json:"date"`
}

// SendMessageResponse ответ от Telegram API
type SendMessageResponse struct {
	APIResponse
	Result SendMessageResult `json:"result"`
}

// SendMessageWithRequest выполняет sendMessage
func (c *Client) SendMessageWithRequest(ctx context.Context, req SendMessageRequest) (*SendMessageResult, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sendMessage", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("failed to send request to telegram",
			"error", err,
			"chat_id", req.ChatID,
		)
		return nil, fmt.Errorf("failed to send request to telegram: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp SendMessageResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		c.log.Error("failed to unmarshal response",
			"error", err,
			"chat_id", req.ChatID,
			"status_code", resp.StatusCode,
		)
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !apiResp.OK {
		c.log.Error("telegram API returned error",
			"error_code", apiResp.ErrorCode,
			"description", apiResp.Description,
			"chat_id", req.ChatID,
			"status_code", resp.StatusCode,
		)
		return nil, fmt.Errorf("telegram API error: %s (code: %d)", apiResp.Description, apiResp.ErrorCode)
	}

	return &apiResp.Result, nil
}
