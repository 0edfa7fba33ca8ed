package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Encoding string `envconfig:"ENCODING" default:"console"`
	Level    string `envconfig:"LEVEL" default:"info"`
}

type requestIDKey struct{}

// WithRequestID кладёт request_id в контекст, ContextHandler добавит его в каждую запись
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext достаёт request_id, если он есть
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

func New(app string, cfg *Config) *slog.Logger {
	if cfg != nil && cfg.Encoding == "json" {
		return NewWithWriter(app, cfg, os.Stdout)
	}
	return NewWithWriter(app, cfg, os.Stderr)
}

// NewWithWriter то же, что New, но пишет в w
func NewWithWriter(app string, cfg *Config, w io.Writer) *slog.Logger {
	if cfg == nil {
		cfg = &Config{}
	}
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "console"
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: level == "debug",
	}

	var handler slog.Handler
	switch encoding {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "console":
		handler = slog.NewTextHandler(w, opts)
	default:
		panic(fmt.Errorf("invalid logger config: encoding %s is not supported", encoding))
	}

	return slog.New(NewContextHandler(handler)).With("app", app)
}

// parseLevel парсит строковый уровень в slog.Level
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Errorf("invalid logger config: level %s is not supported", level))
	}
}

// ContextHandler добавляет request_id из контекста к записям *Context-методов
type ContextHandler struct {
	handler slog.Handler
}

func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{handler: h}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if id, ok := RequestIDFromContext(ctx); ok {
		record.AddAttrs(slog.String("request_id", id))
	}
	return h.handler.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{
		handler: h.handler.WithAttrs(attrs),
	}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{
		handler: h.handler.WithGroup(name),
	}
}

// SetDefault устанавливает логгер по умолчанию
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
