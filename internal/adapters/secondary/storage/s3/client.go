package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Client хранилище картинок карт в S3-совместимом бакете
type Client struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	log           *slog.Logger
}

// NewClient создаёт новый S3 клиент
func NewClient(client *minio.Client, cfg *Config, log *slog.Logger) *Client {
	return &Client{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBase(cfg),
		log:           log,
	}
}

func publicBase(cfg *Config) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return (&url.URL{Scheme: scheme, Host: cfg.Host, Path: "/" + cfg.Bucket}).String()
}

// Upload кладёт объект, существующий ключ перезаписывается
func (c *Client) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := c.client.PutObject(ctx, c.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		c.log.Error("failed to upload object", "error", err, "path", path)
		return fmt.Errorf("failed to upload object %s: %w", path, err)
	}
	return nil
}

// Delete удаляет объект, отсутствие объекта не ошибка
func (c *Client) Delete(ctx context.Context, path string) error {
	if err := c.client.RemoveObject(ctx, c.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to delete object %s: %w", path, err)
	}
	return nil
}

// PublicURL публичный адрес объекта
func (c *Client) PublicURL(path string) string {
	return c.publicBaseURL + "/" + strings.TrimLeft(path, "/")
}
