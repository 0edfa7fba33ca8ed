package supabase

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
)

// Storage хранилище картинок в Supabase Storage
type Storage struct {
	client *Client
	bucket string
}

func NewStorage(client *Client, bucket string) *Storage {
	return &Storage{client: client, bucket: bucket}
}

func (s *Storage) objectPath(path string) string {
	return "/storage/v1/object/" + s.bucket + "/" + strings.TrimLeft(path, "/")
}

// Upload кладёт объект с x-upsert, существующий ключ перезаписывается
func (s *Storage) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := s.client.do(ctx, request{
		operation:   "upload-object",
		method:      http.MethodPost,
		path:        s.objectPath(path),
		body:        bytes.NewReader(data),
		contentType: contentType,
		headers:     map[string]string{"x-upsert": "true", "cache-control": "3600"},
	})
	return err
}

// Delete удаляет объект, отсутствие объекта не ошибка
func (s *Storage) Delete(ctx context.Context, path string) error {
	_, err := s.client.do(ctx, request{
		operation: "delete-object",
		method:    http.MethodDelete,
		path:      s.objectPath(path),
	})
	var statusErr *StatusError
	if errors.As(err, &statusErr) && (statusErr.StatusCode == http.StatusNotFound ||
		strings.Contains(strings.ToLower(statusErr.Message), "not found")) {
		return nil
	}
	return err
}

// PublicURL адрес объекта в публичном бакете
func (s *Storage) PublicURL(path string) string {
	return s.client.baseURL + "/storage/v1/object/public/" + s.bucket + "/" + strings.TrimLeft(path, "/")
}
