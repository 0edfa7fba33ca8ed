package storage

import (
	"context"
)

// IObjectStorage интерфейс для объектного хранилища (Supabase Storage или S3/MinIO).
// Upload перезаписывает объект по тому же ключу без версионирования.
type IObjectStorage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Delete(ctx context.Context, path string) error
	PublicURL(path string) string
}

// IImageDownloader скачивает картинку по URL целиком в память
type IImageDownloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}
