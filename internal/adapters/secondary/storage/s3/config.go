package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Host          string `envconfig:"HOST"` // localhost:9000
	AccessKey     string `envconfig:"ACCESS_KEY"`
	SecretKey     string `envconfig:"SECRET_KEY"`
	Bucket        string `envconfig:"BUCKET" default:"birth-charts"`
	UseSSL        bool   `envconfig:"USE_SSL" default:"false"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL"` // CDN перед бакетом, если есть
	CreateBucket  bool   `envconfig:"CREATE_BUCKET" default:"false"`
}

// NewClient создаёт новый MinIO клиент и проверяет бакет
func (c *Config) NewClient() (*minio.Client, error) {
	if c.Host == "" {
		return nil, fmt.Errorf("s3 host is not configured")
	}

	client, err := minio.New(c.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, c.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if !c.CreateBucket {
			return nil, fmt.Errorf("bucket %s does not exist", c.Bucket)
		}
		if err := client.MakeBucket(ctx, c.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", c.Bucket, err)
		}
	}

	return client, nil
}
