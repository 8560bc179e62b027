// Package objectstore mengunggah arsip backup JSON ke storage S3-compatible.
package objectstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/c14220110/igd-dashboard/config"
)

// Uploader adalah kontrak minimal yang dipakai service backup.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

type MinioStorage struct {
	client *minio.Client
	bucket string
}

var _ Uploader = (*MinioStorage)(nil)

// NewMinio mengembalikan nil, nil bila MINIO_ENDPOINT tidak diset.
func NewMinio(cfg *config.Config) (*MinioStorage, error) {
	if cfg.MinioEndpoint == "" {
		return nil, nil
	}
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("gagal inisialisasi klien minio: %w", err)
	}
	return &MinioStorage{client: client, bucket: cfg.MinioBucket}, nil
}

func (m *MinioStorage) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return "", fmt.Errorf("gagal memeriksa bucket %s: %w", m.bucket, err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("gagal membuat bucket %s: %w", m.bucket, err)
		}
	}

	_, err = m.client.PutObject(ctx, m.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("gagal mengunggah %s ke bucket %s: %w", name, m.bucket, err)
	}
	return m.bucket + "/" + name, nil
}
