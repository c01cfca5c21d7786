package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/princekumarofficial/video-service/internal/config"
)

type MinioBackend struct {
	client     *minio.Client
	bucketName string
	useSSL     bool
}

// NewMinioBackend connects to MinIO and makes sure the bucket exists.
func NewMinioBackend(ctx context.Context, cfg config.MinIO) (*MinioBackend, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	backend := &MinioBackend{
		client:     client,
		bucketName: cfg.BucketName,
		useSSL:     cfg.UseSSL,
	}

	if err := backend.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return backend, nil
}

func (b *MinioBackend) ensureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		err = b.client.MakeBucket(ctx, b.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (b *MinioBackend) Put(ctx context.Context, key, path, contentType string) error {
	_, err := b.client.FPutObject(ctx, b.bucketName, key, path, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to MinIO: %w", err)
	}
	return nil
}

func (b *MinioBackend) Remove(ctx context.Context, key string) error {
	return b.client.RemoveObject(ctx, b.bucketName, key, minio.RemoveObjectOptions{})
}

// URL returns the direct object URL. The bucket is expected to be publicly readable.
func (b *MinioBackend) URL(key string) string {
	return objectURL(b.client.EndpointURL().String(), b.useSSL, b.bucketName, key)
}

func objectURL(endpoint string, useSSL bool, bucket, key string) string {
	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	host := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	host = strings.TrimSuffix(host, "/")
	return fmt.Sprintf("%s://%s/%s/%s", scheme, host, bucket, key)
}
