// Package miniostorage keeps uploaded images in a MinIO bucket
package miniostorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"

	"github.com/UnendingLoop/FoodScanner/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioImageStorage struct {
	bucket string
	client *minio.Client
}

func NewMinioClient(cfg config.Storage) (*MinioImageStorage, error) {
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "uploads"
		log.Printf("Bucket name is empty. Using default value %q...", bucket)
	}

	// подключаемся к минио - создаем клиента
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.User, cfg.Pass, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client for %q: %w", cfg.Endpoint, err)
	}

	// бакет создаем сразу, чтобы первый Put не падал
	if err := ensureBucket(context.Background(), client, bucket); err != nil {
		return nil, fmt.Errorf("ensure bucket %q: %w", bucket, err)
	}

	return &MinioImageStorage{bucket: bucket, client: client}, nil
}

func (s *MinioImageStorage) Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error {
	if r == nil {
		return errors.New("nil reader passed to storage.Put")
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// Delete is idempotent: RemoveObject doesn't complain about missing keys
func (s *MinioImageStorage) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// Get returns fs.ErrNotExist (wrapped) for unknown keys, same as the disk backend
func (s *MinioImageStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", mapErr(key, err)
	}

	// GetObject ленивый - реальный запрос уходит на Stat
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, "", mapErr(key, err)
	}

	return obj, stat.ContentType, nil
}

func mapErr(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("object %q: %w", key, fs.ErrNotExist)
	}
	return err
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
}
