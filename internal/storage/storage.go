// Package storage picks the upload store backend both services keep incoming images in
package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/UnendingLoop/FoodScanner/internal/config"
	"github.com/UnendingLoop/FoodScanner/internal/storage/diskstorage"
	"github.com/UnendingLoop/FoodScanner/internal/storage/miniostorage"
)

// UploadStorage - контракт хранилища загрузок
type UploadStorage interface {
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
	Get(ctx context.Context, key string) (output io.ReadCloser, ctype string, err error)
	Delete(ctx context.Context, key string) error
}

// NewUploadStorage builds the configured backend. MinIO may still be starting
// next to us, so connecting is retried up to attempts times.
func NewUploadStorage(cfg config.Storage, attempts int, delay time.Duration) (UploadStorage, error) {
	switch cfg.Backend {
	case config.BackendDisk:
		strg, err := diskstorage.New(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		log.Printf("Uploads are kept on disk in %s", strg.Root())
		return strg, nil
	case config.BackendMinio:
		strg, err := connectMinio(cfg, attempts, delay)
		if err != nil {
			return nil, err
		}
		return strg, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func connectMinio(cfg config.Storage, attempts int, delay time.Duration) (*miniostorage.MinioImageStorage, error) {
	var client *miniostorage.MinioImageStorage
	var err error

	for i := 0; i < max(attempts, 1); i++ {
		log.Println("Connecting to IMG-storage...")
		client, err = miniostorage.NewMinioClient(cfg)
		if err == nil {
			log.Println("Successfully connected IMG-storage!")
			return client, nil
		}
		if i < attempts-1 {
			log.Printf("Failed to init connection to IMG-storage: %v\nNext retry in %v...", err, delay)
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("failed to connect to IMG-storage after %d attempts: %w", attempts, err)
}
