package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/UnendingLoop/FoodScanner/internal/imageproc"
	"github.com/UnendingLoop/FoodScanner/internal/model"
	"github.com/UnendingLoop/FoodScanner/internal/mwlogger"
	"github.com/google/uuid"
)

// storedUpload - загрузка, уже лежащая в хранилище под серверным ключом
type storedUpload struct {
	Key         string
	ContentType string
	Size        int64
}

// storeUpload reads the multipart file, sniffs its type and saves it under
// prefix+uuid+ext. The client filename never becomes part of the key.
func storeUpload(ctx context.Context, strg ImageStorage, prefix string, up *model.UploadData) (*storedUpload, error) {
	if up == nil || up.File == nil {
		return nil, errors.New("nil upload provided")
	}

	data, err := io.ReadAll(up.File)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	ctype := imageproc.SniffContentType(data)
	res := &storedUpload{
		Key:         prefix + uuid.NewString() + imageproc.FileExt(ctype),
		ContentType: ctype,
		Size:        int64(len(data)),
	}

	if err := strg.Put(ctx, res.Key, res.Size, res.ContentType, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("put upload %q: %w", res.Key, err)
	}

	return res, nil
}

// removeUpload удаляет загрузку даже если запрос уже отменен
func removeUpload(ctx context.Context, strg ImageStorage, key string) {
	logger := mwlogger.LoggerFromContext(ctx)
	if err := strg.Delete(context.WithoutCancel(ctx), key); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to delete upload from Storage")
	}
}

func closeFileFlow(ctx context.Context, res io.ReadCloser) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Warn().Err(err).Msg("Service failed to close fileflow")
	}
}
