package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/UnendingLoop/FoodScanner/internal/model"
	"github.com/UnendingLoop/FoodScanner/internal/mwlogger"
)

type PredictService struct {
	storage     ImageStorage
	inference   InferenceClient
	keepUploads bool
}

func NewPredictService(strg ImageStorage, infer InferenceClient, keepUploads bool) *PredictService {
	return &PredictService{
		storage:     strg,
		inference:   infer,
		keepUploads: keepUploads,
	}
}

// Predict stores the upload and relays the inference result unmodified.
// Inference failures come back as *model.InferenceError.
func (s PredictService) Predict(ctx context.Context, up *model.UploadData) (json.RawMessage, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	stored, err := storeUpload(ctx, s.storage, predictKeyPrefix, up)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to save predict-image in Storage")
		return nil, model.ErrCommon500
	}
	// имя клиента только в лог, в путь оно не попадает
	logger.Info().Str("client_filename", up.Filename).Str("key", stored.Key).Msg("Upload stored")
	if !s.keepUploads {
		defer removeUpload(ctx, s.storage, stored.Key)
	}

	src, _, err := s.storage.Get(ctx, stored.Key)
	if err != nil {
		logger.Error().Err(err).Str("key", stored.Key).Msg("Failed to fetch predict-image from Storage")
		return nil, model.ErrCommon500
	}
	data, err := io.ReadAll(src)
	closeFileFlow(ctx, src)
	if err != nil {
		logger.Error().Err(err).Str("key", stored.Key).Msg("Failed to read predict-image from Storage")
		return nil, model.ErrCommon500
	}

	res, err := s.inference.Infer(ctx, data)
	if err != nil {
		logger.Error().Err(err).Msg("Inference call failed")

		var inferErr *model.InferenceError
		if errors.As(err, &inferErr) {
			return nil, inferErr
		}
		return nil, &model.InferenceError{Err: err}
	}

	return res, nil
}
