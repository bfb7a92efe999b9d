package main

import (
	"context"
	"encoding/json"

	"github.com/UnendingLoop/FoodScanner/internal/model"
)

type PredictAPIService interface {
	Predict(ctx context.Context, up *model.UploadData) (json.RawMessage, error)
}
