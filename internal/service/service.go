// Package service provides business-logic for both services: barcode lookup and food classification
package service

import (
	"context"
	"encoding/json"
	"image"
	"io"

	"github.com/UnendingLoop/FoodScanner/internal/barcode"
	"github.com/UnendingLoop/FoodScanner/internal/model"
)

// ImageStorage - контракт для работы с хранилищем загрузок
type ImageStorage interface {
	Delete(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (output io.ReadCloser, ctype string, err error)
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
}

// BarcodeDetector - контракт детектора штрихкодов
type BarcodeDetector interface {
	Detect(img image.Image) (*barcode.Symbol, error)
}

// ProductLookup - контракт справочника продуктов (Open Food Facts)
type ProductLookup interface {
	Product(ctx context.Context, code string) (*model.Product, error)
}

// InferenceClient - контракт сервиса распознавания еды
type InferenceClient interface {
	Infer(ctx context.Context, image []byte) (json.RawMessage, error)
}

const (
	scanKeyPrefix    = "scan/"
	predictKeyPrefix = "predict/"
)
