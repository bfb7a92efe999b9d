package main

import (
	"context"

	"github.com/UnendingLoop/FoodScanner/internal/model"
)

type BarcodeAPIService interface {
	Lookup(ctx context.Context, up *model.UploadData) (*model.Product, error)
}
