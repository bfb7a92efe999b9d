package transport

import (
	"context"
	"encoding/json"

	"github.com/UnendingLoop/FoodScanner/internal/model"
	"github.com/gin-gonic/gin"
)

type mockBarcodeService struct {
	lookupFn func(ctx context.Context, up *model.UploadData) (*model.Product, error)
}

func (m *mockBarcodeService) Lookup(ctx context.Context, up *model.UploadData) (*model.Product, error) {
	return m.lookupFn(ctx, up)
}

type mockPredictService struct {
	predictFn func(ctx context.Context, up *model.UploadData) (json.RawMessage, error)
}

func (m *mockPredictService) Predict(ctx context.Context, up *model.UploadData) (json.RawMessage, error) {
	return m.predictFn(ctx, up)
}

func init() {
	gin.SetMode(gin.TestMode)
}
