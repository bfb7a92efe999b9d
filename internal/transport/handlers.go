// Package transport provides methods for processing requests from endpoints
package transport

import (
	"context"
	"encoding/json"

	"github.com/UnendingLoop/FoodScanner/internal/model"
	"github.com/wb-go/wbf/ginext"
)

type BarcodeService interface {
	Lookup(ctx context.Context, up *model.UploadData) (*model.Product, error)
}

type PredictService interface {
	Predict(ctx context.Context, up *model.UploadData) (json.RawMessage, error)
}

type BarcodeHandler struct {
	service   BarcodeService
	maxUpload int64
}

type PredictHandler struct {
	service   PredictService
	maxUpload int64
}

// maxUploadMB - лимит на размер картинки, тело запроса режется чуть больше из-за multipart-обвязки
func NewBarcodeHandler(svc BarcodeService, maxUploadMB int64) *BarcodeHandler {
	return &BarcodeHandler{service: svc, maxUpload: maxUploadMB << 20}
}

func NewPredictHandler(svc PredictService, maxUploadMB int64) *PredictHandler {
	return &PredictHandler{service: svc, maxUpload: maxUploadMB << 20}
}

func SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

// Upload - POST /upload: картинка со штрихкодом -> продукт из Open Food Facts
func (h BarcodeHandler) Upload(ctx *ginext.Context) {
	up, err := readUpload(ctx, h.maxUpload, model.ErrNoImagePart, model.ErrNoSelectedFile)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}
	defer closeFileFlow(up.File)

	res, err := h.service.Lookup(ctx.Request.Context(), up)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

// Predict - POST /predict: картинка с едой -> сырой ответ сервиса инференса
func (h PredictHandler) Predict(ctx *ginext.Context) {
	up, err := readUpload(ctx, h.maxUpload, model.ErrNoImageProvided, model.ErrEmptyFilename)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}
	defer closeFileFlow(up.File)

	res, err := h.service.Predict(ctx.Request.Context(), up)
	if err != nil {
		// текст ошибки инференса отдаем как есть
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	// ответ не трогаем - схема принадлежит сервису инференса
	ctx.Data(200, "application/json; charset=utf-8", res)
}
