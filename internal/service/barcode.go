package service

import (
	"context"
	"errors"

	"github.com/UnendingLoop/FoodScanner/internal/imageproc"
	"github.com/UnendingLoop/FoodScanner/internal/model"
	"github.com/UnendingLoop/FoodScanner/internal/mwlogger"
)

type BarcodeService struct {
	storage  ImageStorage
	detector BarcodeDetector
	lookup   ProductLookup
	scanSide int
}

func NewBarcodeService(strg ImageStorage, detector BarcodeDetector, lookup ProductLookup, scanSide int) *BarcodeService {
	return &BarcodeService{
		storage:  strg,
		detector: detector,
		lookup:   lookup,
		scanSide: scanSide,
	}
}

// Lookup stores the upload, finds the first barcode on it and asks Open Food
// Facts about it. The stored upload is removed on every path.
func (s BarcodeService) Lookup(ctx context.Context, up *model.UploadData) (*model.Product, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	// кладем загрузку под уникальным ключом - параллельные запросы друг другу не мешают
	stored, err := storeUpload(ctx, s.storage, scanKeyPrefix, up)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to save scan-image in Storage")
		return nil, model.ErrCommon500
	}
	defer removeUpload(ctx, s.storage, stored.Key)

	// читаем обратно из хранилища
	src, _, err := s.storage.Get(ctx, stored.Key)
	if err != nil {
		logger.Error().Err(err).Str("key", stored.Key).Msg("Failed to fetch scan-image from Storage")
		return nil, model.ErrCommon500
	}
	defer closeFileFlow(ctx, src)

	img, err := imageproc.Decode(src)
	if err != nil {
		if errors.Is(err, model.ErrUnreadableImage) {
			logger.Info().Err(err).Str("sniffed_type", stored.ContentType).Msg("Upload is not a decodable image")
			return nil, model.ErrUnreadableImage
		}
		logger.Error().Err(err).Msg("Failed to decode scan-image")
		return nil, model.ErrCommon500
	}

	// первый найденный код побеждает, несколько кодов на фото не разруливаем
	sym, err := s.detector.Detect(imageproc.PrepareForScan(img, s.scanSide))
	if err != nil {
		if errors.Is(err, model.ErrNoBarcode) {
			return nil, model.ErrNoBarcode
		}
		logger.Error().Err(err).Msg("Barcode detector failed")
		return nil, model.ErrCommon500
	}
	logger.Info().Str("barcode", sym.Text).Str("format", sym.Format).Msg("Barcode decoded")

	// идем в Open Food Facts - ровно одна попытка
	product, err := s.lookup.Product(ctx, sym.Text)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProductNotFound):
			return nil, model.ErrProductNotFound
		case errors.Is(err, model.ErrLookupTimeout):
			logger.Warn().Err(err).Str("barcode", sym.Text).Msg("Product lookup timed out")
			return nil, model.ErrLookupTimeout
		default:
			logger.Error().Err(err).Str("barcode", sym.Text).Msg("Product lookup failed")
			return nil, model.ErrLookupUnavailable
		}
	}

	product.Barcode = sym.Text
	product.Format = sym.Format
	return product, nil
}
