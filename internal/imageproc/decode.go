// Package imageproc provides decoding and preparation of uploaded images before they are scanned or forwarded.
package imageproc

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/UnendingLoop/FoodScanner/internal/model"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // регистрируем webp-декодер для image.Decode
)

// DefaultScanSide - больше этого по длинной стороне картинку для сканирования уменьшаем
const DefaultScanSide = 2048

// Decode reads an image and applies its EXIF orientation. Bytes that are not a
// supported image yield model.ErrUnreadableImage.
func Decode(r io.Reader) (image.Image, error) {
	if r == nil {
		return nil, errors.New("nil-reader provided to Decode")
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnreadableImage, err)
	}

	return img, nil
}

// PrepareForScan shrinks oversized photos so that the barcode readers don't
// choke on 48MP phone pictures. maxSide <= 0 disables shrinking.
func PrepareForScan(img image.Image, maxSide int) image.Image {
	if img == nil || maxSide <= 0 {
		return img
	}

	b := img.Bounds()
	if b.Dx() <= maxSide && b.Dy() <= maxSide {
		return img
	}

	// Fit сохраняет пропорции, Lanczos не размывает штрихи
	return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
}
