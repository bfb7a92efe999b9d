// Package barcode finds a barcode symbol on a decoded image with gozxing readers
package barcode

import (
	"errors"
	"fmt"
	"image"
	"unicode/utf8"

	"github.com/UnendingLoop/FoodScanner/internal/model"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

type Symbol struct {
	Text   string
	Format string
}

// ReaderFactory - ридеры gozxing хранят состояние, поэтому на каждый вызов создаем новые
type ReaderFactory func() gozxing.Reader

// DefaultReaders - порядок важен: при нескольких кодах на фото побеждает первый сработавший ридер
var DefaultReaders = []ReaderFactory{
	oned.NewEAN13Reader,
	oned.NewEAN8Reader,
	oned.NewUPCAReader,
	oned.NewUPCEReader,
	oned.NewCode128Reader,
	oned.NewCode39Reader,
	qrcode.NewQRCodeReader,
}

type Detector struct {
	readers []ReaderFactory
	hints   map[gozxing.DecodeHintType]interface{}
}

func NewDetector(readers ...ReaderFactory) *Detector {
	if len(readers) == 0 {
		readers = DefaultReaders
	}
	return &Detector{
		readers: readers,
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Detect returns the first symbol found on img. When nothing is decoded it
// returns model.ErrNoBarcode.
func (d *Detector) Detect(img image.Image) (*Symbol, error) {
	if img == nil {
		return nil, errors.New("nil image provided to Detect")
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to binarize image: %w", err)
	}

	for _, newReader := range d.readers {
		res, err := newReader().Decode(bmp, d.hints)
		if err != nil || res == nil {
			// NotFound/Checksum/Format - для нас все значит "этот ридер ничего не нашел"
			continue
		}

		text := res.GetText()
		if text == "" || !utf8.ValidString(text) {
			continue
		}

		return &Symbol{Text: text, Format: res.GetBarcodeFormat().String()}, nil
	}

	return nil, model.ErrNoBarcode
}
