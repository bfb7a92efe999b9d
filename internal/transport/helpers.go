package transport

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/UnendingLoop/FoodScanner/internal/model"
	"github.com/wb-go/wbf/ginext"
)

const (
	imageField        = "image"
	multipartOverhead = 1 << 20
)

func errorCodeDefiner(err error) int {
	var inferErr *model.InferenceError

	switch {
	case errors.Is(err, model.ErrCommon500):
		return 500
	case errors.As(err, &inferErr):
		return 500
	case errors.Is(err, model.ErrProductNotFound):
		return 404
	case errors.Is(err, model.ErrImageTooLarge):
		return 413
	case errors.Is(err, model.ErrLookupUnavailable):
		return 502
	case errors.Is(err, model.ErrLookupTimeout):
		return 504
	case errors.Is(err, model.ErrNoImagePart),
		errors.Is(err, model.ErrNoSelectedFile),
		errors.Is(err, model.ErrNoImageProvided),
		errors.Is(err, model.ErrEmptyFilename),
		errors.Is(err, model.ErrUnreadableImage),
		errors.Is(err, model.ErrNoBarcode):
		return 400
	default:
		return 500
	}
}

// readUpload достает файл из поля "image". missingErr - поля нет совсем,
// emptyErr - поле есть, но без имени файла (браузер так шлет пустой input).
func readUpload(ctx *ginext.Context, maxBytes int64, missingErr, emptyErr error) (*model.UploadData, error) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBytes+multipartOverhead)

	file, header, err := ctx.Request.FormFile(imageField)
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			return nil, model.ErrImageTooLarge
		case errors.Is(err, http.ErrMissingFile):
			// multipart кладет часть с filename="" в обычные значения формы
			if form := ctx.Request.MultipartForm; form != nil {
				if _, ok := form.Value[imageField]; ok {
					return nil, emptyErr
				}
			}
			return nil, missingErr
		default:
			return nil, missingErr
		}
	}

	if header.Filename == "" {
		closeFileFlow(file)
		return nil, emptyErr
	}
	if header.Size > maxBytes {
		closeFileFlow(file)
		return nil, model.ErrImageTooLarge
	}

	return &model.UploadData{
		File:        file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, nil
}

func closeFileFlow(res io.ReadCloser) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		log.Println("Handler failed to close fileflow:", err)
	}
}
