// Package model provides data-structs and errors shared by both services
package model

import (
	"errors"
	"fmt"
	"mime/multipart"
)

// UploadData - то, что хендлер достал из multipart-формы
type UploadData struct {
	File        multipart.File
	Filename    string
	ContentType string
	Size        int64
}

//---------------------

// NotAvailable - значение product_name, если в записи Open Food Facts имени нет
const NotAvailable = "N/A"

type Product struct {
	ProductName string     `json:"product_name"`
	Barcode     string     `json:"barcode"`
	Format      string     `json:"format,omitempty"`
	Brands      string     `json:"brands,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Nutrition   *Nutrition `json:"nutrition,omitempty"`
}

// Nutrition - значения на 100 г продукта
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// ------------------

var (
	ErrCommon500         error = errors.New("something went wrong. Try again later")   // 500
	ErrNoImagePart       error = errors.New("No image part")                           // 400 /upload
	ErrNoSelectedFile    error = errors.New("No selected file")                        // 400 /upload
	ErrNoImageProvided   error = errors.New("No image provided")                       // 400 /predict
	ErrEmptyFilename     error = errors.New("Empty filename")                          // 400 /predict
	ErrImageTooLarge     error = errors.New("Uploaded image is too large")             // 413
	ErrUnreadableImage   error = errors.New("Unable to decode image")                  // 400
	ErrNoBarcode         error = errors.New("No barcode found")                        // 400
	ErrProductNotFound   error = errors.New("Product not found in Open Food Facts")    // 404
	ErrLookupUnavailable error = errors.New("Open Food Facts is unavailable")          // 502
	ErrLookupTimeout     error = errors.New("Open Food Facts did not respond in time") // 504
)

// InferenceError - любая ошибка вызова сервиса инференса, текст отдается клиенту как есть
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	if e.Err == nil {
		return "inference failed"
	}
	return e.Err.Error()
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

func NewInferenceError(format string, args ...any) *InferenceError {
	return &InferenceError{Err: fmt.Errorf(format, args...)}
}

//--------------------

const (
	JPEG    = "image/jpeg"
	PNG     = "image/png"
	GIF     = "image/gif"
	WEBP    = "image/webp"
	BMP     = "image/bmp"
	Unknown = "application/octet-stream"
)

var GetImageFileExt = map[string]string{
	JPEG: ".jpg",
	PNG:  ".png",
	GIF:  ".gif",
	WEBP: ".webp",
	BMP:  ".bmp",
}

// DefaultFileExt - расширение для загрузок нераспознанного типа
const DefaultFileExt = ".img"
