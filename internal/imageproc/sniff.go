package imageproc

import (
	"net/http"
	"strings"

	"github.com/UnendingLoop/FoodScanner/internal/model"
)

// SniffContentType detects the type of an upload by its first bytes rather than trusting the client header
func SniffContentType(head []byte) string {
	ct := http.DetectContentType(head)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if _, ok := model.GetImageFileExt[ct]; ok {
		return ct
	}
	return model.Unknown
}

// FileExt returns the extension used for server-generated storage keys
func FileExt(contentType string) string {
	if ext, ok := model.GetImageFileExt[contentType]; ok {
		return ext
	}
	return model.DefaultFileExt
}
