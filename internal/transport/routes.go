package transport

import (
	"time"

	"github.com/UnendingLoop/FoodScanner/internal/mwlogger"
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"
)

// NewBarcodeRouter wires /ping and /upload for the barcode lookup service
func NewBarcodeRouter(mode string, h *BarcodeHandler) *ginext.Engine {
	engine := newEngine(mode)
	engine.POST("/upload", h.Upload)
	return engine
}

// NewPredictRouter wires /ping and /predict for the food classification service
func NewPredictRouter(mode string, h *PredictHandler) *ginext.Engine {
	engine := newEngine(mode)
	engine.POST("/predict", h.Predict)
	return engine
}

func newEngine(mode string) *ginext.Engine {
	engine := ginext.New(mode)

	// фронт ходит с любого origin
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", mwlogger.RequestIDHeader},
		ExposeHeaders:    []string{mwlogger.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/ping", SimplePinger)
	return engine
}
