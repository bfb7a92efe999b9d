// Package main (in predict-subfolder) launches the food classification service: POST /predict
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnendingLoop/FoodScanner/internal/config"
	"github.com/UnendingLoop/FoodScanner/internal/mwlogger"
	"github.com/UnendingLoop/FoodScanner/internal/roboflow"
	"github.com/UnendingLoop/FoodScanner/internal/service"
	"github.com/UnendingLoop/FoodScanner/internal/storage"
	"github.com/UnendingLoop/FoodScanner/internal/transport"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	// без ключа инференса стартовать смысла нет - конфиг это проверяет
	cfg, err := config.NewPredictConfig(config.Load())
	if err != nil {
		log.Fatalf("Invalid config: %v\nExiting app...", err)
	}

	zlog.InitConsole()
	if err := zlog.SetLevel(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	strg, err := storage.NewUploadStorage(cfg.Storage, 5, 5*time.Second)
	if err != nil {
		log.Fatalf("Failed to init upload storage: %v\nExiting app...", err)
	}

	rf := roboflow.New(roboflow.Options{
		BaseURL:    cfg.RoboflowURL,
		APIKey:     cfg.RoboflowKey,
		ModelID:    cfg.RoboflowModel,
		Timeout:    cfg.RoboflowTimeout,
		Confidence: cfg.RoboflowConfidence,
		Overlap:    cfg.RoboflowOverlap,
	})
	zlog.Logger.Info().Str("model", rf.ModelID()).Bool("keep_uploads", cfg.KeepUploads).Msg("Inference client ready")

	var svc PredictAPIService = service.NewPredictService(strg, rf, cfg.KeepUploads)

	handlers := transport.NewPredictHandler(svc, cfg.MaxUploadMB)
	engine := transport.NewPredictRouter(cfg.GinMode, handlers)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mwlogger.NewMWLogger(engine),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Printf("Predict service running on http://localhost%s\n", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				log.Println("Server gracefully stopping...")
			default:
				log.Printf("Server stopped: %v", err)
				stop()
			}
		}
	}()

	<-ctx.Done()

	shutdown(srv)
	log.Println("Exiting predict service...")
}

func shutdown(srv *http.Server) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Println("Failed to shutdown HTTP-server correctly:", err)
		return
	}
	log.Println("HTTP-server stopped")
}
