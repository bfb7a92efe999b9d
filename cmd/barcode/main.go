// Package main (in barcode-subfolder) launches the barcode lookup service: POST /upload
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

	"github.com/UnendingLoop/FoodScanner/internal/barcode"
	"github.com/UnendingLoop/FoodScanner/internal/config"
	"github.com/UnendingLoop/FoodScanner/internal/imageproc"
	"github.com/UnendingLoop/FoodScanner/internal/mwlogger"
	"github.com/UnendingLoop/FoodScanner/internal/openfoodfacts"
	"github.com/UnendingLoop/FoodScanner/internal/service"
	"github.com/UnendingLoop/FoodScanner/internal/storage"
	"github.com/UnendingLoop/FoodScanner/internal/transport"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	// инициализировать конфиг/ считать энвы
	cfg, err := config.NewBarcodeConfig(config.Load())
	if err != nil {
		log.Fatalf("Invalid config: %v\nExiting app...", err)
	}

	// стартуем логгер
	zlog.InitConsole()
	if err := zlog.SetLevel(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	// готовим заранее слушатель прерываний - контекст для всего приложения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// подключиться к хранилищу загрузок
	strg, err := storage.NewUploadStorage(cfg.Storage, 5, 5*time.Second)
	if err != nil {
		log.Fatalf("Failed to init upload storage: %v\nExiting app...", err)
	}

	// собираем сервис
	off := openfoodfacts.New(cfg.OFFBaseURL, cfg.OFFUserAgent, cfg.OFFTimeout)
	var svc BarcodeAPIService = service.NewBarcodeService(strg, barcode.NewDetector(), off, imageproc.DefaultScanSide)

	// cоздаем экземпляр хендлера HTTP и роутер
	handlers := transport.NewBarcodeHandler(svc, cfg.MaxUploadMB)
	engine := transport.NewBarcodeRouter(cfg.GinMode, handlers)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mwlogger.NewMWLogger(engine),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Server launch
	go func() {
		log.Printf("Barcode service running on http://localhost%s\n", srv.Addr)
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
	log.Println("Exiting barcode service...")
}

func shutdown(srv *http.Server) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	// даем текущим запросам доработать
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Println("Failed to shutdown HTTP-server correctly:", err)
		return
	}
	log.Println("HTTP-server stopped")
}
