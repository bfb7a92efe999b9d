// Package config turns raw env-values from wbf/config into typed settings for both services
package config

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/wb-go/wbf/config"
)

const (
	BackendDisk  = "disk"
	BackendMinio = "minio"
)

// Common - общие настройки обоих сервисов
type Common struct {
	Port         string
	GinMode      string
	LogLevel     string
	MaxUploadMB  int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Storage      Storage
}

type Storage struct {
	Backend   string
	UploadDir string
	Endpoint  string
	User      string
	Pass      string
	UseSSL    bool
	Bucket    string
}

type BarcodeConfig struct {
	Common
	OFFBaseURL   string
	OFFUserAgent string
	OFFTimeout   time.Duration
}

type PredictConfig struct {
	Common
	RoboflowURL        string
	RoboflowKey        string
	RoboflowModel      string
	RoboflowTimeout    time.Duration
	RoboflowConfidence *float64
	RoboflowOverlap    *float64
	KeepUploads        bool
}

// Load reads env and ./.env into a wbf config. A missing .env file is not fatal.
func Load(envFiles ...string) *config.Config {
	appConfig := config.New()
	appConfig.EnableEnv("")
	if len(envFiles) == 0 {
		envFiles = []string{"./.env"}
	}
	for _, f := range envFiles {
		if err := appConfig.LoadEnvFiles(f); err != nil {
			log.Printf("Failed to load env-file %q: %v. Continuing with process env...", f, err)
		}
	}
	return appConfig
}

// Getter is the part of *config.Config used here
type Getter interface {
	GetString(key string) string
}

func NewBarcodeConfig(cfg Getter) (*BarcodeConfig, error) {
	common, err := newCommon(cfg, "8081")
	if err != nil {
		return nil, err
	}

	timeout, err := durationOr(cfg, "OFF_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	return &BarcodeConfig{
		Common:       *common,
		OFFBaseURL:   strings.TrimRight(stringOr(cfg, "OFF_BASE_URL", "https://world.openfoodfacts.org"), "/"),
		OFFUserAgent: stringOr(cfg, "OFF_USER_AGENT", "FoodScanner/1.0 (https://github.com/UnendingLoop/FoodScanner)"),
		OFFTimeout:   timeout,
	}, nil
}

func NewPredictConfig(cfg Getter) (*PredictConfig, error) {
	common, err := newCommon(cfg, "8082")
	if err != nil {
		return nil, err
	}

	key := cfg.GetString("ROBOFLOW_API_KEY")
	if key == "" {
		return nil, errors.New("ROBOFLOW_API_KEY is required")
	}

	timeout, err := durationOr(cfg, "ROBOFLOW_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	confidence, err := optionalFloat(cfg, "ROBOFLOW_CONFIDENCE")
	if err != nil {
		return nil, err
	}
	overlap, err := optionalFloat(cfg, "ROBOFLOW_OVERLAP")
	if err != nil {
		return nil, err
	}
	keep, err := boolOr(cfg, "PREDICT_KEEP_UPLOADS", true)
	if err != nil {
		return nil, err
	}

	return &PredictConfig{
		Common:             *common,
		RoboflowURL:        strings.TrimRight(stringOr(cfg, "ROBOFLOW_API_URL", "https://serverless.roboflow.com"), "/"),
		RoboflowKey:        key,
		RoboflowModel:      strings.Trim(stringOr(cfg, "ROBOFLOW_MODEL_ID", "indianfoodnet/1"), "/"),
		RoboflowTimeout:    timeout,
		RoboflowConfidence: confidence,
		RoboflowOverlap:    overlap,
		KeepUploads:        keep,
	}, nil
}

func newCommon(cfg Getter, defaultPort string) (*Common, error) {
	maxMB, err := intOr(cfg, "MAX_UPLOAD_MB", 10)
	if err != nil {
		return nil, err
	}
	if maxMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", maxMB)
	}
	readTimeout, err := durationOr(cfg, "HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	writeTimeout, err := durationOr(cfg, "HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	strg, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	return &Common{
		Port:         stringOr(cfg, "APP_PORT", defaultPort),
		GinMode:      stringOr(cfg, "GIN_MODE", "release"),
		LogLevel:     stringOr(cfg, "LOG_LEVEL", "info"),
		MaxUploadMB:  int64(maxMB),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Storage:      *strg,
	}, nil
}

func newStorage(cfg Getter) (*Storage, error) {
	backend := strings.ToLower(stringOr(cfg, "STORAGE_BACKEND", BackendDisk))
	useSSL, err := boolOr(cfg, "MINIO_USE_SSL", false)
	if err != nil {
		return nil, err
	}

	s := &Storage{
		Backend:   backend,
		UploadDir: stringOr(cfg, "UPLOAD_DIR", "uploads"),
		Endpoint:  cfg.GetString("MINIO_ENDPOINT"),
		User:      cfg.GetString("MINIO_USER"),
		Pass:      cfg.GetString("MINIO_PASS"),
		UseSSL:    useSSL,
		Bucket:    stringOr(cfg, "BUCKET_NAME", "uploads"),
	}

	switch backend {
	case BackendDisk:
	case BackendMinio:
		if s.Endpoint == "" {
			return nil, errors.New("MINIO_ENDPOINT is required for minio storage backend")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", backend)
	}

	return s, nil
}

// ------------------

func stringOr(cfg Getter, key, def string) string {
	if v := strings.TrimSpace(cfg.GetString(key)); v != "" {
		return v
	}
	return def
}

func intOr(cfg Getter, key string, def int) (int, error) {
	raw := strings.TrimSpace(cfg.GetString(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}

func boolOr(cfg Getter, key string, def bool) (bool, error) {
	raw := strings.TrimSpace(cfg.GetString(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}

func durationOr(cfg Getter, key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(cfg.GetString(key))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, v)
	}
	return v, nil
}

func optionalFloat(cfg Getter, key string) (*float64, error) {
	raw := strings.TrimSpace(cfg.GetString(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return &v, nil
}
