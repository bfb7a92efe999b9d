package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mapGetter map[string]string

func (m mapGetter) GetString(key string) string {
	return m[key]
}

func TestNewBarcodeConfig_Defaults(t *testing.T) {
	cfg, err := NewBarcodeConfig(mapGetter{})
	require.NoError(t, err)

	require.Equal(t, "8081", cfg.Port)
	require.Equal(t, "release", cfg.GinMode)
	require.Equal(t, int64(10), cfg.MaxUploadMB)
	require.Equal(t, BackendDisk, cfg.Storage.Backend)
	require.Equal(t, "uploads", cfg.Storage.UploadDir)
	require.Equal(t, "https://world.openfoodfacts.org", cfg.OFFBaseURL)
	require.Equal(t, 10*time.Second, cfg.OFFTimeout)
	require.NotEmpty(t, cfg.OFFUserAgent)
}

func TestNewBarcodeConfig_Overrides(t *testing.T) {
	cfg, err := NewBarcodeConfig(mapGetter{
		"APP_PORT":      "9000",
		"OFF_BASE_URL":  "http://localhost:1234/",
		"OFF_TIMEOUT":   "1500ms",
		"MAX_UPLOAD_MB": "2",
	})
	require.NoError(t, err)

	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, "http://localhost:1234", cfg.OFFBaseURL)
	require.Equal(t, 1500*time.Millisecond, cfg.OFFTimeout)
	require.Equal(t, int64(2), cfg.MaxUploadMB)
}

func TestNewBarcodeConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  mapGetter
	}{
		{name: "bad timeout", env: mapGetter{"OFF_TIMEOUT": "soon"}},
		{name: "negative timeout", env: mapGetter{"OFF_TIMEOUT": "-1s"}},
		{name: "bad upload limit", env: mapGetter{"MAX_UPLOAD_MB": "ten"}},
		{name: "zero upload limit", env: mapGetter{"MAX_UPLOAD_MB": "0"}},
		{name: "unknown backend", env: mapGetter{"STORAGE_BACKEND": "ftp"}},
		{name: "minio without endpoint", env: mapGetter{"STORAGE_BACKEND": "minio"}},
		{name: "bad ssl flag", env: mapGetter{"MINIO_USE_SSL": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBarcodeConfig(tt.env)
			require.Error(t, err)
		})
	}
}

func TestNewPredictConfig(t *testing.T) {
	t.Run("key is required", func(t *testing.T) {
		_, err := NewPredictConfig(mapGetter{})
		require.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := NewPredictConfig(mapGetter{"ROBOFLOW_API_KEY": "secret"})
		require.NoError(t, err)

		require.Equal(t, "8082", cfg.Port)
		require.Equal(t, "https://serverless.roboflow.com", cfg.RoboflowURL)
		require.Equal(t, "indianfoodnet/1", cfg.RoboflowModel)
		require.Equal(t, 30*time.Second, cfg.RoboflowTimeout)
		require.Nil(t, cfg.RoboflowConfidence)
		require.Nil(t, cfg.RoboflowOverlap)
		require.True(t, cfg.KeepUploads)
	})

	t.Run("overrides", func(t *testing.T) {
		cfg, err := NewPredictConfig(mapGetter{
			"ROBOFLOW_API_KEY":     "secret",
			"ROBOFLOW_MODEL_ID":    "/food/3/",
			"ROBOFLOW_CONFIDENCE":  "40",
			"PREDICT_KEEP_UPLOADS": "false",
			"STORAGE_BACKEND":      "MINIO",
			"MINIO_ENDPOINT":       "minio:9000",
		})
		require.NoError(t, err)

		require.Equal(t, "food/3", cfg.RoboflowModel)
		require.NotNil(t, cfg.RoboflowConfidence)
		require.Equal(t, 40.0, *cfg.RoboflowConfidence)
		require.False(t, cfg.KeepUploads)
		require.Equal(t, BackendMinio, cfg.Storage.Backend)
	})

	t.Run("bad overlap", func(t *testing.T) {
		_, err := NewPredictConfig(mapGetter{"ROBOFLOW_API_KEY": "secret", "ROBOFLOW_OVERLAP": "lots"})
		require.Error(t, err)
	})
}
