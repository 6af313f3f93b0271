package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setAssetEnv(t *testing.T) {
	t.Setenv("ASSET_CLOUD_NAME", "demo")
	t.Setenv("ASSET_API_KEY", "key")
	t.Setenv("ASSET_API_SECRET", "secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setAssetEnv(t)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.serverAddress)
	assert.Equal(t, storeDriverPostgres, cfg.storeDriver)
	assert.Equal(t, 5*time.Second, cfg.dbTimeout)
	assert.Equal(t, int64(10<<20), cfg.maxUploadBytes)
	assert.Equal(t, "books", cfg.assets.Folder)
	assert.Equal(t, 2, cfg.assets.MaxRetries)
	assert.Empty(t, cfg.allowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setAssetEnv(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DB_TIMEOUT", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ASSET_RPS", "3")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, storeDriverMemory, cfg.storeDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.dbTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.allowedOrigins)
	assert.Equal(t, 3, cfg.assets.RPS)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"STORE_DRIVER":     "sqlite",
		"DB_TIMEOUT":       "soon",
		"MAX_UPLOAD_BYTES": "big",
		"RATE_LIMIT_RPS":   "fast",
	}
	for _, timeout := range []string{"0s", "-1s"} {
		t.Run("DB_TIMEOUT="+timeout, func(t *testing.T) {
			setAssetEnv(t)
			t.Setenv("DB_TIMEOUT", timeout)

			_, err := loadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "DB_TIMEOUT must be positive")
		})
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			setAssetEnv(t)
			t.Setenv(key, value)

			_, err := loadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "postgres://***@db:5432/app", redactDSN("postgres://user:pw@db:5432/app"))
	assert.Equal(t, "host=db user=x", redactDSN("host=db user=x"))
}
