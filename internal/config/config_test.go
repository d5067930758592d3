package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, dir string) (*AppConfig, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	return load(v)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := loadFrom(t, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, int64(2<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, 8192, cfg.Upload.MaxDimension)
	assert.Equal(t, 40_000_000, cfg.Upload.MaxPixels)
	assert.Equal(t, "memory", cfg.Persistence.Backend)
	assert.Equal(t, "qrstyler:state", cfg.Persistence.Key)
	assert.Equal(t, "127.0.0.1:6379", cfg.Persistence.Redis.Addr)
	assert.Empty(t, cfg.AllowCORSOrigins)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
environment: production
http:
  port: 9000
  writetimeout: 45s
persistence:
  backend: redis
  redis:
    addr: redis:6379
    db: 2
    ttl: 720h
allowcorsorigins:
  - https://qr.example.com
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := loadFrom(t, dir)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, 45*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, "redis", cfg.Persistence.Backend)
	assert.Equal(t, "redis:6379", cfg.Persistence.Redis.Addr)
	assert.Equal(t, 2, cfg.Persistence.Redis.DB)
	assert.Equal(t, 720*time.Hour, cfg.Persistence.Redis.TTL)
	assert.Equal(t, []string{"https://qr.example.com"}, cfg.AllowCORSOrigins)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("QRSTYLER_HTTP_PORT", "7070")
	t.Setenv("QRSTYLER_UPLOAD_MAXBYTES", "1048576")
	t.Setenv("QRSTYLER_ALLOWCORSORIGINS", "https://a.example,https://b.example")

	cfg, err := loadFrom(t, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.HTTP.Port)
	assert.Equal(t, int64(1<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowCORSOrigins)
}

func TestLoadPlatformPort(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := loadFrom(t, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("backend", func(t *testing.T) {
		t.Setenv("QRSTYLER_PERSISTENCE_BACKEND", "sqlite")
		_, err := loadFrom(t, t.TempDir())
		assert.ErrorContains(t, err, "persistence.backend")
	})

	t.Run("port", func(t *testing.T) {
		t.Setenv("QRSTYLER_HTTP_PORT", "70000")
		_, err := loadFrom(t, t.TempDir())
		assert.ErrorContains(t, err, "http.port")
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("http: [unclosed"), 0o600))
		_, err := loadFrom(t, dir)
		assert.ErrorContains(t, err, "load config file")
	})
}
