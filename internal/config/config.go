package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type UploadConfig struct {
	// MaxBytes caps a single logo upload.
	MaxBytes     int64
	MaxDimension int
	MaxPixels    int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type PersistenceConfig struct {
	// Backend is one of memory, redis or none.
	Backend string
	Key     string
	Redis   RedisConfig
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Upload           UploadConfig
	Persistence      PersistenceConfig
	AllowCORSOrigins []string
	StaticDir        string
}

// Addr is the listen address for the HTTP server.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads config.yaml from the working directory or ./config, then
// applies QRSTYLER_* environment overrides (QRSTYLER_HTTP_PORT and so on).
// A missing file is not an error.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	return load(v)
}

func load(v *viper.Viper) (*AppConfig, error) {
	v.SetEnvPrefix("QRSTYLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is honoured for platforms that inject it.
	_ = v.BindEnv("http.port", "QRSTYLER_HTTP_PORT", "PORT")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.maxbytes must be positive")
	}
	switch c.Persistence.Backend {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("persistence.backend %q must be memory, redis or none", c.Persistence.Backend)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "30s")
	v.SetDefault("http.idletimeout", "60s")
	v.SetDefault("http.shutdowntimeout", "10s")

	v.SetDefault("upload.maxbytes", 2<<20) // 2 MiB
	v.SetDefault("upload.maxdimension", 8192)
	v.SetDefault("upload.maxpixels", 40_000_000)

	v.SetDefault("persistence.backend", "memory")
	v.SetDefault("persistence.key", "qrstyler:state")
	v.SetDefault("persistence.redis.addr", "127.0.0.1:6379")
	v.SetDefault("persistence.redis.db", 0)
	v.SetDefault("persistence.redis.ttl", "0s")

	v.SetDefault("allowcorsorigins", []string{})
	v.SetDefault("staticdir", "web/static")
}
