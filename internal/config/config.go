package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration of the backend.
type Config struct {
	Env         string     `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string     `yaml:"storage_path" env:"STORAGE_PATH" env-default:"data/timesheet.db"`
	Log         LogConfig  `yaml:"log"`
	HTTPServer  HTTPServer `yaml:"http_server"`
	Photos      Photos     `yaml:"photos"`
	OCR         OCR        `yaml:"ocr"`
	Admin       Admin      `yaml:"admin"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	// AllowedOrigins lists the origins answered with CORS headers. "*" allows any.
	AllowedOrigins []string `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type Photos struct {
	Dir         string `yaml:"dir" env:"PHOTOS_DIR" env-default:"uploads"`
	MaxUploadMB int64  `yaml:"max_upload_mb" env:"PHOTOS_MAX_UPLOAD_MB" env-default:"10"`
}

// OCR points at the external text-extraction service used for photo uploads.
type OCR struct {
	Enabled bool          `yaml:"enabled" env:"OCR_ENABLED" env-default:"false"`
	BaseURL string        `yaml:"base_url" env:"OCR_BASE_URL" env-default:"http://localhost:8090"`
	Timeout time.Duration `yaml:"timeout" env:"OCR_TIMEOUT" env-default:"30s"`
}

// Admin lists the user ids allowed to read the cross-user reports.
type Admin struct {
	UserIDs []string `yaml:"user_ids" env:"ADMIN_USER_IDS" env-separator:","`
}

// LoadConfig reads the YAML file at path and applies environment overrides.
// A missing file is not an error: defaults and environment are used instead.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from env: %w", err)
		}
	} else {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.StoragePath == "" {
		return errors.New("storage_path must not be empty")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Photos.Dir == "" {
		return errors.New("photos.dir must not be empty")
	}
	if c.Photos.MaxUploadMB <= 0 {
		return fmt.Errorf("photos.max_upload_mb must be positive, got %d", c.Photos.MaxUploadMB)
	}
	if c.OCR.Enabled && c.OCR.BaseURL == "" {
		return errors.New("ocr.base_url is required when ocr is enabled")
	}
	return nil
}
