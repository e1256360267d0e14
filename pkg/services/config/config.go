package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/statement-converter/pkg/models/domain"
	"github.com/spf13/viper"
)

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = "8080"
	defaultShutdownTimeout = 10 * time.Second
	defaultWorkDir         = "uploads"
	defaultMaxUploadSize   = 32 << 20 // 32 MiB
	defaultBackend         = "sample"
	defaultLogLevel        = "info"
)

// LoadConfig reads the optional config file at path, then lets environment
// variables override it (server.port -> SERVER_PORT).
func LoadConfig(path string) (*domain.Config, error) {
	v := viper.New()

	v.SetDefault("server.host", defaultHost)
	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("upload.work_dir", defaultWorkDir)
	v.SetDefault("upload.max_size", defaultMaxUploadSize)
	v.SetDefault("extractor.backend", defaultBackend)
	v.SetDefault("log.level", defaultLogLevel)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg domain.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Upload.MaxSize <= 0 {
		return nil, fmt.Errorf("upload.max_size must be positive, got %d", cfg.Upload.MaxSize)
	}
	if cfg.Upload.WorkDir == "" {
		return nil, fmt.Errorf("upload.work_dir cannot be empty")
	}

	return &cfg, nil
}
