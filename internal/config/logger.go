package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the zap logger for cfg: the production preset in
// production, the development preset otherwise, with the configured level
// and encoding applied on top
func NewLogger(cfg *Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Server.Environment == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	if cfg.Logging.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid logging.level %q: %w", cfg.Logging.Level, err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	switch cfg.Logging.Format {
	case "":
	case "json", "console":
		zc.Encoding = cfg.Logging.Format
	default:
		return nil, fmt.Errorf("invalid logging.format %q: want json or console", cfg.Logging.Format)
	}

	return zc.Build()
}
