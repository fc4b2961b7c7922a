package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	cfg := validConfig()
	cfg.Logging = LoggingConfig{Level: "warn", Format: "console"}

	logger, err := NewLogger(&cfg)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewLogger_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		logging LoggingConfig
	}{
		{"unknown level", LoggingConfig{Level: "loud"}},
		{"unknown format", LoggingConfig{Level: "info", Format: "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logging = tt.logging
			_, err := NewLogger(&cfg)
			assert.Error(t, err)
		})
	}
}
