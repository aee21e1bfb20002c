package logger

import (
	"testing"

	"github.com/doorline/leadcapture-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuildConfig(t *testing.T) {
	t.Run("production uses json encoding", func(t *testing.T) {
		cfg := buildConfig(&config.LoggingConfig{Level: "warn", Format: "console"}, &config.AppConfig{Name: "api", Environment: "production"})
		assert.Equal(t, "json", cfg.Encoding)
		assert.Equal(t, zapcore.WarnLevel, cfg.Level.Level())
		assert.Equal(t, "production", cfg.InitialFields["environment"])
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		cfg := buildConfig(&config.LoggingConfig{Level: "loud", Format: "console"}, &config.AppConfig{Environment: "development"})
		assert.Equal(t, "console", cfg.Encoding)
		assert.Equal(t, zapcore.InfoLevel, cfg.Level.Level())
	})
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(&config.LoggingConfig{Level: "debug", Format: "json"}, &config.AppConfig{Name: "api", Environment: "test"})
	require.NoError(t, err)
	assert.NotNil(t, WithDraft(WithIdentity(log, "a@example.com", "user"), "draft-1", 0))
}
