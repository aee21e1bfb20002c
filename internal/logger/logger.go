package logger

import (
	"fmt"

	"github.com/doorline/leadcapture-api/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a new structured logger
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	zapCfg := buildConfig(cfg, appCfg)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}

func buildConfig(cfg *config.LoggingConfig, appCfg *config.AppConfig) zap.Config {
	var zapCfg zap.Config

	if cfg.Format == "json" || appCfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapCfg.InitialFields = map[string]interface{}{
		"app":         appCfg.Name,
		"environment": appCfg.Environment,
	}
	return zapCfg
}

// WithRequest adds request context to logger
func WithRequest(logger *zap.Logger, method, path, requestID string) *zap.Logger {
	return logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
}

// WithIdentity adds the signed-in identity to logger
func WithIdentity(logger *zap.Logger, email, role string) *zap.Logger {
	return logger.With(
		zap.String("user_email", email),
		zap.String("user_role", role),
	)
}

// WithDraft tags log lines with a wizard draft
func WithDraft(logger *zap.Logger, draftID string, step int) *zap.Logger {
	return logger.With(
		zap.String("draft_id", draftID),
		zap.Int("step", step),
	)
}
