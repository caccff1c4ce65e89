package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultMaxSizeMB  = 100
	defaultMaxAgeDays = 28
	defaultMaxBackups = 3
)

type LoggerConfig struct {
	Debug bool

	// LogFile, when set, tees every entry into a size-rotated file in addition to stderr.
	LogFile    string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
}

// NewLogger builds a zap logger. Debug selects the development console encoder at debug
// level; otherwise a production JSON logger at info level is returned.
func NewLogger(cfg *LoggerConfig) (*zap.Logger, error) {
	if cfg == nil {
		cfg = &LoggerConfig{}
	}

	var zapCfg zap.Config
	if cfg.Debug {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	if cfg.LogFile == "" {
		return l, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    valueOrDefault(cfg.MaxSizeMB, defaultMaxSizeMB),
		MaxAge:     valueOrDefault(cfg.MaxAgeDays, defaultMaxAgeDays),
		MaxBackups: valueOrDefault(cfg.MaxBackups, defaultMaxBackups),
	}
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(rotator),
		zapCfg.Level,
	)

	return l.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	})), nil
}

// NewNopOrDefault returns l when non-nil, otherwise a no-op logger.
func NewNopOrDefault(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func valueOrDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
