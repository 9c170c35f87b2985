// Package logging builds the zap loggers shared by the sidenav commands.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// EnvVarLogLevel overrides the configured level when set.
	EnvVarLogLevel = "SIDENAV_LOG_LEVEL"
)

// New returns a console logger writing to stderr at the given level.
// Unknown levels fall back to info.
func New(level string) *zap.Logger {
	if env := os.Getenv(EnvVarLogLevel); env != "" {
		level = env
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		ParseLevel(level),
	)
	return zap.New(core)
}

// ParseLevel converts a level name into a zap level.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
