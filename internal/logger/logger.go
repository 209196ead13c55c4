// Package logger holds the process-wide Zap logger.
package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	once  sync.Once
)

// Init builds the global logger for env. "production" logs JSON at info,
// "test" discards everything, anything else logs to the console at debug.
// Only the first call has any effect.
func Init(env string) {
	once.Do(func() {
		var (
			base *zap.Logger
			err  error
		)

		switch env {
		case "production":
			cfg := zap.NewProductionConfig()
			cfg.Level = level
			base, err = cfg.Build()
		case "test":
			base = zap.NewNop()
		default:
			level.SetLevel(zapcore.DebugLevel)
			cfg := zap.NewDevelopmentConfig()
			cfg.Level = level
			base, err = cfg.Build()
		}
		if err != nil {
			base = zap.NewNop()
		}

		sugar = base.Sugar()
	})
}

// SetLevel changes the minimum level of the running logger. An empty name
// leaves it unchanged.
func SetLevel(name string) error {
	if name == "" {
		return nil
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	level.SetLevel(lvl)
	return nil
}

// Level returns the current minimum level.
func Level() zapcore.Level {
	return level.Level()
}

// Get returns the global logger, initialising a development logger on
// first use. It is safe to call from concurrent goroutines.
func Get() *zap.SugaredLogger {
	Init("development")
	return sugar
}

// Sync flushes buffered entries.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
