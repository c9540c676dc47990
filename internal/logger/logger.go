// Package logger holds the process-wide zap logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once   sync.Once
	global *zap.SugaredLogger
)

// Init builds the shared logger once. "production" selects zap's JSON
// production config; anything else gets the human-readable development
// config. Calls after the first are no-ops.
func Init(env string) {
	once.Do(func() {
		build := zap.NewDevelopment
		if env == "production" {
			build = zap.NewProduction
		}
		base, err := build()
		if err != nil {
			base = zap.NewNop()
		}
		global = base.Sugar()
	})
}

// Get returns the shared sugared logger, initializing a development
// logger when Init was never called.
func Get() *zap.SugaredLogger {
	if global == nil {
		Init("development")
	}
	return global
}

// Sync flushes buffered entries. Call it on shutdown.
func Sync() {
	if global != nil {
		_ = global.Sync()
	}
}
