// Package timeouts holds the deadlines applied to database and dependency
// calls made outside a request, such as health probes and background jobs.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults used until Configure is called.
const (
	DefaultPing  = 2 * time.Second
	DefaultShort = 5 * time.Second
	DefaultLong  = 30 * time.Second
)

// Config holds timeout values. Zero fields keep the current value.
type Config struct {
	Ping  time.Duration
	Short time.Duration
	Long  time.Duration
}

var (
	mu      sync.RWMutex
	current = Config{Ping: DefaultPing, Short: DefaultShort, Long: DefaultLong}
)

// Configure overrides the non-zero values in cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		current.Ping = cfg.Ping
	}
	if cfg.Short > 0 {
		current.Short = cfg.Short
	}
	if cfg.Long > 0 {
		current.Long = cfg.Long
	}
}

// Reset restores the defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = Config{Ping: DefaultPing, Short: DefaultShort, Long: DefaultLong}
}

// Current returns the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Ping bounds a single dependency health probe.
func Ping() time.Duration { return Current().Ping }

// Short bounds a single read or write.
func Short() time.Duration { return Current().Short }

// Long bounds multi-step work such as seeding or a background job run.
func Long() time.Duration { return Current().Long }

// WithTimeout derives a context with timeout. The returned cancel logs a
// warning when the deadline was what ended the operation.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
