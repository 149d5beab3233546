// Package sitecache keeps a copy of the settings fields map in Redis so
// public page renders do not hit Mongo on every request.
package sitecache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL is used when no TTL is configured.
const DefaultTTL = 5 * time.Minute

const (
	settingsKey = "stratatour:settings"
	// genKey counts writes. A read-through fill only lands if no write
	// happened since the filler started reading the store.
	genKey = "stratatour:settings:gen"
)

// ErrMiss is returned by Get when nothing is cached.
var ErrMiss = errors.New("settings not cached")

// Cache stores the settings map under a single key.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to the Redis server at url and verifies the connection.
func New(ctx context.Context, url string, ttl time.Duration) (*Cache, error) {
	if url == "" {
		return nil, errors.New("redis URL is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewWithClient(client, ttl), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached settings map or ErrMiss.
func (c *Cache) Get(ctx context.Context) (map[string]string, error) {
	b, err := c.client.Get(ctx, settingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var fields map[string]string
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, ErrMiss
	}
	return fields, nil
}

// Set caches fields as the newest value and bumps the write generation,
// so a fill that started earlier is discarded.
func (c *Cache) Set(ctx context.Context, fields map[string]string) error {
	b, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Set(ctx, settingsKey, b, c.ttl)
		return nil
	})
	return err
}

// Generation returns the current write generation. Pass it to Fill after
// reading the store.
func (c *Cache) Generation(ctx context.Context) (int64, error) {
	n, err := c.client.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Fill caches fields read from the store only if no Set happened since
// gen was taken. It reports whether the value was written.
func (c *Cache) Fill(ctx context.Context, gen int64, fields map[string]string) (bool, error) {
	b, err := json.Marshal(fields)
	if err != nil {
		return false, err
	}
	filled := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, settingsKey, b, c.ttl)
			return nil
		})
		if err == nil {
			filled = true
		}
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return filled, err
}

// Invalidate drops the cached map.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, settingsKey).Err()
}

// Ping checks the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// SettingsStore is the backing store the cache reads through to.
type SettingsStore interface {
	Get(ctx context.Context) (map[string]string, error)
	Replace(ctx context.Context, fields map[string]string, editorName string) error
}

// Settings reads settings through the cache and writes through it. A nil cache disables caching.
// Cache failures are logged and fall back to the store.
type Settings struct {
	store  SettingsStore
	cache  *Cache
	logger *zap.Logger
}

// NewSettings returns a read-through view over store.
func NewSettings(store SettingsStore, cache *Cache, logger *zap.Logger) *Settings {
	return &Settings{store: store, cache: cache, logger: logger}
}

// Get returns the settings map, from cache when possible.
func (s *Settings) Get(ctx context.Context) (map[string]string, error) {
	if s.cache == nil {
		return s.store.Get(ctx)
	}
	fields, err := s.cache.Get(ctx)
	if err == nil {
		return fields, nil
	}
	if !errors.Is(err, ErrMiss) {
		s.logger.Warn("settings cache read failed", zap.Error(err))
	}
	gen, genErr := s.cache.Generation(ctx)
	fields, err = s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		s.logger.Warn("settings cache generation read failed", zap.Error(genErr))
		return fields, nil
	}
	filled, err := s.cache.Fill(ctx, gen, fields)
	if err != nil {
		s.logger.Warn("settings cache write failed", zap.Error(err))
	} else if !filled {
		s.logger.Debug("settings cache fill skipped after a concurrent replace")
	}
	return fields, nil
}

// Replace writes through to the store, then caches the new map. A cache
// write failure drops the cached copy instead.
func (s *Settings) Replace(ctx context.Context, fields map[string]string, editorName string) error {
	if fields == nil {
		fields = map[string]string{}
	}
	if err := s.store.Replace(ctx, fields, editorName); err != nil {
		return err
	}
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Set(ctx, fields); err != nil {
		s.logger.Warn("settings cache write failed", zap.Error(err))
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("settings cache invalidate failed", zap.Error(err))
		}
	}
	return nil
}
