// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// entity.go provides a Valkey-backed cache for single-entity reads.
// Entities are stored as JSON and dropped whenever they are written. Each
// key has a write generation; a value read before a write is only stored
// if the generation has not moved since, so a racing read cannot put a
// stale entity back after an invalidation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// entityKeyPrefix is the Valkey key prefix for cached entities.
	entityKeyPrefix = "wowblog:"

	// DefaultEntityTTL is how long an entity stays cached.
	DefaultEntityTTL = 5 * time.Minute

	// generationTTL keeps write generations well past any in-flight read.
	generationTTL = 24 * time.Hour
)

// errStaleFence aborts a Set whose fence no longer matches.
var errStaleFence = errors.New("stale cache fence")

// Key helpers for the cached entities.
func CategoryKey(id int64) string { return "category:" + strconv.FormatInt(id, 10) }
func PostKey(id int64) string     { return "post:" + strconv.FormatInt(id, 10) }

// BannerKey is the key of the singleton banner.
const BannerKey = "banner"

// EntityCache caches JSON-encoded entities in Valkey. A nil *EntityCache
// or one without a client is valid and never hits.
type EntityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEntityCache creates an entity cache backed by the given client.
// A nil client yields a cache that stores nothing.
func NewEntityCache(client *redis.Client, ttl time.Duration) *EntityCache {
	if ttl <= 0 {
		ttl = DefaultEntityTTL
	}
	return &EntityCache{client: client, ttl: ttl}
}

func (c *EntityCache) enabled() bool {
	return c != nil && c.client != nil
}

// Get decodes the cached value for key into dst and reports whether it
// was found. Errors are logged and treated as a miss.
func (c *EntityCache) Get(ctx context.Context, key string, dst any) bool {
	if !c.enabled() {
		return false
	}
	val, err := c.client.Get(ctx, entityKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("entity cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		slog.Warn("entity cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("entity cache hit", "key", key)
	return true
}

func generationKey(key string) string {
	return entityKeyPrefix + "gen:" + key
}

// Fence returns the current write generation of key. Take it before
// reading the entity from the database and pass it to Set.
func (c *EntityCache) Fence(ctx context.Context, key string) int64 {
	if !c.enabled() {
		return 0
	}
	gen, err := c.client.Get(ctx, generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		slog.Warn("entity cache fence error", "key", key, "error", err)
		return -1
	}
	return gen
}

// Set stores v under key with the configured TTL, unless key was
// invalidated after fence was taken.
func (c *EntityCache) Set(ctx context.Context, key string, fence int64, v any) {
	if !c.enabled() || fence < 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("entity cache encode error", "key", key, "error", err)
		return
	}

	genKey := generationKey(key)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		gen, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if gen != fence {
			return errStaleFence
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, entityKeyPrefix+key, data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFence), errors.Is(err, redis.TxFailedErr):
		slog.Debug("entity cache set skipped, key was written", "key", key)
	default:
		slog.Warn("entity cache set error", "key", key, "error", err)
	}
}

// Invalidate removes the given keys and bumps their write generations.
// Call it after the database write has committed.
func (c *EntityCache) Invalidate(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, generationKey(k))
			pipe.Expire(ctx, generationKey(k), generationTTL)
			pipe.Del(ctx, entityKeyPrefix+k)
		}
		return nil
	})
	if err != nil {
		slog.Warn("entity cache invalidate error", "keys", keys, "error", err)
	}
}
