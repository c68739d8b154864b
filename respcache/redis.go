/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package respcache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MartinBugar/martyx-industries-fe-sub001/log"
)

// DefaultRedisKeyPrefix is a prefix for all keys written by RedisCache if no other prefix is specified.
const DefaultRedisKeyPrefix = "storefront:respcache:"

const defaultRedisOpTimeout = time.Second

const redisClearBatchSize = 100

// RedisOptions represents options for RedisCache.
type RedisOptions struct {
	// KeyPrefix is prepended to every cache key. DefaultRedisKeyPrefix is used if empty.
	KeyPrefix string

	// DefaultTTL is used by Set when the passed TTL is not positive. DefaultTTL (5m) is used if zero.
	DefaultTTL time.Duration

	// MaxEntrySize limits the size of a single payload in bytes. Bigger payloads are not cached.
	MaxEntrySize int

	// OpTimeout limits every Redis operation. 1s is used if zero.
	OpTimeout time.Duration

	// Logger is used for reporting Redis failures, which are otherwise treated as cache misses.
	Logger log.FieldLogger

	MetricsCollector MetricsCollector
}

// RedisCache is a response cache that keeps payloads in Redis.
// Expiration is delegated to Redis, so Sweep has nothing to do.
type RedisCache struct {
	client           redis.UniversalClient
	keyPrefix        string
	defaultTTL       time.Duration
	maxEntrySize     int
	opTimeout        time.Duration
	logger           log.FieldLogger
	metricsCollector MetricsCollector
}

// NewRedisCache creates a new RedisCache over the given client.
// The client is owned by the caller.
func NewRedisCache(client redis.UniversalClient, opts RedisOptions) *RedisCache {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultRedisKeyPrefix
	}
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = DefaultTTL
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = defaultRedisOpTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.NewDisabledLogger()
	}
	if opts.MetricsCollector == nil {
		opts.MetricsCollector = disabledMetrics{}
	}
	return &RedisCache{
		client:           client,
		keyPrefix:        opts.KeyPrefix,
		defaultTTL:       opts.DefaultTTL,
		maxEntrySize:     opts.MaxEntrySize,
		opTimeout:        opts.OpTimeout,
		logger:           opts.Logger,
		metricsCollector: opts.MetricsCollector,
	}
}

// Get returns the payload stored under the key. Redis errors are logged and reported as a miss.
func (c *RedisCache) Get(key string) ([]byte, bool) {
	data, ok := c.Peek(key)
	if !ok {
		c.metricsCollector.IncMisses()
		return nil, false
	}
	c.metricsCollector.IncHits()
	return data, true
}

// Peek works like Get but doesn't count a hit or a miss.
func (c *RedisCache) Peek(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("failed to get response from redis cache", log.String("key", key), log.Error(err))
		}
		return nil, false
	}
	return data, true
}

// Set stores the payload under the key with the given TTL (default TTL if not positive).
func (c *RedisCache) Set(key string, data []byte, ttl time.Duration) {
	if c.maxEntrySize > 0 && len(data) > c.maxEntrySize {
		return
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		c.logger.Warn("failed to put response into redis cache", log.String("key", key), log.Error(err))
	}
}

// Clear deletes all keys with the cache prefix.
func (c *RedisCache) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	iter := c.client.Scan(ctx, 0, escapeGlob(c.keyPrefix)+"*", redisClearBatchSize).Iterator()
	batch := make([]string, 0, redisClearBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := c.client.Del(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == redisClearBatchSize {
			if err := flush(); err != nil {
				c.logger.Error("failed to clear redis cache", log.Error(err))
				return
			}
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Error("failed to scan redis cache", log.Error(err))
		return
	}
	if err := flush(); err != nil {
		c.logger.Error("failed to clear redis cache", log.Error(err))
	}
}

// Sweep does nothing since Redis expires keys by itself.
func (c *RedisCache) Sweep() int {
	return 0
}

var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)

// escapeGlob quotes the characters that are special in Redis MATCH patterns.
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
