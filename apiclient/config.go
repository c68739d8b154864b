/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package apiclient

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MartinBugar/martyx-industries-fe-sub001/config"
	"github.com/MartinBugar/martyx-industries-fe-sub001/httpclient"
	"github.com/MartinBugar/martyx-industries-fe-sub001/respcache"
)

const (
	cfgDefaultKeyPrefix = "api"
	cfgHTTPKeyPrefix    = "http"
)

const (
	cfgKeyBaseURL            = "baseURL"
	cfgKeyDefaultHeaders     = "defaultHeaders"
	cfgKeyCacheEnabled       = "cache.enabled"
	cfgKeyCacheTTL           = "cache.ttl"
	cfgKeyCacheMaxEntries    = "cache.maxEntries"
	cfgKeyCacheMaxEntrySize  = "cache.maxEntrySize"
	cfgKeyCacheSweepInterval = "cache.sweepInterval"
	cfgKeyCacheBackend       = "cache.backend"
	cfgKeyCacheRedisAddr     = "cache.redis.addr"
	cfgKeyCacheRedisDB       = "cache.redis.db"
	cfgKeyCacheRedisPrefix   = "cache.redis.keyPrefix"
	cfgKeyRetryEnabled       = "retry.enabled"
	cfgKeyRetryAttempts      = "retry.attempts"
	cfgKeyRetryDelay         = "retry.delay"
)

// Default values.
const (
	DefaultCacheSweepInterval = 60 * time.Second
	DefaultCacheMaxEntries    = 1000
	DefaultRetryAttempts      = 3
	DefaultRetryDelay         = time.Second
)

// CacheBackend defines where responses are cached.
type CacheBackend string

// Cache backends.
const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendRedis  CacheBackend = "redis"
)

// Config represents a set of configuration parameters for the API client.
type Config struct {
	// BaseURL is prepended to relative request paths.
	BaseURL string `mapstructure:"baseURL" yaml:"baseURL" json:"baseURL"`

	// DefaultHeaders are sent with every request.
	DefaultHeaders map[string]string `mapstructure:"defaultHeaders" yaml:"defaultHeaders" json:"defaultHeaders"`

	Cache CacheConfig `mapstructure:"cache" yaml:"cache" json:"cache"`
	Retry RetryConfig `mapstructure:"retry" yaml:"retry" json:"retry"`

	// HTTP configures the underlying transport.
	HTTP *httpclient.Config `mapstructure:"http" yaml:"http" json:"http"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// CacheConfig configures the response cache.
type CacheConfig struct {
	// Enabled is the default for RequestDescriptor.CacheEnabled.
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// TTL is the lifetime of cached responses.
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl" json:"ttl"`

	// MaxEntries limits the in-memory cache size. Zero means no limit.
	MaxEntries int `mapstructure:"maxEntries" yaml:"maxEntries" json:"maxEntries"`

	// MaxEntrySize limits the size of a single cached payload. Zero means no limit.
	MaxEntrySize config.ByteSize `mapstructure:"maxEntrySize" yaml:"maxEntrySize" json:"maxEntrySize"`

	// SweepInterval is the period of removing expired entries.
	SweepInterval time.Duration `mapstructure:"sweepInterval" yaml:"sweepInterval" json:"sweepInterval"`

	Backend CacheBackend     `mapstructure:"backend" yaml:"backend" json:"backend"`
	Redis   RedisCacheConfig `mapstructure:"redis" yaml:"redis" json:"redis"`
}

// RedisCacheConfig configures the Redis cache backend.
type RedisCacheConfig struct {
	Addr      string `mapstructure:"addr" yaml:"addr" json:"addr"`
	DB        int    `mapstructure:"db" yaml:"db" json:"db"`
	KeyPrefix string `mapstructure:"keyPrefix" yaml:"keyPrefix" json:"keyPrefix"`
}

// RetryConfig configures retrying of failed calls.
type RetryConfig struct {
	// Enabled is the default for RequestDescriptor.RetryEnabled.
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// Attempts is the max number of retries after the first attempt.
	Attempts int `mapstructure:"attempts" yaml:"attempts" json:"attempts"`

	// Delay is the delay before the first retry. It's doubled before every next one.
	Delay time.Duration `mapstructure:"delay" yaml:"delay" json:"delay"`
}

// ConfigOption is a type for functional options for the Config.
type ConfigOption func(*configOptions)

type configOptions struct {
	keyPrefix string
}

// WithKeyPrefix returns a ConfigOption that sets a key prefix for parsing configuration parameters.
func WithKeyPrefix(keyPrefix string) ConfigOption {
	return func(o *configOptions) {
		o.keyPrefix = keyPrefix
	}
}

// NewConfig creates a new instance of the Config.
func NewConfig(options ...ConfigOption) *Config {
	opts := configOptions{keyPrefix: cfgDefaultKeyPrefix}
	for _, opt := range options {
		opt(&opts)
	}
	return &Config{keyPrefix: opts.keyPrefix, HTTP: httpclient.NewConfigWithKeyPrefix(cfgHTTPKeyPrefix)}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig(options ...ConfigOption) *Config {
	cfg := NewConfig(options...)
	cfg.DefaultHeaders = map[string]string{}
	cfg.Cache = CacheConfig{
		TTL:           respcache.DefaultTTL,
		MaxEntries:    DefaultCacheMaxEntries,
		SweepInterval: DefaultCacheSweepInterval,
		Backend:       CacheBackendMemory,
		Redis:         RedisCacheConfig{KeyPrefix: respcache.DefaultRedisKeyPrefix},
	}
	cfg.Retry = RetryConfig{Enabled: true, Attempts: DefaultRetryAttempts, Delay: DefaultRetryDelay}
	cfg.HTTP = httpclient.NewDefaultConfigWithKeyPrefix(cfgHTTPKeyPrefix)
	return cfg
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyCacheTTL, respcache.DefaultTTL)
	dp.SetDefault(cfgKeyCacheMaxEntries, DefaultCacheMaxEntries)
	dp.SetDefault(cfgKeyCacheSweepInterval, DefaultCacheSweepInterval)
	dp.SetDefault(cfgKeyCacheBackend, string(CacheBackendMemory))
	dp.SetDefault(cfgKeyCacheRedisPrefix, respcache.DefaultRedisKeyPrefix)
	dp.SetDefault(cfgKeyRetryEnabled, true)
	dp.SetDefault(cfgKeyRetryAttempts, DefaultRetryAttempts)
	dp.SetDefault(cfgKeyRetryDelay, DefaultRetryDelay)
	config.CallSetProviderDefaultsForFields(c, dp)
}

var availableCacheBackends = []string{string(CacheBackendMemory), string(CacheBackendRedis)}

// Set sets configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	if c.BaseURL, err = dp.GetString(cfgKeyBaseURL); err != nil {
		return err
	}
	if c.BaseURL != "" {
		u, parseErr := url.Parse(c.BaseURL)
		if parseErr != nil || u.Scheme == "" || u.Host == "" {
			return dp.WrapKeyErr(cfgKeyBaseURL, fmt.Errorf("must be an absolute URL"))
		}
	}
	if c.DefaultHeaders, err = dp.GetStringMapString(cfgKeyDefaultHeaders); err != nil {
		return err
	}
	if err = c.setCache(dp); err != nil {
		return err
	}
	if err = c.setRetry(dp); err != nil {
		return err
	}
	return config.CallSetForFields(c, dp)
}

func (c *Config) setCache(dp config.DataProvider) error {
	var err error
	if c.Cache.Enabled, err = dp.GetBool(cfgKeyCacheEnabled); err != nil {
		return err
	}
	if c.Cache.TTL, err = dp.GetDuration(cfgKeyCacheTTL); err != nil {
		return err
	}
	if c.Cache.TTL <= 0 {
		return dp.WrapKeyErr(cfgKeyCacheTTL, fmt.Errorf("must be positive"))
	}
	if c.Cache.MaxEntries, err = dp.GetInt(cfgKeyCacheMaxEntries); err != nil {
		return err
	}
	if c.Cache.MaxEntries < 0 {
		return dp.WrapKeyErr(cfgKeyCacheMaxEntries, fmt.Errorf("cannot be negative"))
	}
	if c.Cache.MaxEntrySize, err = dp.GetSizeInBytes(cfgKeyCacheMaxEntrySize); err != nil {
		return err
	}
	if c.Cache.SweepInterval, err = dp.GetDuration(cfgKeyCacheSweepInterval); err != nil {
		return err
	}
	if c.Cache.SweepInterval <= 0 {
		return dp.WrapKeyErr(cfgKeyCacheSweepInterval, fmt.Errorf("must be positive"))
	}
	var backend string
	if backend, err = dp.GetStringFromSet(cfgKeyCacheBackend, availableCacheBackends, true); err != nil {
		return err
	}
	c.Cache.Backend = CacheBackend(strings.ToLower(backend))
	if c.Cache.Redis.Addr, err = dp.GetString(cfgKeyCacheRedisAddr); err != nil {
		return err
	}
	if c.Cache.Backend == CacheBackendRedis && c.Cache.Redis.Addr == "" {
		return dp.WrapKeyErr(cfgKeyCacheRedisAddr, fmt.Errorf("cannot be empty when %q backend is used", CacheBackendRedis))
	}
	if c.Cache.Redis.DB, err = dp.GetInt(cfgKeyCacheRedisDB); err != nil {
		return err
	}
	if c.Cache.Redis.KeyPrefix, err = dp.GetString(cfgKeyCacheRedisPrefix); err != nil {
		return err
	}
	return nil
}

func (c *Config) setRetry(dp config.DataProvider) error {
	var err error
	if c.Retry.Enabled, err = dp.GetBool(cfgKeyRetryEnabled); err != nil {
		return err
	}
	if c.Retry.Attempts, err = dp.GetInt(cfgKeyRetryAttempts); err != nil {
		return err
	}
	if c.Retry.Attempts < 0 {
		return dp.WrapKeyErr(cfgKeyRetryAttempts, fmt.Errorf("cannot be negative"))
	}
	if c.Retry.Delay, err = dp.GetDuration(cfgKeyRetryDelay); err != nil {
		return err
	}
	if c.Retry.Delay < 0 {
		return dp.WrapKeyErr(cfgKeyRetryDelay, fmt.Errorf("cannot be negative"))
	}
	return nil
}
