/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
	"go.uber.org/atomic"

	"github.com/MartinBugar/martyx-industries-fe-sub001/httpclient"
	"github.com/MartinBugar/martyx-industries-fe-sub001/internal/libinfo"
	"github.com/MartinBugar/martyx-industries-fe-sub001/log"
	"github.com/MartinBugar/martyx-industries-fe-sub001/respcache"
	"github.com/MartinBugar/martyx-industries-fe-sub001/retry"
	"github.com/MartinBugar/martyx-industries-fe-sub001/service"
)

// ErrClientClosed is returned for calls made after Close.
var ErrClientClosed = errors.New("api client is closed")

// ResponseCache stores response payloads by request key.
type ResponseCache interface {
	// Get returns a payload that is not expired yet.
	Get(key string) ([]byte, bool)

	// Peek works like Get but doesn't count a hit or a miss.
	Peek(key string) ([]byte, bool)

	// Set stores the payload for ttl. The default TTL of the cache is used if ttl is zero.
	Set(key string, data []byte, ttl time.Duration)

	// Clear removes all payloads.
	Clear()

	// Sweep removes expired payloads and returns their number.
	Sweep() int
}

// Opts contains optional parameters for constructing Client.
type Opts struct {
	Logger log.FieldLogger

	// HTTPClient is used for network calls. If nil, it's built from Config.HTTP and HTTPOpts.
	HTTPClient *http.Client

	// HTTPOpts are used for building the HTTP client when HTTPClient is nil.
	HTTPOpts httpclient.Opts

	// Cache overrides the cache backend from Config.
	Cache ResponseCache

	// RedisClient is used by the Redis cache backend. If nil, a client is created from Config
	// and closed by Client.Close.
	RedisClient redis.UniversalClient

	MetricsCollector      MetricsCollector
	CacheMetricsCollector respcache.MetricsCollector
}

// Client performs API calls with response caching, deduplication of concurrent identical calls and retrying.
type Client struct {
	baseURL        string
	defaultHeaders map[string]string
	cacheDefaults  CacheConfig
	retryDefaults  RetryConfig

	httpClient *http.Client
	cache      ResponseCache
	pending    *pendingRegistry
	logger     log.FieldLogger
	metrics    MetricsCollector

	sweeper    *service.WorkerUnit
	ownedRedis redis.UniversalClient
	closed     atomic.Bool

	// clearMu orders ClearCache against registering calls and writing their responses.
	clearMu    sync.RWMutex
	generation atomic.Uint64
}

// New creates a new Client and starts the background sweep of the response cache.
// Close must be called when the client is no longer needed.
func New(cfg *Config, opts Opts) (*Client, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewDisabledLogger()
	}
	metrics := opts.MetricsCollector
	if metrics == nil {
		metrics = disabledMetrics{}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpCfg := cfg.HTTP
		if httpCfg == nil {
			httpCfg = httpclient.NewDefaultConfig()
		}
		httpOpts := opts.HTTPOpts
		if httpOpts.UserAgent == "" {
			httpOpts.UserAgent = libinfo.UserAgent()
		}
		if httpOpts.LoggerProvider == nil {
			httpOpts.LoggerProvider = func(ctx context.Context) log.FieldLogger {
				if l := httpclient.GetLoggerFromContext(ctx); l != nil {
					return l
				}
				return logger
			}
		}
		var err error
		if httpClient, err = httpclient.NewWithOpts(httpCfg, httpOpts); err != nil {
			return nil, fmt.Errorf("create http client: %w", err)
		}
	}

	cache, ownedRedis, err := newResponseCache(cfg, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("create response cache: %w", err)
	}

	sweepInterval := cfg.Cache.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = DefaultCacheSweepInterval
	}

	c := &Client{
		baseURL:        cfg.BaseURL,
		defaultHeaders: cfg.DefaultHeaders,
		cacheDefaults:  cfg.Cache,
		retryDefaults:  cfg.Retry,
		httpClient:     httpClient,
		cache:          cache,
		pending:        newPendingRegistry(),
		logger:         logger,
		metrics:        metrics,
		sweeper:        newCacheSweeper(cache, sweepInterval, logger),
		ownedRedis:     ownedRedis,
	}
	go c.sweeper.Start(make(chan error, 1))
	return c, nil
}

func newResponseCache(cfg *Config, opts Opts, logger log.FieldLogger) (ResponseCache, redis.UniversalClient, error) {
	if opts.Cache != nil {
		return opts.Cache, nil, nil
	}
	switch cfg.Cache.Backend {
	case "", CacheBackendMemory:
		cache, err := respcache.New(respcache.Options{
			DefaultTTL:       cfg.Cache.TTL,
			MaxEntries:       cfg.Cache.MaxEntries,
			MaxEntrySize:     int(cfg.Cache.MaxEntrySize),
			MetricsCollector: opts.CacheMetricsCollector,
		})
		return cache, nil, err
	case CacheBackendRedis:
		client := opts.RedisClient
		var owned redis.UniversalClient
		if client == nil {
			client = redis.NewClient(&redis.Options{Addr: cfg.Cache.Redis.Addr, DB: cfg.Cache.Redis.DB})
			owned = client
		}
		return respcache.NewRedisCache(client, respcache.RedisOptions{
			KeyPrefix:        cfg.Cache.Redis.KeyPrefix,
			DefaultTTL:       cfg.Cache.TTL,
			MaxEntrySize:     int(cfg.Cache.MaxEntrySize),
			Logger:           logger,
			MetricsCollector: opts.CacheMetricsCollector,
		}), owned, nil
	}
	return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

// ResolveURL joins a relative path to the base URL of the client.
func (c *Client) ResolveURL(target string) string {
	return ResolveURL(c.baseURL, target)
}

// NewRequestDescriptor creates a descriptor with the client defaults overridden by opts.
func (c *Client) NewRequestDescriptor(
	method, target string, body interface{}, opts ...RequestOption,
) RequestDescriptor {
	d := RequestDescriptor{
		Method:        method,
		URL:           target,
		Body:          body,
		CacheEnabled:  c.cacheDefaults.Enabled,
		RetryEnabled:  c.retryDefaults.Enabled,
		RetryAttempts: c.retryDefaults.Attempts,
		RetryDelay:    c.retryDefaults.Delay,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Request performs the call described by d and returns the JSON payload of the response.
// A 2xx response with an empty body gives nil payload.
// If ctx is done before the call completes, ctx.Err() is returned, but the call itself is not interrupted.
func (c *Client) Request(ctx context.Context, d RequestDescriptor) (json.RawMessage, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	d.Method = normalizeMethod(d.Method)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	resolvedURL := c.ResolveURL(d.URL)
	body, err := encodeBody(d.Body)
	if err != nil {
		return nil, err
	}
	key := buildKey(d.Method, resolvedURL, body)
	logger := c.logger.With(log.String("method", d.Method), log.String("url", resolvedURL))

	if d.cacheable() {
		if data, ok := c.cache.Get(key); ok {
			c.metrics.IncRequests(d.Method, RequestSourceCache)
			logger.Debug("response served from cache")
			return cloneBytes(data), nil
		}
	}

	c.clearMu.RLock()
	generation := c.generation.Load()
	call, owner := c.pending.lookupOrRegister(key)
	c.clearMu.RUnlock()
	if owner {
		c.metrics.IncRequests(d.Method, RequestSourceNetwork)
		execCtx := c.newExecutionContext(ctx, &d)
		logger = logger.With(log.String("request_id", httpclient.GetRequestIDFromContext(execCtx)))
		go c.execute(execCtx, key, resolvedURL, body, d, call, generation, logger)
	} else {
		c.metrics.IncRequests(d.Method, RequestSourceJoined)
		logger.Debug("joined in-flight request")
	}

	data, err := call.wait(ctx)
	if err != nil {
		return nil, err
	}
	return cloneBytes(data), nil
}

// newExecutionContext detaches the call from the caller's cancellation and assigns
// a request ID shared by all attempts.
func (c *Client) newExecutionContext(ctx context.Context, d *RequestDescriptor) context.Context {
	ctx = context.WithoutCancel(ctx)
	if httpclient.GetRequestIDFromContext(ctx) == "" {
		ctx = httpclient.NewContextWithRequestID(ctx, xid.New().String())
	}
	if d.RequestType != "" {
		ctx = httpclient.NewContextWithRequestType(ctx, d.RequestType)
	}
	return ctx
}

// execute runs the call of the owner and settles it for all waiters.
// The cache is written before the pending entry is released,
// so a subsequent caller sees either the pending call or the cached response.
// The response isn't cached if ClearCache was called after the call had been registered.
func (c *Client) execute(
	ctx context.Context, key, resolvedURL string, body []byte, d RequestDescriptor,
	call *pendingCall, generation uint64, logger log.FieldLogger,
) {
	var data json.RawMessage
	var err error
	defer func() {
		if p := recover(); p != nil {
			panicErr := newPanicError(p)
			logger.Error(fmt.Sprintf("panic while executing request: %+v", p), log.Bytes("stack", panicErr.Stack))
			data, err = nil, panicErr
		}
		c.pending.releaseCall(key, call)
		call.settle(data, err)
	}()

	if d.cacheable() {
		// The response may have been cached by a call that was released right before we registered.
		if cached, ok := c.cache.Peek(key); ok {
			data = cached
			return
		}
	}

	if data, err = c.doWithRetry(ctx, d, resolvedURL, body, logger); err != nil {
		kind := ErrorKindTransport
		var apiErr *Error
		if errors.As(err, &apiErr) {
			kind = apiErr.Kind
		}
		c.metrics.IncFailures(d.Method, kind)
		logger.Error("request failed", log.Error(err))
		return
	}
	if d.cacheable() {
		c.clearMu.RLock()
		if c.generation.Load() == generation {
			c.cache.Set(key, data, d.CacheTTL)
		} else {
			logger.Debug("response not cached, cache was cleared during the call")
		}
		c.clearMu.RUnlock()
	}
}

func (c *Client) doWithRetry(
	ctx context.Context, d RequestDescriptor, resolvedURL string, body []byte, logger log.FieldLogger,
) (json.RawMessage, error) {
	policy := retry.NewDoublingBackoffPolicy(d.RetryDelay, d.maxRetries())
	notify := func(err error, attempt int, delay time.Duration) {
		c.metrics.IncRetries(d.Method)
		logger.Warn("retrying request",
			log.Int("attempt", attempt), log.Int("max_attempts", policy.MaxAttempts()),
			log.Int64("delay_ms", delay.Milliseconds()), log.Error(err))
	}
	var data json.RawMessage
	err := retry.DoWithRetry(ctx, policy, IsRetryable, notify, func(ctx context.Context, attempt int) error {
		var attemptErr error
		data, attemptErr = c.doOnce(ctx, d, resolvedURL, body)
		return attemptErr
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// doOnce performs a single network attempt.
func (c *Client) doOnce(ctx context.Context, d RequestDescriptor, resolvedURL string, body []byte) (json.RawMessage, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, d.Method, resolvedURL, bodyReader)
	if err != nil {
		return nil, &Error{Kind: ErrorKindClient, Method: d.Method, URL: resolvedURL,
			Err: fmt.Errorf("%w: %v", ErrInvalidRequest, err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.defaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newTransportError(d.Method, resolvedURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(d.Method, resolvedURL, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newStatusError(d.Method, resolvedURL, resp.StatusCode, payload)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	if !json.Valid(payload) {
		return nil, &Error{Kind: ErrorKindParse, Method: d.Method, URL: resolvedURL, Body: payload,
			Err: fmt.Errorf("response body is not valid JSON")}
	}
	return payload, nil
}

// Get performs GET request and decodes the response into result. Nil result discards the payload.
func (c *Client) Get(ctx context.Context, target string, result interface{}, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, target, nil, result, opts)
}

// Post performs POST request and decodes the response into result.
func (c *Client) Post(ctx context.Context, target string, body, result interface{}, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, target, body, result, opts)
}

// Put performs PUT request and decodes the response into result.
func (c *Client) Put(ctx context.Context, target string, body, result interface{}, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, target, body, result, opts)
}

// Patch performs PATCH request and decodes the response into result.
func (c *Client) Patch(ctx context.Context, target string, body, result interface{}, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPatch, target, body, result, opts)
}

// Delete performs DELETE request and decodes the response into result.
func (c *Client) Delete(ctx context.Context, target string, result interface{}, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, target, nil, result, opts)
}

func (c *Client) do(
	ctx context.Context, method, target string, body, result interface{}, opts []RequestOption,
) error {
	data, err := c.Request(ctx, c.NewRequestDescriptor(method, target, body, opts...))
	if err != nil {
		return err
	}
	if result == nil || len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, result); err != nil {
		return &Error{Kind: ErrorKindParse, Method: method, URL: c.ResolveURL(target), Body: data, Err: err}
	}
	return nil
}

// ClearCache removes all cached responses. It's called when the session or the language changes.
// Calls that are in flight still complete for their callers, but their responses aren't cached,
// and subsequent identical calls don't join them.
func (c *Client) ClearCache() {
	c.clearMu.Lock()
	defer c.clearMu.Unlock()
	c.generation.Inc()
	c.pending.detachAll()
	c.cache.Clear()
}

// PendingLen returns the number of in-flight calls.
func (c *Client) PendingLen() int {
	return c.pending.Len()
}

// Close stops the background cache sweep. In-flight calls are not interrupted.
// It's safe to call Close several times.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := c.sweeper.Stop(true)
	if c.ownedRedis != nil {
		if closeErr := c.ownedRedis.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

func cloneBytes(b []byte) json.RawMessage {
	if b == nil {
		return nil
	}
	return append(json.RawMessage(nil), b...)
}
