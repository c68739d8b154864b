/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package apiclient

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RequestDescriptor describes a single API call.
type RequestDescriptor struct {
	// Method is one of GET, POST, PUT, PATCH and DELETE.
	Method string

	// URL is either an absolute URL or a path relative to the base URL of the client.
	URL string

	// Body is sent as is if it's []byte, json.RawMessage or string. Other values are encoded as JSON.
	Body interface{}

	Headers map[string]string

	// RequestType is used as a label in logs and metrics.
	RequestType string

	// CacheEnabled allows serving GET requests from the response cache.
	CacheEnabled bool

	// CacheTTL is the lifetime of the cached response. The default TTL of the cache is used if zero.
	CacheTTL time.Duration

	// RetryEnabled allows repeating the call on transport errors, timeouts and 5xx responses.
	RetryEnabled bool

	// RetryAttempts is the max number of retries after the first attempt.
	RetryAttempts int

	// RetryDelay is the delay before the first retry. It's doubled before every next one.
	RetryDelay time.Duration
}

var allowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// Validate checks the descriptor.
func (d *RequestDescriptor) Validate() error {
	if !isAllowedMethod(d.Method) {
		return fmt.Errorf("%w: method %q is not supported", ErrInvalidRequest, d.Method)
	}
	if d.URL == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidRequest)
	}
	if d.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", ErrInvalidRequest)
	}
	if d.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative", ErrInvalidRequest)
	}
	if d.CacheTTL < 0 {
		return fmt.Errorf("%w: cache TTL cannot be negative", ErrInvalidRequest)
	}
	return nil
}

func (d *RequestDescriptor) cacheable() bool {
	return d.Method == http.MethodGet && d.CacheEnabled
}

func (d *RequestDescriptor) maxRetries() int {
	if !d.RetryEnabled {
		return 0
	}
	return d.RetryAttempts
}

func isAllowedMethod(method string) bool {
	for _, m := range allowedMethods {
		if m == method {
			return true
		}
	}
	return false
}

// RequestOption overrides client defaults for a single call.
type RequestOption func(d *RequestDescriptor)

// WithCache enables or disables response caching for GET requests.
func WithCache(enabled bool) RequestOption {
	return func(d *RequestDescriptor) {
		d.CacheEnabled = enabled
	}
}

// WithCacheTTL enables response caching with the given TTL.
func WithCacheTTL(ttl time.Duration) RequestOption {
	return func(d *RequestDescriptor) {
		d.CacheEnabled = true
		d.CacheTTL = ttl
	}
}

// WithRetry enables or disables retrying.
func WithRetry(enabled bool) RequestOption {
	return func(d *RequestDescriptor) {
		d.RetryEnabled = enabled
	}
}

// WithRetryAttempts overrides the max number of retries.
func WithRetryAttempts(attempts int) RequestOption {
	return func(d *RequestDescriptor) {
		d.RetryAttempts = attempts
	}
}

// WithRetryDelay overrides the base delay between retries.
func WithRetryDelay(delay time.Duration) RequestOption {
	return func(d *RequestDescriptor) {
		d.RetryDelay = delay
	}
}

// WithHeader adds a request header.
func WithHeader(key, value string) RequestOption {
	return func(d *RequestDescriptor) {
		if d.Headers == nil {
			d.Headers = make(map[string]string)
		}
		d.Headers[key] = value
	}
}

// WithRequestType sets the request type used in logs and metrics.
func WithRequestType(requestType string) RequestOption {
	return func(d *RequestDescriptor) {
		d.RequestType = requestType
	}
}

func normalizeMethod(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}
