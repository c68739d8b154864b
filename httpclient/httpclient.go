/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package httpclient builds http.Client instances with a chain of client-side round trippers:
// bearer authorization, language and request ID headers, user agent, rate limiting, metrics and logging.
package httpclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MartinBugar/martyx-industries-fe-sub001/log"
)

// Opts provides options for NewWithOpts and MustWithOpts functions.
type Opts struct {
	// UserAgent is a user agent string.
	UserAgent string

	// Delegate is the last RoundTripper in the chain. A clone of http.DefaultTransport is used by default.
	Delegate http.RoundTripper

	// LoggerProvider is a function that provides a context-specific logger.
	LoggerProvider func(ctx context.Context) log.FieldLogger

	// RequestIDProvider is a function that provides a request ID.
	RequestIDProvider func(ctx context.Context) string

	// Collector is a metrics collector. It's used only when metrics are enabled in config.
	Collector MetricsCollector

	// AuthProvider provides bearer tokens. Authorization header is not set if nil.
	AuthProvider AuthProvider

	// OnUnauthorized is called on 401 responses to authorized requests.
	OnUnauthorized func(ctx context.Context, token string)

	// LanguageProvider provides Accept-Language header value. The header is not set if nil.
	LanguageProvider LanguageProvider
}

// New creates an HTTP client according to the configuration.
func New(cfg *Config) (*http.Client, error) {
	return NewWithOpts(cfg, Opts{})
}

// Must creates an HTTP client according to the configuration and panics if any error occurs.
func Must(cfg *Config) *http.Client {
	return MustWithOpts(cfg, Opts{})
}

// NewWithOpts creates an HTTP client according to the configuration and options.
// Outgoing requests pass the round trippers in the following order:
// auth bearer, language, request ID, user agent, rate limiting, metrics, logging.
func NewWithOpts(cfg *Config, opts Opts) (*http.Client, error) {
	delegate := opts.Delegate
	if delegate == nil {
		delegate = http.DefaultTransport.(*http.Transport).Clone()
	}

	if cfg.Logger.Enabled {
		logOpts := cfg.Logger.TransportOpts()
		logOpts.LoggerProvider = opts.LoggerProvider
		delegate = NewLoggingRoundTripperWithOpts(delegate, logOpts)
	}

	if cfg.Metrics.Enabled && opts.Collector != nil {
		delegate = NewMetricsRoundTripper(delegate, opts.Collector)
	}

	if cfg.RateLimits.Enabled {
		var err error
		if delegate, err = NewRateLimitingRoundTripperWithOpts(
			delegate, cfg.RateLimits.Limit, cfg.RateLimits.TransportOpts(),
		); err != nil {
			return nil, fmt.Errorf("create rate limiting round tripper: %w", err)
		}
	}

	if opts.UserAgent != "" {
		delegate = NewUserAgentRoundTripper(delegate, opts.UserAgent)
	}

	delegate = NewRequestIDRoundTripperWithOpts(delegate, RequestIDRoundTripperOpts{
		RequestIDProvider: opts.RequestIDProvider,
	})

	if opts.LanguageProvider != nil {
		delegate = NewLanguageRoundTripper(delegate, opts.LanguageProvider)
	}

	if opts.AuthProvider != nil {
		delegate = NewAuthBearerRoundTripperWithOpts(delegate, opts.AuthProvider, AuthBearerRoundTripperOpts{
			OnUnauthorized: opts.OnUnauthorized,
		})
	}

	return &http.Client{Transport: delegate, Timeout: cfg.Timeout}, nil
}

// MustWithOpts creates an HTTP client according to the configuration and options
// and panics if any error occurs.
func MustWithOpts(cfg *Config, opts Opts) *http.Client {
	client, err := NewWithOpts(cfg, opts)
	if err != nil {
		panic(err)
	}
	return client
}
