/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/MartinBugar/martyx-industries-fe-sub001/log"
)

// LoggingMode represents a mode of logging.
type LoggingMode string

// Logging modes.
const (
	LoggingModeNone   LoggingMode = "none"
	LoggingModeAll    LoggingMode = "all"
	LoggingModeFailed LoggingMode = "failed"
)

// IsValid checks if the logger mode is valid.
func (lm LoggingMode) IsValid() bool {
	switch lm {
	case LoggingModeNone, LoggingModeAll, LoggingModeFailed:
		return true
	}
	return false
}

// LoggingRoundTripper implements http.RoundTripper for logging requests.
type LoggingRoundTripper struct {
	// Delegate is the next RoundTripper in the chain.
	Delegate http.RoundTripper

	// Opts are the options for the logging round tripper.
	Opts LoggingRoundTripperOpts
}

// LoggingRoundTripperOpts represents an options for LoggingRoundTripper.
type LoggingRoundTripperOpts struct {
	// LoggerProvider is a function that provides a context-specific logger.
	// GetLoggerFromContext is used by default.
	LoggerProvider func(ctx context.Context) log.FieldLogger

	// Mode of logging: none, all, failed. LoggingModeAll is used if empty.
	Mode LoggingMode

	// SlowRequestThreshold is a threshold for slow requests. Faster successful requests are not logged.
	SlowRequestThreshold time.Duration
}

// NewLoggingRoundTripper creates an HTTP transport that log requests.
func NewLoggingRoundTripper(delegate http.RoundTripper) http.RoundTripper {
	return NewLoggingRoundTripperWithOpts(delegate, LoggingRoundTripperOpts{})
}

// NewLoggingRoundTripperWithOpts creates an HTTP transport that log requests with options.
func NewLoggingRoundTripperWithOpts(delegate http.RoundTripper, opts LoggingRoundTripperOpts) http.RoundTripper {
	if opts.Mode == "" {
		opts.Mode = LoggingModeAll
	}
	return &LoggingRoundTripper{Delegate: delegate, Opts: opts}
}

func (rt *LoggingRoundTripper) getLogger(ctx context.Context) log.FieldLogger {
	if rt.Opts.LoggerProvider != nil {
		return rt.Opts.LoggerProvider(ctx)
	}
	return GetLoggerFromContext(ctx)
}

// RoundTrip adds logging capabilities to the HTTP transport.
func (rt *LoggingRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if rt.Opts.Mode == LoggingModeNone {
		return rt.Delegate.RoundTrip(r)
	}
	logger := rt.getLogger(r.Context())
	if logger == nil {
		return rt.Delegate.RoundTrip(r)
	}

	start := time.Now()
	resp, err := rt.Delegate.RoundTrip(r)
	elapsed := time.Since(start)

	failed := err != nil || (resp != nil && resp.StatusCode >= http.StatusBadRequest)
	if !failed && (rt.Opts.Mode == LoggingModeFailed || elapsed < rt.Opts.SlowRequestThreshold) {
		return resp, err
	}

	fields := []log.Field{
		log.String("method", r.Method),
		log.String("url", r.URL.String()),
		log.DurationIn(elapsed, time.Millisecond),
	}
	if requestType := GetRequestTypeFromContext(r.Context()); requestType != "" {
		fields = append(fields, log.String("request_type", requestType))
	}
	if requestID := r.Header.Get(RequestIDHeader); requestID != "" {
		fields = append(fields, log.String("request_id", requestID))
	}
	if err != nil {
		logger.Error("client http request failed", append(fields, log.Error(err))...)
		return resp, err
	}
	fields = append(fields, log.Int("status", resp.StatusCode))
	if resp.StatusCode >= http.StatusInternalServerError {
		logger.Warn("client http request done", fields...)
	} else {
		logger.Info("client http request done", fields...)
	}
	return resp, err
}
