/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/MartinBugar/martyx-industries-fe-sub001/httpclient"
)

// ErrorKind is a class of a failed API call.
type ErrorKind string

// Error kinds.
const (
	ErrorKindTransport ErrorKind = "transport"
	ErrorKindTimeout   ErrorKind = "timeout"
	ErrorKindServer    ErrorKind = "server"
	ErrorKindClient    ErrorKind = "client"
	ErrorKindParse     ErrorKind = "parse"
)

// ErrInvalidRequest is wrapped by errors about malformed request descriptors.
var ErrInvalidRequest = errors.New("invalid request")

// Error is returned by Client for every failed API call.
// For non-2xx responses it carries the status code and the raw error payload.
type Error struct {
	Kind       ErrorKind
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: %s error: unexpected status %d", e.Method, e.URL, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %s error: %v", e.Method, e.URL, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the call may succeed if it's repeated.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case ErrorKindTransport, ErrorKindTimeout, ErrorKindServer:
		return true
	}
	return false
}

// DecodeBody unmarshals the error payload returned by the server.
func (e *Error) DecodeBody(v interface{}) error {
	if len(e.Body) == 0 {
		return fmt.Errorf("empty error body")
	}
	return json.Unmarshal(e.Body, v)
}

// IsRetryable reports whether err is an *Error that may be retried.
func IsRetryable(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return false
}

// StatusCode returns the HTTP status code carried by err or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func newStatusError(method, url string, statusCode int, body []byte) *Error {
	kind := ErrorKindClient
	if statusCode >= 500 {
		kind = ErrorKindServer
	}
	return &Error{Kind: kind, Method: method, URL: url, StatusCode: statusCode, Body: body}
}

func newTransportError(method, url string, err error) *Error {
	return &Error{Kind: transportErrorKind(err), Method: method, URL: url, Err: err}
}

func transportErrorKind(err error) ErrorKind {
	var authErr *httpclient.AuthBearerRoundTripperError
	if errors.As(err, &authErr) {
		return ErrorKindClient
	}
	var waitErr *httpclient.RateLimitingWaitError
	if errors.As(err, &waitErr) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorKindTimeout
	}
	return ErrorKindTransport
}
