/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MartinBugar/martyx-industries-fe-sub001/httpclient"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		wantKind  ErrorKind
		retryable bool
	}{
		{name: "5xx", err: newStatusError("GET", "/products", 503, nil), wantKind: ErrorKindServer, retryable: true},
		{name: "4xx", err: newStatusError("GET", "/products/x", 404, nil), wantKind: ErrorKindClient},
		{name: "3xx", err: newStatusError("GET", "/products", 304, nil), wantKind: ErrorKindClient},
		{
			name:      "connection refused",
			err:       newTransportError("GET", "/", &url.Error{Op: "Get", URL: "/", Err: errors.New("connection refused")}),
			wantKind:  ErrorKindTransport,
			retryable: true,
		},
		{
			name:      "net timeout",
			err:       newTransportError("GET", "/", &url.Error{Op: "Get", URL: "/", Err: timeoutError{}}),
			wantKind:  ErrorKindTimeout,
			retryable: true,
		},
		{
			name:      "deadline",
			err:       newTransportError("GET", "/", fmt.Errorf("dial: %w", context.DeadlineExceeded)),
			wantKind:  ErrorKindTimeout,
			retryable: true,
		},
		{
			name:      "client side rate limiting",
			err:       newTransportError("GET", "/", &httpclient.RateLimitingWaitError{Inner: errors.New("would exceed")}),
			wantKind:  ErrorKindTimeout,
			retryable: true,
		},
		{
			name:     "no token",
			err:      newTransportError("GET", "/", &httpclient.AuthBearerRoundTripperError{Inner: errors.New("no session")}),
			wantKind: ErrorKindClient,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantKind, tt.err.Kind)
			require.Equal(t, tt.retryable, tt.err.Retryable())
			require.Equal(t, tt.retryable, IsRetryable(fmt.Errorf("wrapped: %w", tt.err)))
		})
	}

	require.False(t, IsRetryable(errors.New("plain")))
	require.False(t, IsRetryable(&Error{Kind: ErrorKindParse}))
}

func TestErrorBody(t *testing.T) {
	err := newStatusError("POST", "https://api.example.com/orders", 422,
		[]byte(`{"code":"OUT_OF_STOCK","context":{"productId":"p-1"}}`))
	require.EqualError(t, err, "POST https://api.example.com/orders: client error: unexpected status 422")
	require.Equal(t, 422, StatusCode(fmt.Errorf("checkout: %w", err)))
	require.Equal(t, 0, StatusCode(errors.New("other")))

	var payload struct {
		Code    string            `json:"code"`
		Context map[string]string `json:"context"`
	}
	require.NoError(t, err.DecodeBody(&payload))
	require.Equal(t, "OUT_OF_STOCK", payload.Code)
	require.Equal(t, "p-1", payload.Context["productId"])

	require.Error(t, newStatusError("GET", "/", 500, nil).DecodeBody(&payload))
}
