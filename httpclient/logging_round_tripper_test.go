/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MartinBugar/martyx-industries-fe-sub001/log"
	"github.com/MartinBugar/martyx-industries-fe-sub001/log/logtest"
)

func TestLoggingRoundTripper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken":
			rw.WriteHeader(http.StatusBadGateway)
		case "/missing":
			rw.WriteHeader(http.StatusNotFound)
		case "/slow":
			time.Sleep(30 * time.Millisecond)
		}
	}))
	defer server.Close()

	get := func(rt http.RoundTripper, ctx context.Context, path string) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set(RequestIDHeader, "req-7")
		resp, err := (&http.Client{Transport: rt}).Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	t.Run("all mode", func(t *testing.T) {
		logger := logtest.NewRecorder()
		rt := NewLoggingRoundTripper(http.DefaultTransport)
		ctx := NewContextWithRequestType(NewContextWithLogger(context.Background(), logger), "products")

		get(rt, ctx, "/products")
		entry, found := logger.FindEntry("client http request done")
		require.True(t, found)
		require.Equal(t, log.LevelInfo, entry.Level)
		status, ok := entry.FindField("status")
		require.True(t, ok)
		require.Equal(t, int64(http.StatusOK), status.Int)
		requestType, ok := entry.FindField("request_type")
		require.True(t, ok)
		require.Equal(t, "products", string(requestType.Bytes))
		requestID, ok := entry.FindField("request_id")
		require.True(t, ok)
		require.Equal(t, "req-7", string(requestID.Bytes))
		_, ok = entry.FindField("duration")
		require.True(t, ok)
	})

	t.Run("server errors are warnings", func(t *testing.T) {
		logger := logtest.NewRecorder()
		rt := NewLoggingRoundTripperWithOpts(http.DefaultTransport, LoggingRoundTripperOpts{
			LoggerProvider: func(ctx context.Context) log.FieldLogger { return logger },
		})
		get(rt, context.Background(), "/broken")
		entry, found := logger.FindEntry("client http request done")
		require.True(t, found)
		require.Equal(t, log.LevelWarn, entry.Level)
	})

	t.Run("failed mode", func(t *testing.T) {
		logger := logtest.NewRecorder()
		rt := NewLoggingRoundTripperWithOpts(http.DefaultTransport, LoggingRoundTripperOpts{
			LoggerProvider: func(ctx context.Context) log.FieldLogger { return logger },
			Mode:           LoggingModeFailed,
		})
		get(rt, context.Background(), "/products")
		require.Empty(t, logger.Entries())
		get(rt, context.Background(), "/missing")
		require.Len(t, logger.Entries(), 1)
	})

	t.Run("slow request threshold", func(t *testing.T) {
		logger := logtest.NewRecorder()
		rt := NewLoggingRoundTripperWithOpts(http.DefaultTransport, LoggingRoundTripperOpts{
			LoggerProvider:       func(ctx context.Context) log.FieldLogger { return logger },
			SlowRequestThreshold: 20 * time.Millisecond,
		})
		get(rt, context.Background(), "/products")
		require.Empty(t, logger.Entries())
		get(rt, context.Background(), "/slow")
		require.Len(t, logger.Entries(), 1)
	})

	t.Run("none mode", func(t *testing.T) {
		logger := logtest.NewRecorder()
		rt := NewLoggingRoundTripperWithOpts(http.DefaultTransport, LoggingRoundTripperOpts{
			LoggerProvider: func(ctx context.Context) log.FieldLogger { return logger },
			Mode:           LoggingModeNone,
		})
		get(rt, context.Background(), "/broken")
		require.Empty(t, logger.Entries())
	})

	t.Run("transport error", func(t *testing.T) {
		logger := logtest.NewRecorder()
		failing := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("connection reset")
		})
		rt := NewLoggingRoundTripperWithOpts(failing, LoggingRoundTripperOpts{
			LoggerProvider: func(ctx context.Context) log.FieldLogger { return logger },
			Mode:           LoggingModeFailed,
		})
		_, err := (&http.Client{Transport: rt}).Get(server.URL) //nolint:bodyclose
		require.Error(t, err)
		entry, found := logger.FindEntry("client http request failed")
		require.True(t, found)
		require.Equal(t, log.LevelError, entry.Level)
	})
}
