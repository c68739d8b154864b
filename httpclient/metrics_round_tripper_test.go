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

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type recordedDuration struct {
	requestType, host, method, status string
}

type mockMetricsCollector struct {
	calls []recordedDuration
}

func (m *mockMetricsCollector) RequestDuration(requestType, host, method, status string, _ time.Time) {
	m.calls = append(m.calls, recordedDuration{requestType, host, method, status})
}

type roundTripperFunc func(r *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestMetricsRoundTripper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	t.Run("request type from context", func(t *testing.T) {
		collector := &mockMetricsCollector{}
		client := &http.Client{Transport: NewMetricsRoundTripper(http.DefaultTransport, collector)}

		ctx := NewContextWithRequestType(context.Background(), "orders")
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, server.URL+"/orders", nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()

		require.Len(t, collector.calls, 1)
		require.Equal(t, "orders", collector.calls[0].requestType)
		require.Equal(t, http.MethodPost, collector.calls[0].method)
		require.Equal(t, "201", collector.calls[0].status)
		require.Equal(t, req.URL.Host, collector.calls[0].host)
	})

	t.Run("transport error", func(t *testing.T) {
		collector := &mockMetricsCollector{}
		failing := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})
		client := &http.Client{Transport: NewMetricsRoundTripper(failing, collector)}

		_, err := client.Get(server.URL) //nolint:bodyclose
		require.Error(t, err)
		require.Len(t, collector.calls, 1)
		require.Equal(t, DefaultRequestType, collector.calls[0].requestType)
		require.Equal(t, "0", collector.calls[0].status)
	})

	t.Run("prometheus collector", func(t *testing.T) {
		collector := NewPrometheusMetricsCollector("storefront")
		client := &http.Client{Transport: NewMetricsRoundTripper(http.DefaultTransport, collector)}

		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		_ = resp.Body.Close()

		require.Equal(t, 1, testutil.CollectAndCount(collector.Durations))
	})
}
