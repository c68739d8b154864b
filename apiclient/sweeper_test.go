/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package apiclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/MartinBugar/martyx-industries-fe-sub001/log/logtest"
)

type sweepCountingCache struct {
	ResponseCache
	sweeps atomic.Int32
}

func (c *sweepCountingCache) Sweep() int {
	c.sweeps.Inc()
	return 1
}

func TestClient_BackgroundSweep(t *testing.T) {
	cache := &sweepCountingCache{}
	logger := logtest.NewRecorder()
	cfg := newTestConfig("http://storefront.invalid")
	cfg.Cache.SweepInterval = 10 * time.Millisecond

	client, err := New(cfg, Opts{Cache: cache, Logger: logger})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return cache.sweeps.Load() >= 2 }, time.Second, 5*time.Millisecond)
	require.NotEmpty(t, logger.FindEntriesWithPrefix("expired responses removed from cache"))

	require.NoError(t, client.Close())
	stopped := cache.sweeps.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, stopped, cache.sweeps.Load(), "sweep must stop after Close")
}
