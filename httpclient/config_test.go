/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MartinBugar/martyx-industries-fe-sub001/config"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfgData     string
		expectedCfg func() *Config
	}{
		{
			name:    "defaults",
			cfgData: `httpClient: {}`,
			expectedCfg: func() *Config {
				return NewDefaultConfigWithKeyPrefix("httpClient")
			},
		},
		{
			name: "all sections",
			cfgData: `
httpClient:
  timeout: 3s
  rateLimits:
    enabled: true
    limit: 20
    burst: 5
    waitTimeout: 2s
  logger:
    enabled: true
    mode: all
    slowRequestThreshold: 500ms
  metrics:
    enabled: true
`,
			expectedCfg: func() *Config {
				return &Config{
					Timeout:    3 * time.Second,
					RateLimits: RateLimitsConfig{Enabled: true, Limit: 20, Burst: 5, WaitTimeout: 2 * time.Second},
					Logger:     LoggerConfig{Enabled: true, Mode: LoggingModeAll, SlowRequestThreshold: 500 * time.Millisecond},
					Metrics:    MetricsConfig{Enabled: true},
					keyPrefix:  "httpClient",
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfigWithKeyPrefix("httpClient")
			loader := config.NewLoader(config.NewViperAdapter())
			require.NoError(t, loader.LoadFromReader(bytes.NewBufferString(tt.cfgData), config.DataTypeYAML, cfg))
			require.Equal(t, tt.expectedCfg(), cfg)
		})
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name      string
		cfgData   string
		errSubstr string
	}{
		{name: "negative timeout", cfgData: "timeout: -1s", errSubstr: "timeout: cannot be negative"},
		{name: "unknown logging mode", cfgData: "logger:\n  mode: some", errSubstr: "logger.mode: choose one of"},
		{
			name:      "rate limits without limit",
			cfgData:   "rateLimits:\n  enabled: true",
			errSubstr: "rateLimits.limit: must be positive",
		},
		{name: "negative burst", cfgData: "rateLimits:\n  burst: -1", errSubstr: "rateLimits.burst: cannot be negative"},
		{
			name:      "negative slow request threshold",
			cfgData:   "logger:\n  slowRequestThreshold: -1s",
			errSubstr: "logger.slowRequestThreshold: cannot be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := config.NewLoader(config.NewViperAdapter())
			err := loader.LoadFromReader(bytes.NewBufferString(tt.cfgData), config.DataTypeYAML, NewConfig())
			require.ErrorContains(t, err, tt.errSubstr)
		})
	}
}
