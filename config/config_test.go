/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

const testStoreConfigYAML = `
store:
  name: martyx
  pageSize: 24
  currencies: [EUR, USD]
`

const testStoreConfigJSON = `{"store": {"name":"martyx","pageSize":24,"currencies":["EUR","USD"]}}`

type testSectionConfig struct {
	Str string
	Int int

	keyPrefix string
}

func (c *testSectionConfig) KeyPrefix() string {
	return c.keyPrefix
}

func (c *testSectionConfig) SetProviderDefaults(dp DataProvider) {
	dp.SetDefault("str", c.keyPrefix+"-default")
	dp.SetDefault("int", 146)
}

func (c *testSectionConfig) Set(dp DataProvider) (err error) {
	if c.Str, err = dp.GetString("str"); err != nil {
		return err
	}
	if c.Int, err = dp.GetInt("int"); err != nil {
		return err
	}
	return nil
}

type testRootConfig struct {
	Cache    *testSectionConfig
	Retry    *testSectionConfig
	Disabled *testSectionConfig
	NilCfg   Config
	Verbose  bool
	internal *testSectionConfig
}

func (c *testRootConfig) SetProviderDefaults(dp DataProvider) {
	CallSetProviderDefaultsForFields(c, dp)
}

func (c *testRootConfig) Set(dp DataProvider) (err error) {
	if err = CallSetForFields(c, dp); err != nil {
		return err
	}
	c.Verbose, err = dp.GetBool("verbose")
	return err
}

func TestCallSetForFields(t *testing.T) {
	cfgData := `
verbose: true
cache:
  str: on
retry:
  int: 3
`
	cfg := &testRootConfig{
		Cache:    &testSectionConfig{keyPrefix: "cache"},
		Retry:    &testSectionConfig{keyPrefix: "retry"},
		internal: &testSectionConfig{keyPrefix: "internal"},
	}
	err := NewLoader(NewViperAdapter()).LoadFromReader(bytes.NewBufferString(cfgData), DataTypeYAML, cfg)
	require.NoError(t, err)

	require.True(t, cfg.Verbose)
	require.Equal(t, "on", cfg.Cache.Str)
	require.Equal(t, 146, cfg.Cache.Int)
	require.Equal(t, "retry-default", cfg.Retry.Str)
	require.Equal(t, 3, cfg.Retry.Int)
	require.Nil(t, cfg.Disabled)
	require.Empty(t, cfg.internal.Str, "unexported fields must be skipped")
}

func TestCallSetForFields_Error(t *testing.T) {
	cfg := &testRootConfig{Cache: &testSectionConfig{keyPrefix: "cache"}}
	err := NewLoader(NewViperAdapter()).LoadFromReader(
		bytes.NewBufferString(`{"cache": {"int": "many"}}`), DataTypeJSON, cfg)
	require.ErrorContains(t, err, "cache.int")
}
