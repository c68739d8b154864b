/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/MartinBugar/martyx-industries-fe-sub001/apiclient"
	"github.com/MartinBugar/martyx-industries-fe-sub001/config"
	"github.com/MartinBugar/martyx-industries-fe-sub001/debugserver"
	"github.com/MartinBugar/martyx-industries-fe-sub001/log"
	"github.com/MartinBugar/martyx-industries-fe-sub001/storefront"
)

const envVarsPrefix = "STOREFRONT"

type appConfig struct {
	Log         *log.Config
	API         *apiclient.Config
	DebugServer *debugserver.Config
	Warm        warmConfig
}

// warmConfig is the optional "warm" section. Flags of the warm command take precedence.
type warmConfig struct {
	Interval   time.Duration `mapstructure:"interval"`
	Categories []string      `mapstructure:"categories"`
	Locales    []string      `mapstructure:"locales"`
}

func loadAppConfig(path string) (*appConfig, error) {
	cfg := &appConfig{
		Log:         log.NewConfig(),
		API:         apiclient.NewConfig(),
		DebugServer: debugserver.NewConfig(),
	}
	loader := config.NewDefaultLoader(envVarsPrefix)
	if path == "" {
		if err := loader.Load(cfg.Log, cfg.API, cfg.DebugServer); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	} else {
		dataType := config.DataTypeYAML
		if strings.EqualFold(filepath.Ext(path), ".json") {
			dataType = config.DataTypeJSON
		}
		if err := loader.LoadFromFile(path, dataType, cfg.Log, cfg.API, cfg.DebugServer); err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
	}
	if err := loader.DataProvider.UnmarshalKey("warm", &cfg.Warm, config.WithErrorUnused()); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api.baseURL is required (set it in the config file or %s_API_BASEURL)", envVarsPrefix)
	}
	// Stdout carries command results.
	if cfg.Log.Output == log.OutputStdout {
		cfg.Log.Output = log.OutputStderr
	}
	return cfg, nil
}

type app struct {
	cfg    *appConfig
	logger log.FieldLogger
	sf     *storefront.Storefront
	close  func()
}

func newApp(opts *rootOptions, sfOpts storefront.Opts) (*app, error) {
	cfg, err := loadAppConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger, closeLogger := log.NewLogger(cfg.Log)

	sfOpts.Logger = logger
	sfOpts.DefaultLanguage = opts.language
	sfOpts.UserAgent = "storefrontctl/" + appVersion()
	sf, err := storefront.New(cfg.API, sfOpts)
	if err != nil {
		closeLogger()
		return nil, fmt.Errorf("create storefront API client: %w", err)
	}
	if opts.token != "" {
		sf.Tokens.Set(opts.token)
	}
	return &app{cfg: cfg, logger: logger, sf: sf, close: func() {
		if closeErr := sf.Close(); closeErr != nil {
			logger.Error("closing API client", log.Error(closeErr))
		}
		closeLogger()
	}}, nil
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
