/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MartinBugar/martyx-industries-fe-sub001/apiclient"
	"github.com/MartinBugar/martyx-industries-fe-sub001/debugserver"
	"github.com/MartinBugar/martyx-industries-fe-sub001/httpclient"
	"github.com/MartinBugar/martyx-industries-fe-sub001/log"
	"github.com/MartinBugar/martyx-industries-fe-sub001/respcache"
	"github.com/MartinBugar/martyx-industries-fe-sub001/service"
	"github.com/MartinBugar/martyx-industries-fe-sub001/storefront"
)

const metricsNamespace = "storefront"

type warmOptions struct {
	interval   time.Duration
	categories []string
	languages  []string
}

func newWarmCmd(opts *rootOptions) *cobra.Command {
	var warmOpts warmOptions
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Keep the response cache warm until interrupted",
		Long: "Periodically loads the catalog and the translations so that frontends sharing " +
			"the Redis response cache are served without hitting the backend.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWarm(cmd, opts, warmOpts)
		},
	}
	cmd.Flags().DurationVar(&warmOpts.interval, "interval", time.Minute,
		"delay between warming runs (entries still cached are not refreshed, keep it well below the cache TTL)")
	cmd.Flags().StringSliceVar(&warmOpts.categories, "category", nil, "product categories to warm (all products if empty)")
	cmd.Flags().StringSliceVar(&warmOpts.languages, "locale", []string{storefront.DefaultLanguage},
		"languages of the translations to warm")
	return cmd
}

func runWarm(cmd *cobra.Command, opts *rootOptions, warmOpts warmOptions) error {
	if cmd.Flags().Changed("interval") && warmOpts.interval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}

	apiMetrics := apiclient.NewPrometheusMetricsWithOpts(apiclient.PrometheusMetricsOpts{Namespace: metricsNamespace})
	cacheMetrics := respcache.NewPrometheusMetricsWithOpts(respcache.PrometheusMetricsOpts{Namespace: metricsNamespace})
	httpMetrics := httpclient.NewPrometheusMetricsCollector(metricsNamespace)
	apiMetrics.MustRegister()
	defer apiMetrics.Unregister()
	cacheMetrics.MustRegister()
	defer cacheMetrics.Unregister()
	httpMetrics.MustRegister()
	defer httpMetrics.Unregister()

	a, err := newApp(opts, storefront.Opts{
		MetricsCollector:      apiMetrics,
		CacheMetricsCollector: cacheMetrics,
		HTTPMetricsCollector:  httpMetrics,
	})
	if err != nil {
		return err
	}
	defer a.close()

	warmOpts = mergeWarmOptions(cmd, warmOpts, a.cfg.Warm)
	if warmOpts.interval <= 0 {
		return fmt.Errorf("warm.interval must be positive")
	}
	warmer := service.NewPeriodicWorkerWithOpts(newWarmWorker(a.sf, warmOpts, a.logger), warmOpts.interval, a.logger,
		service.PeriodicWorkerOpts{Name: "cache-warmer"})
	units := []service.Unit{service.NewWorkerUnit(warmer)}
	if a.cfg.DebugServer.Enabled {
		units = append(units, debugserver.New(a.cfg.DebugServer, a.logger, debugserver.Opts{}))
	}
	return service.New(a.logger, service.NewCompositeUnit(units...)).StartContext(cmd.Context())
}

func mergeWarmOptions(cmd *cobra.Command, flagOpts warmOptions, cfg warmConfig) warmOptions {
	merged := flagOpts
	if !cmd.Flags().Changed("interval") && cfg.Interval != 0 {
		merged.interval = cfg.Interval
	}
	if !cmd.Flags().Changed("category") && len(cfg.Categories) != 0 {
		merged.categories = cfg.Categories
	}
	if !cmd.Flags().Changed("locale") && len(cfg.Locales) != 0 {
		merged.languages = cfg.Locales
	}
	return merged
}

// newWarmWorker returns a worker that loads every configured resource once.
// Failures of single resources don't stop the others.
func newWarmWorker(sf *storefront.Storefront, opts warmOptions, logger log.FieldLogger) service.Worker {
	return service.WorkerFunc(func(ctx context.Context) error {
		startTime := time.Now()
		var errs []error
		categories := opts.categories
		if len(categories) == 0 {
			categories = []string{""}
		}
		for _, category := range categories {
			if _, err := sf.Products.List(ctx, storefront.ProductFilter{Category: category}); err != nil {
				errs = append(errs, fmt.Errorf("products of category %q: %w", category, err))
			}
		}
		for _, lang := range opts.languages {
			if _, err := sf.Locales.Translations(ctx, lang); err != nil {
				errs = append(errs, fmt.Errorf("translations %q: %w", lang, err))
			}
		}
		logger.Info("response cache warmed",
			log.Int("resources", len(categories)+len(opts.languages)),
			log.Int("failed", len(errs)),
			log.DurationIn(time.Since(startTime), time.Millisecond),
		)
		return errors.Join(errs...)
	})
}
