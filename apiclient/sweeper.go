/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package apiclient

import (
	"context"
	"time"

	"github.com/MartinBugar/martyx-industries-fe-sub001/log"
	"github.com/MartinBugar/martyx-industries-fe-sub001/service"
)

const cacheSweeperStopTimeout = 5 * time.Second

// newCacheSweeper returns a unit that removes expired cache entries every interval.
func newCacheSweeper(cache ResponseCache, interval time.Duration, logger log.FieldLogger) *service.WorkerUnit {
	sweep := service.WorkerFunc(func(ctx context.Context) error {
		if n := cache.Sweep(); n > 0 {
			logger.Debug("expired responses removed from cache", log.Int("count", n))
		}
		return nil
	})
	worker := service.NewPeriodicWorkerWithOpts(sweep, interval, logger, service.PeriodicWorkerOpts{
		Name:         "response-cache-sweeper",
		InitialDelay: interval,
	})
	return service.NewWorkerUnitWithOpts(worker, service.WorkerUnitOpts{GracefulStopTimeout: cacheSweeperStopTimeout})
}
