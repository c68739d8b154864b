/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/MartinBugar/martyx-industries-fe-sub001/log"
)

func TestWorkerUnit_Start_Stop(t *testing.T) {
	t.Run("start, stop no gracefully", func(t *testing.T) {
		var c atomic.Int32
		periodicWorker := NewPeriodicWorker(WorkerFunc(func(ctx context.Context) error {
			c.Inc()
			return nil
		}), time.Millisecond*100, log.NewDisabledLogger())

		unit := NewWorkerUnit(periodicWorker)
		fatalErr := make(chan error, 1)
		go unit.Start(fatalErr)
		time.Sleep(time.Millisecond * 450)
		require.NoError(t, unit.Stop(false))
		require.Equal(t, 5, int(c.Load()))
		require.Empty(t, fatalErr)
	})

	t.Run("start, stop gracefully with timeout", func(t *testing.T) {
		longRunningWorker := WorkerFunc(func(ctx context.Context) error {
			time.Sleep(time.Second * 2)
			return nil
		})
		unit := NewWorkerUnitWithOpts(longRunningWorker, WorkerUnitOpts{GracefulStopTimeout: time.Millisecond * 200})
		go unit.Start(make(chan error, 1))
		time.Sleep(time.Millisecond * 100)
		require.ErrorIs(t, unit.Stop(true), ErrWorkerUnitStopTimeoutExceeded)
	})

	t.Run("start, stop gracefully without timeout, stop twice", func(t *testing.T) {
		var answer atomic.Int32
		longRunningWorker := WorkerFunc(func(ctx context.Context) error {
			time.Sleep(time.Millisecond * 250)
			answer.Store(42)
			return nil
		})
		unit := NewWorkerUnit(longRunningWorker)
		go unit.Start(make(chan error, 1))
		time.Sleep(time.Millisecond * 100)
		require.NoError(t, unit.Stop(true))
		require.Equal(t, 42, int(answer.Load()))
		require.NoError(t, unit.Stop(true))
	})

	t.Run("stop without start", func(t *testing.T) {
		var started atomic.Bool
		unit := NewWorkerUnit(WorkerFunc(func(ctx context.Context) error {
			started.Store(true)
			return nil
		}))
		require.NoError(t, unit.Stop(true))
		unit.Start(make(chan error, 1))
		require.False(t, started.Load())
	})

	t.Run("worker error is fatal", func(t *testing.T) {
		unit := NewWorkerUnit(WorkerFunc(func(ctx context.Context) error {
			return errors.New("boom")
		}))
		fatalErr := make(chan error, 1)
		unit.Start(fatalErr)
		require.EqualError(t, <-fatalErr, "boom")
		require.NoError(t, unit.Stop(true))
	})
}
