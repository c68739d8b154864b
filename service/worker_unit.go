/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/atomic"
)

// ErrWorkerUnitStopTimeoutExceeded is an error that occurs when WorkerUnit's gracefully stop timeout is exceeded.
var ErrWorkerUnitStopTimeoutExceeded = errors.New("worker unit stop timeout exceeded")

// WorkerUnit allows presenting Worker as Unit.
// Stop cancels the context passed to the worker and may be called several times.
type WorkerUnit struct {
	worker              Worker
	gracefulStopTimeout time.Duration

	ctx       context.Context
	ctxCancel context.CancelFunc
	started   atomic.Bool
	stopDone  chan struct{}
}

// WorkerUnitOpts contains optional parameters for constructing WorkerUnit.
type WorkerUnitOpts struct {
	// GracefulStopTimeout limits the time Stop(true) waits for the worker. Zero means no limit.
	GracefulStopTimeout time.Duration
}

// NewWorkerUnit creates a new instance of WorkerUnit.
func NewWorkerUnit(worker Worker) *WorkerUnit {
	return NewWorkerUnitWithOpts(worker, WorkerUnitOpts{})
}

// NewWorkerUnitWithOpts creates a new instance of WorkerUnit
// with an ability to specify different optional parameters.
func NewWorkerUnitWithOpts(worker Worker, opts WorkerUnitOpts) *WorkerUnit {
	ctx, ctxCancel := context.WithCancel(context.Background())
	return &WorkerUnit{
		worker:              worker,
		gracefulStopTimeout: opts.GracefulStopTimeout,
		ctx:                 ctx,
		ctxCancel:           ctxCancel,
		stopDone:            make(chan struct{}),
	}
}

// Start runs the underlying Worker and blocks until it returns.
// Only the first call has an effect.
func (u *WorkerUnit) Start(fatalError chan<- error) {
	if !u.started.CompareAndSwap(false, true) {
		return
	}
	defer close(u.stopDone)
	if err := u.worker.Run(u.ctx); err != nil {
		fatalError <- err
	}
}

// Stop stops underlying Worker.
// If the unit was never started, graceful stop returns immediately.
func (u *WorkerUnit) Stop(gracefully bool) error {
	u.ctxCancel()
	if !gracefully {
		return nil
	}
	// Mark the unit as started, so a late Start does not run the worker.
	if u.started.CompareAndSwap(false, true) {
		close(u.stopDone)
	}

	if u.gracefulStopTimeout == 0 {
		<-u.stopDone
		return nil
	}
	timer := time.NewTimer(u.gracefulStopTimeout)
	defer timer.Stop()
	select {
	case <-u.stopDone:
		return nil
	case <-timer.C:
		return ErrWorkerUnitStopTimeoutExceeded
	}
}
