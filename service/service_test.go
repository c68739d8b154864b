/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/MartinBugar/martyx-industries-fe-sub001/log/logtest"
)

type mockUnit struct {
	running        atomic.Bool
	startCalled    atomic.Int32
	stopCalled     atomic.Int32
	registerCalled atomic.Int32
	unregCalled    atomic.Int32
	startErr       error
}

func (u *mockUnit) Start(fatalErr chan<- error) {
	u.startCalled.Inc()
	if u.startErr != nil {
		fatalErr <- u.startErr
		return
	}
	u.running.Store(true)
}

func (u *mockUnit) Stop(gracefully bool) error {
	u.stopCalled.Inc()
	u.running.Store(false)
	return nil
}

func (u *mockUnit) MustRegisterMetrics() { u.registerCalled.Inc() }
func (u *mockUnit) UnregisterMetrics()   { u.unregCalled.Inc() }

func TestService_Start(t *testing.T) {
	unit := &mockUnit{}
	service := NewWithOpts(logtest.NewRecorder(), unit, Opts{})
	done := make(chan error, 1)
	go func() { done <- service.Start() }()

	require.Eventually(t, unit.running.Load, time.Second*3, time.Millisecond*10)
	require.Equal(t, 1, int(unit.registerCalled.Load()))

	service.Signals <- os.Interrupt

	require.NoError(t, <-done)
	require.False(t, unit.running.Load())
	require.Equal(t, 1, int(unit.stopCalled.Load()))
	require.Equal(t, 1, int(unit.unregCalled.Load()))
}

func TestService_StartContext(t *testing.T) {
	ctx, ctxCancel := context.WithCancel(context.Background())

	logRecorder := logtest.NewRecorder()
	unit := &mockUnit{}
	service := New(logRecorder, unit)
	done := make(chan error, 1)
	go func() { done <- service.StartContext(ctx) }()

	require.Eventually(t, unit.running.Load, time.Second*3, time.Millisecond*10)
	ctxCancel()

	require.NoError(t, <-done)
	require.Equal(t, 1, int(unit.stopCalled.Load()))
	_, found := logRecorder.FindEntry("context is canceled, service will be stopped")
	require.True(t, found)
}

func TestService_FatalError(t *testing.T) {
	unit := &mockUnit{startErr: errors.New("cannot start")}
	service := NewWithOpts(logtest.NewRecorder(), unit, Opts{})
	require.EqualError(t, service.Start(), "fatal error: cannot start")
	require.Zero(t, int(unit.stopCalled.Load()))
}
