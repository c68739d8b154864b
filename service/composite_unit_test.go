/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type blockingUnit struct {
	mockUnit
	stopped chan struct{}
}

func newBlockingUnit() *blockingUnit {
	return &blockingUnit{stopped: make(chan struct{})}
}

func (u *blockingUnit) Start(fatalErr chan<- error) {
	u.mockUnit.Start(fatalErr)
	<-u.stopped
}

func (u *blockingUnit) Stop(gracefully bool) error {
	if u.stopCalled.Load() == 0 {
		close(u.stopped)
	}
	return u.mockUnit.Stop(gracefully)
}

func TestCompositeUnit(t *testing.T) {
	u1, u2 := &mockUnit{}, &mockUnit{}
	cu := NewCompositeUnit(u1, u2)

	cu.MustRegisterMetrics()
	fatalErr := make(chan error, 1)
	cu.Start(fatalErr)
	require.True(t, u1.running.Load())
	require.True(t, u2.running.Load())
	require.Len(t, fatalErr, 0)

	require.NoError(t, cu.Stop(true))
	cu.UnregisterMetrics()
	for _, u := range []*mockUnit{u1, u2} {
		require.False(t, u.running.Load())
		require.Equal(t, int32(1), u.registerCalled.Load())
		require.Equal(t, int32(1), u.unregCalled.Load())
	}
}

func TestCompositeUnit_StartFailure(t *testing.T) {
	blocking := newBlockingUnit()
	failing := &mockUnit{startErr: errors.New("listen tcp: address already in use")}
	cu := NewCompositeUnit(blocking, failing)

	fatalErr := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		cu.Start(fatalErr)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second * 3):
		require.FailNow(t, "composite unit must return from Start after a failure")
	}
	require.ErrorIs(t, <-fatalErr, failing.startErr)
	require.Equal(t, int32(1), blocking.stopCalled.Load(), "running units must be stopped")
}
