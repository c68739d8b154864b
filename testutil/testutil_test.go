/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mockT struct {
	failed bool
}

func (t *mockT) FailNow() {
	t.failed = true
}

func (t *mockT) Errorf(string, ...interface{}) {}

func TestRequireNoErrorInChannel(t *testing.T) {
	m := &mockT{}
	ch := make(chan error, 1)

	RequireNoErrorInChannel(m, ch)
	require.False(t, m.failed)

	ch <- errors.New("listen: address already in use")
	RequireNoErrorInChannel(m, ch)
	require.True(t, m.failed)
}

func TestRequireErrorInChannel(t *testing.T) {
	m := &mockT{}
	ch := make(chan error, 1)

	ch <- errors.New("fatal")
	require.EqualError(t, RequireErrorInChannel(m, ch, time.Second), "fatal")
	require.False(t, m.failed)

	require.NoError(t, RequireErrorInChannel(m, ch, time.Millisecond*10))
	require.True(t, m.failed)
}

func TestWaitListeningServer(t *testing.T) {
	addr := GetLocalAddrWithFreeTCPPort()
	require.Error(t, WaitListeningServer(addr, time.Millisecond*50))

	ln, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	defer func() { require.NoError(t, ln.Close()) }()
	require.NoError(t, WaitListeningServer(addr, time.Second))
}
