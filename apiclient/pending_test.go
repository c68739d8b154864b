/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingRegistry(t *testing.T) {
	r := newPendingRegistry()

	_, found := r.Lookup("k1")
	require.False(t, found)

	call, owner := r.lookupOrRegister("k1")
	require.True(t, owner)
	joined, owner := r.lookupOrRegister("k1")
	require.False(t, owner)
	require.Same(t, call, joined)
	require.Equal(t, 1, r.Len())

	replacement := newPendingCall()
	r.Register("k1", replacement)
	found1, found := r.Lookup("k1")
	require.True(t, found)
	require.Same(t, replacement, found1)

	r.Release("k1")
	r.Release("k1")
	require.Equal(t, 0, r.Len())
}

func TestPendingRegistry_DetachAll(t *testing.T) {
	r := newPendingRegistry()

	stale, owner := r.lookupOrRegister("k1")
	require.True(t, owner)
	r.detachAll()
	require.Equal(t, 0, r.Len())

	fresh, owner := r.lookupOrRegister("k1")
	require.True(t, owner, "a detached call must not be joined")
	require.NotSame(t, stale, fresh)

	r.releaseCall("k1", stale)
	found, ok := r.Lookup("k1")
	require.True(t, ok, "releasing a detached call must keep the newer one")
	require.Same(t, fresh, found)

	r.releaseCall("k1", fresh)
	require.Equal(t, 0, r.Len())
}

func TestPendingCall(t *testing.T) {
	t.Run("all waiters get the result", func(t *testing.T) {
		call := newPendingCall()
		const waiters = 5
		results := make(chan json.RawMessage, waiters)
		var wg sync.WaitGroup
		for i := 0; i < waiters; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				data, err := call.wait(context.Background())
				assert.NoError(t, err)
				results <- data
			}()
		}
		call.settle(json.RawMessage(`{"id":1}`), nil)
		wg.Wait()
		close(results)
		for data := range results {
			require.JSONEq(t, `{"id":1}`, string(data))
		}
	})

	t.Run("waiter gives up on context", func(t *testing.T) {
		call := newPendingCall()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := call.wait(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		call.settle(nil, errors.New("failed"))
		_, err = call.wait(context.Background())
		require.EqualError(t, err, "failed")
	})
}

func TestPanicError(t *testing.T) {
	cause := errors.New("nil map")
	err := newPanicError(cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "nil map")
	require.NotContains(t, string(err.Stack), "goroutine ")

	require.Nil(t, newPanicError("boom").Unwrap())
}
