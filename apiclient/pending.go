/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
)

// pendingCall is a result of an in-flight request shared by all callers with the same key.
type pendingCall struct {
	done chan struct{}
	data json.RawMessage
	err  error
}

func newPendingCall() *pendingCall {
	return &pendingCall{done: make(chan struct{})}
}

// settle must be called exactly once.
func (c *pendingCall) settle(data json.RawMessage, err error) {
	c.data, c.err = data, err
	close(c.done)
}

// wait blocks until the call settles or ctx is done.
// Giving up waiting doesn't affect the call itself.
func (c *pendingCall) wait(ctx context.Context) (json.RawMessage, error) {
	select {
	case <-c.done:
		return c.data, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// pendingRegistry keeps in-flight calls by request key.
type pendingRegistry struct {
	mu    sync.Mutex
	calls map[string]*pendingCall
}

func newPendingRegistry() *pendingRegistry {
	return &pendingRegistry{calls: make(map[string]*pendingCall)}
}

// Register stores the call under the key, replacing the previous one.
func (r *pendingRegistry) Register(key string, call *pendingCall) {
	r.mu.Lock()
	r.calls[key] = call
	r.mu.Unlock()
}

// Lookup returns the in-flight call for the key.
func (r *pendingRegistry) Lookup(key string) (*pendingCall, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	call, ok := r.calls[key]
	return call, ok
}

// Release removes the call for the key.
func (r *pendingRegistry) Release(key string) {
	r.mu.Lock()
	delete(r.calls, key)
	r.mu.Unlock()
}

// releaseCall removes the call for the key only if it's still registered there.
// After detachAll a newer call may own the key.
func (r *pendingRegistry) releaseCall(key string, call *pendingCall) {
	r.mu.Lock()
	if r.calls[key] == call {
		delete(r.calls, key)
	}
	r.mu.Unlock()
}

// detachAll forgets all in-flight calls. They still settle their waiters,
// but new callers don't join them.
func (r *pendingRegistry) detachAll() {
	r.mu.Lock()
	r.calls = make(map[string]*pendingCall)
	r.mu.Unlock()
}

// lookupOrRegister returns the in-flight call for the key or registers a new one.
// owner is true if the call was registered, and the caller is responsible for settling and releasing it.
func (r *pendingRegistry) lookupOrRegister(key string) (call *pendingCall, owner bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if call, ok := r.calls[key]; ok {
		return call, false
	}
	call = newPendingCall()
	r.calls[key] = call
	return call, true
}

// Len returns the number of in-flight calls.
func (r *pendingRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// PanicError is returned to all waiters of a request when its execution panics.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("%v\n\n%s", p.Value, p.Stack)
}

// Unwrap returns the panic value if it's an error.
func (p *PanicError) Unwrap() error {
	err, _ := p.Value.(error)
	return err
}

func newPanicError(v interface{}) *PanicError {
	stack := debug.Stack()
	// Drop the "goroutine N [running]:" line.
	if line := bytes.IndexByte(stack, '\n'); line >= 0 {
		stack = stack[line+1:]
	}
	return &PanicError{Value: v, Stack: stack}
}
