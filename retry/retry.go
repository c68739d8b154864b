/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package retry runs an operation repeatedly according to a backoff policy.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// IsRetryable defines a func that can tell if error is retryable as opposed to persistent.
type IsRetryable func(error) bool

// RetryableFunc is function that does some work and can be potentially retried.
// Attempt starts from 1.
type RetryableFunc func(ctx context.Context, attempt int) error

// Notify is called before every retry with the error of the failed attempt,
// the number of that attempt and the delay before the next one.
type Notify func(err error, attempt int, delay time.Duration)

// Policy defines backoff strategy.
type Policy interface {
	NewBackOff() backoff.BackOff
}

// DoWithRetry executes fn with retry according to policy p and with respect to context ctx.
// IsRetryable defines which errors lead to retry attempt (can be nil for any error).
// Notify can be nil if no notifications required.
// When all attempts are exhausted, the error of the last attempt is returned as is.
func DoWithRetry(ctx context.Context, p Policy, isRetryable IsRetryable, notify Notify, fn RetryableFunc) error {
	bctx := backoff.WithContext(p.NewBackOff(), ctx)
	attempt := 0
	op := func() error {
		attempt++
		err := fn(bctx.Context(), attempt)
		if err != nil && isRetryable != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	var bNotify backoff.Notify
	if notify != nil {
		bNotify = func(err error, delay time.Duration) {
			notify(err, attempt, delay)
		}
	}
	return backoff.RetryNotify(op, bctx, bNotify)
}

// The PolicyFunc type is an adapter to allow the use of ordinary functions as retry.Policy.
type PolicyFunc func() backoff.BackOff

// NewBackOff implements retry.Policy.
func (f PolicyFunc) NewBackOff() backoff.BackOff {
	return f()
}

// DoublingBackoffPolicy repeats up to maxRetries times and doubles the delay after every retry:
// base, 2*base, 4*base and so on. There is no jitter and no upper bound for the delay.
type DoublingBackoffPolicy struct {
	base       time.Duration
	maxRetries int
}

// NewDoublingBackoffPolicy returns a doubling backoff policy.
// A non-positive maxRetries means that the operation is executed exactly once.
func NewDoublingBackoffPolicy(base time.Duration, maxRetries int) DoublingBackoffPolicy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return DoublingBackoffPolicy{base: base, maxRetries: maxRetries}
}

// MaxAttempts returns the total number of attempts including the first one.
func (p DoublingBackoffPolicy) MaxAttempts() int {
	return p.maxRetries + 1
}

// NewBackOff implements retry.Policy.
func (p DoublingBackoffPolicy) NewBackOff() backoff.BackOff {
	var bf backoff.BackOff
	if p.base <= 0 {
		bf = &backoff.ZeroBackOff{}
	} else {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = p.base
		eb.RandomizationFactor = 0
		eb.Multiplier = 2
		eb.MaxInterval = time.Duration(math.MaxInt64)
		eb.MaxElapsedTime = 0
		bf = eb
	}
	bf = backoff.WithMaxRetries(bf, uint64(p.maxRetries))
	bf.Reset()
	return bf
}
