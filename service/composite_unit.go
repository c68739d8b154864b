/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package service

import (
	"errors"
	"sync"
)

// CompositeUnit runs several units as one, e.g. a background worker together with the debug server.
type CompositeUnit struct {
	Units []Unit
}

var _ Unit = (*CompositeUnit)(nil)
var _ MetricsRegisterer = (*CompositeUnit)(nil)

// NewCompositeUnit creates a new CompositeUnit.
func NewCompositeUnit(units ...Unit) *CompositeUnit {
	return &CompositeUnit{Units: units}
}

// Start starts all units concurrently and blocks until all of them return from Start.
// When any unit fails, the rest are stopped non-gracefully and the joined error is sent to fatalErr.
func (cu *CompositeUnit) Start(fatalErr chan<- error) {
	unitErrs := make(chan error, len(cu.Units))
	var wg sync.WaitGroup
	wg.Add(len(cu.Units))
	for _, u := range cu.Units {
		go func(u Unit) {
			defer wg.Done()
			unitFatalErr := make(chan error, 1)
			u.Start(unitFatalErr)
			select {
			case err := <-unitFatalErr:
				unitErrs <- err
			default:
			}
		}(u)
	}

	allReturned := make(chan struct{})
	go func() {
		wg.Wait()
		close(allReturned)
	}()

	var firstErr error
	select {
	case <-allReturned:
		select {
		case firstErr = <-unitErrs:
		default:
			return
		}
	case firstErr = <-unitErrs:
	}

	errs := []error{firstErr}
	if stopErr := cu.Stop(false); stopErr != nil {
		errs = append(errs, stopErr)
	}
	<-allReturned
	close(unitErrs)
	for err := range unitErrs {
		errs = append(errs, err)
	}
	fatalErr <- errors.Join(errs...)
}

// Stop stops all units concurrently and returns the joined error of the failed ones.
func (cu *CompositeUnit) Stop(gracefully bool) error {
	errs := make([]error, len(cu.Units))
	var wg sync.WaitGroup
	wg.Add(len(cu.Units))
	for i, u := range cu.Units {
		go func(i int, u Unit) {
			defer wg.Done()
			errs[i] = u.Stop(gracefully)
		}(i, u)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// MustRegisterMetrics registers metrics of all units that have them.
func (cu *CompositeUnit) MustRegisterMetrics() {
	for _, u := range cu.Units {
		if mr, ok := u.(MetricsRegisterer); ok {
			mr.MustRegisterMetrics()
		}
	}
}

// UnregisterMetrics unregisters metrics of all units that have them.
func (cu *CompositeUnit) UnregisterMetrics() {
	for _, u := range cu.Units {
		if mr, ok := u.(MetricsRegisterer); ok {
			mr.UnregisterMetrics()
		}
	}
}
