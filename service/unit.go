/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package service provides units with an explicit start/stop lifecycle
// and workers that run in background until they are stopped.
package service

// Unit represents a component with its own lifecycle that can be started and stopped.
type Unit interface {
	// Start begins the unit's operation. It may return immediately or block for the unit's lifetime.
	// Errors that make further work impossible are sent to fatalErr.
	// Stop may be called regardless of whether Start has succeeded, failed or is still running.
	Start(fatalErr chan<- error)

	// Stop halts the unit. If gracefully is true, the unit waits until the current work is done.
	Stop(gracefully bool) error
}

// MetricsRegisterer is an interface for objects that can register its own metrics.
type MetricsRegisterer interface {
	MustRegisterMetrics()
	UnregisterMetrics()
}
