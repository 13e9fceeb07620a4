// Package clock abstracts delayed callbacks so the splash sequencer can run
// against wall-clock time in production and against a manually advanced
// virtual clock in tests and in the timeline simulator.
package clock

import "time"

// Timer is a cancelable pending callback. Stop reports whether the call
// prevented the callback from running.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks after a delay.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real is the wall-clock implementation backed by time.AfterFunc.
type Real struct{}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// AfterFunc schedules f on its own goroutine after d.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
