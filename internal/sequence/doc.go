// Package sequence implements the splash-screen timeline: a forward-only
// phase state machine driven by a declarative table of delayed effects, a
// bounded word rotation that reports its own completion exactly once, and
// the event-relative suffix scheduled from that completion.
//
// The package holds no rendering knowledge. Consumers register an Observer
// and map each State to visual directives (see package presentation).
//
// Timeline (defaults, offsets from activation unless noted):
//
//	200ms   icons entering, call overlay shown
//	700ms   icons steady
//	3700ms  gathering
//	5400ms  gather complete, call overlay dismissed, rotation active
//	+2000ms per word until the list wraps once -> rotation done
//	+300ms  label shown      (relative to rotation done)
//	+1800ms label shrinking  (relative to rotation done)
//	+2600ms logo revealed    (relative to rotation done)
package sequence
