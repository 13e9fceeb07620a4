// Package haptics turns phase transitions into vibration patterns. On a
// terminal the only actuator available is the bell, so Bell renders each
// pulse of a pattern as a BEL character.
package haptics

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/splashseq/internal/logging"
	"github.com/agbru/splashseq/internal/sequence"
)

// Pattern alternates vibration and pause durations, starting with a
// vibration.
type Pattern []time.Duration

// Pulses counts the vibration segments.
func (p Pattern) Pulses() int { return (len(p) + 1) / 2 }

// Reference patterns.
var (
	Tap    = Pattern{10 * time.Millisecond}
	Double = Pattern{15 * time.Millisecond, 60 * time.Millisecond, 15 * time.Millisecond}
	Reveal = Pattern{30 * time.Millisecond, 40 * time.Millisecond, 60 * time.Millisecond}
)

// PatternFor returns the pattern played on the transition from prev to
// next, or nil when the transition is silent.
func PatternFor(prev, next sequence.Phase) Pattern {
	if prev == next {
		return nil
	}
	switch next {
	case sequence.PhaseIconsEntering:
		return Tap
	case sequence.PhaseGathering:
		return Double
	case sequence.PhaseLogoRevealed:
		return Reveal
	}
	return nil
}

// Haptics triggers a vibration pattern. Implementations must not block
// for the length of the pattern.
type Haptics interface {
	Trigger(p Pattern)
}

// Nop ignores every pattern.
type Nop struct{}

// Trigger does nothing.
func (Nop) Trigger(Pattern) {}

// Bell writes one BEL per pulse.
type Bell struct {
	mu     sync.Mutex
	w      io.Writer
	logger logging.Logger
}

// NewBell returns a Bell writing to w. A nil logger is replaced by a no-op
// logger.
func NewBell(w io.Writer, logger logging.Logger) *Bell {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Bell{w: w, logger: logger}
}

// Trigger writes the pulses of p. Write errors are logged and dropped.
func (b *Bell) Trigger(p Pattern) {
	n := p.Pulses()
	if n == 0 {
		return
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = '\a'
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.w.Write(buf); err != nil {
		b.logger.Debug("haptic pulse dropped", logging.Err(err))
	}
}

// Observer plays the pattern of each phase transition on h.
func Observer(h Haptics) sequence.Observer {
	return sequence.ObserverFunc(func(prev, next sequence.State) {
		if p := PatternFor(prev.Phase, next.Phase); p != nil {
			h.Trigger(p)
		}
	})
}
