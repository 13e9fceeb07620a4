package sequence

import (
	"fmt"
	"time"
)

// Flag names an overlay boolean that is independent of the phase.
type Flag uint8

const (
	// FlagCallOverlay is the time-boxed call overlay shown while icons enter.
	FlagCallOverlay Flag = iota + 1
	// FlagGatherComplete is raised once the gather animation has elapsed.
	FlagGatherComplete
)

func (f Flag) String() string {
	switch f {
	case FlagCallOverlay:
		return "call-overlay"
	case FlagGatherComplete:
		return "gather-complete"
	}
	return fmt.Sprintf("flag(%d)", uint8(f))
}

// EffectKind selects which part of the State an Effect writes.
type EffectKind uint8

const (
	EffectSetPhase EffectKind = iota + 1
	EffectSetFlag
	EffectSetWords
)

// Effect is one write to the State. Timeline entries carry phase and flag
// effects; the word rotation produces word effects.
type Effect struct {
	Kind  EffectKind
	Phase Phase
	Flag  Flag
	On    bool
	Words WordCycle
}

// SetPhase advances the phase to p.
func SetPhase(p Phase) Effect { return Effect{Kind: EffectSetPhase, Phase: p} }

// SetFlag sets an overlay flag.
func SetFlag(f Flag, on bool) Effect { return Effect{Kind: EffectSetFlag, Flag: f, On: on} }

// SetWords replaces the word rotation state.
func SetWords(w WordCycle) Effect { return Effect{Kind: EffectSetWords, Words: w} }

func (e Effect) String() string {
	switch e.Kind {
	case EffectSetPhase:
		return "phase=" + e.Phase.String()
	case EffectSetFlag:
		return fmt.Sprintf("%s=%t", e.Flag, e.On)
	case EffectSetWords:
		return fmt.Sprintf("word=%d", e.Words.Index())
	}
	return "noop"
}

// State is the whole flag/phase bundle of one splash run.
type State struct {
	Phase              Phase
	CallOverlayVisible bool
	GatherComplete     bool
	Words              WordCycle

	// Version increments on every write; consumers drop snapshots older
	// than the one they hold.
	Version uint64
	// At is the offset from activation of the last write.
	At time.Duration
}

// Reduce applies one effect and reports whether the state changed. Phase
// effects that would move backwards are ignored. Version and At are left to
// the caller.
func Reduce(s State, e Effect) (State, bool) {
	switch e.Kind {
	case EffectSetPhase:
		if !e.Phase.Valid() || e.Phase <= s.Phase {
			return s, false
		}
		s.Phase = e.Phase
		return s, true

	case EffectSetFlag:
		switch e.Flag {
		case FlagCallOverlay:
			if s.CallOverlayVisible == e.On {
				return s, false
			}
			s.CallOverlayVisible = e.On
			return s, true
		case FlagGatherComplete:
			if s.GatherComplete == e.On {
				return s, false
			}
			s.GatherComplete = e.On
			return s, true
		}

	case EffectSetWords:
		if s.Words == e.Words {
			return s, false
		}
		s.Words = e.Words
		return s, true
	}
	return s, false
}
