package sequence

import (
	"fmt"
	"time"

	apperrors "github.com/agbru/splashseq/internal/errors"
)

// OffsetKind tells how an entry's offset is measured.
type OffsetKind uint8

const (
	// Absolute offsets are measured from activation.
	Absolute OffsetKind = iota
	// Relative offsets are measured from the entry's anchor event.
	Relative
)

func (k OffsetKind) String() string {
	if k == Relative {
		return "relative"
	}
	return "absolute"
}

// Event names a point in the run that relative entries can be anchored on.
type Event uint8

const (
	EventActivated Event = iota
	EventRotationComplete
)

func (e Event) String() string {
	switch e {
	case EventActivated:
		return "activated"
	case EventRotationComplete:
		return "rotation-complete"
	}
	return fmt.Sprintf("event(%d)", uint8(e))
}

// Entry is one row of the timeline table.
type Entry struct {
	Name   string
	Kind   OffsetKind
	Anchor Event
	Offset time.Duration
	Effect Effect
}

// Timeline is the declarative schedule consumed by the Controller.
type Timeline []Entry

// Absolute returns the absolute entries in declared order.
func (t Timeline) Absolute() []Entry {
	var out []Entry
	for _, e := range t {
		if e.Kind == Absolute {
			out = append(out, e)
		}
	}
	return out
}

// RelativeTo returns the entries anchored on ev in declared order.
func (t Timeline) RelativeTo(ev Event) []Entry {
	var out []Entry
	for _, e := range t {
		if e.Kind == Relative && e.Anchor == ev {
			out = append(out, e)
		}
	}
	return out
}

// Validate checks the ordering invariants: offsets are non-negative,
// absolute offsets never decrease in declared order, relative offsets never
// decrease per anchor, relative entries are anchored on a known event, and
// only phase or flag effects appear.
func (t Timeline) Validate() error {
	var lastAbs time.Duration
	lastRel := map[Event]time.Duration{}

	for i, e := range t {
		field := fmt.Sprintf("timeline[%d] %s", i, e.Name)
		if e.Offset < 0 {
			return apperrors.ValidationError{Field: field, Message: "offset must not be negative"}
		}
		switch e.Effect.Kind {
		case EffectSetPhase:
			if !e.Effect.Phase.Valid() {
				return apperrors.ValidationError{Field: field, Message: "unknown phase"}
			}
		case EffectSetFlag:
		default:
			return apperrors.ValidationError{Field: field, Message: "only phase and flag effects can be scheduled"}
		}

		switch e.Kind {
		case Absolute:
			if e.Offset < lastAbs {
				return apperrors.ValidationError{
					Field:   field,
					Message: fmt.Sprintf("absolute offset %s precedes earlier entry at %s", e.Offset, lastAbs),
				}
			}
			lastAbs = e.Offset
		case Relative:
			if e.Anchor != EventRotationComplete {
				return apperrors.ValidationError{Field: field, Message: "relative entries must be anchored on " + EventRotationComplete.String()}
			}
			if prev := lastRel[e.Anchor]; e.Offset < prev {
				return apperrors.ValidationError{
					Field:   field,
					Message: fmt.Sprintf("relative offset %s precedes earlier entry at %s", e.Offset, prev),
				}
			}
			lastRel[e.Anchor] = e.Offset
		default:
			return apperrors.ValidationError{Field: field, Message: "unknown offset kind"}
		}
	}
	return nil
}

// Timings holds the recognized timeline constants.
type Timings struct {
	IconsEnterDelay    time.Duration
	IconsAppearDelay   time.Duration
	GatherStartDelay   time.Duration
	GatherDuration     time.Duration
	CallDismissDelay   time.Duration
	RotationStartDelay time.Duration
	RotationPeriod     time.Duration
	LabelShowDelay     time.Duration
	LabelShrinkDelay   time.Duration
	LogoRevealDelay    time.Duration
}

// DefaultTimings returns the reference timing values.
func DefaultTimings() Timings {
	return Timings{
		IconsEnterDelay:    200 * time.Millisecond,
		IconsAppearDelay:   700 * time.Millisecond,
		GatherStartDelay:   3700 * time.Millisecond,
		GatherDuration:     1700 * time.Millisecond,
		CallDismissDelay:   5400 * time.Millisecond,
		RotationStartDelay: 5400 * time.Millisecond,
		RotationPeriod:     2000 * time.Millisecond,
		LabelShowDelay:     300 * time.Millisecond,
		LabelShrinkDelay:   1500 * time.Millisecond,
		LogoRevealDelay:    800 * time.Millisecond,
	}
}

// Timeline builds the declarative table. The suffix delays chain: each is
// measured from the previous suffix step, which is why the relative offsets
// are cumulative.
func (t Timings) Timeline() Timeline {
	labelShow := t.LabelShowDelay
	labelShrink := labelShow + t.LabelShrinkDelay
	logoReveal := labelShrink + t.LogoRevealDelay

	return Timeline{
		{Name: "icons-enter", Kind: Absolute, Offset: t.IconsEnterDelay, Effect: SetPhase(PhaseIconsEntering)},
		{Name: "call-overlay-show", Kind: Absolute, Offset: t.IconsEnterDelay, Effect: SetFlag(FlagCallOverlay, true)},
		{Name: "icons-steady", Kind: Absolute, Offset: t.IconsAppearDelay, Effect: SetPhase(PhaseIconsSteady)},
		{Name: "gather-start", Kind: Absolute, Offset: t.GatherStartDelay, Effect: SetPhase(PhaseGathering)},
		{Name: "gather-end", Kind: Absolute, Offset: t.GatherStartDelay + t.GatherDuration, Effect: SetFlag(FlagGatherComplete, true)},
		{Name: "call-dismiss", Kind: Absolute, Offset: t.CallDismissDelay, Effect: SetFlag(FlagCallOverlay, false)},
		{Name: "rotation-start", Kind: Absolute, Offset: t.RotationStartDelay, Effect: SetPhase(PhaseRotationActive)},

		{Name: "label-show", Kind: Relative, Anchor: EventRotationComplete, Offset: labelShow, Effect: SetPhase(PhaseLabelShown)},
		{Name: "label-shrink", Kind: Relative, Anchor: EventRotationComplete, Offset: labelShrink, Effect: SetPhase(PhaseLabelShrinking)},
		{Name: "logo-reveal", Kind: Relative, Anchor: EventRotationComplete, Offset: logoReveal, Effect: SetPhase(PhaseLogoRevealed)},
	}
}

// Config is everything a Controller needs.
type Config struct {
	Timeline       Timeline
	WordCount      int
	RotationPeriod time.Duration
}

// Config builds a controller configuration for a list of wordCount words.
func (t Timings) Config(wordCount int) Config {
	return Config{
		Timeline:       t.Timeline(),
		WordCount:      wordCount,
		RotationPeriod: t.RotationPeriod,
	}
}

// Validate checks the timeline and the rotation parameters.
func (c Config) Validate() error {
	if c.WordCount < 1 {
		return apperrors.ValidationError{Field: "words", Message: "at least one word is required"}
	}
	if c.RotationPeriod <= 0 {
		return apperrors.ValidationError{Field: "rotation-period", Message: "must be positive"}
	}
	return c.Timeline.Validate()
}

// Duration estimates the length of a full run: the last absolute offset plus
// one rotation pass plus the last relative offset.
func (c Config) Duration() time.Duration {
	var rotationStart, lastAbs, lastRel time.Duration
	for _, e := range c.Timeline {
		switch e.Kind {
		case Absolute:
			lastAbs = max(lastAbs, e.Offset)
			if e.Effect.Kind == EffectSetPhase && e.Effect.Phase == PhaseRotationActive {
				rotationStart = e.Offset
			}
		case Relative:
			lastRel = max(lastRel, e.Offset)
		}
	}
	done := rotationStart + time.Duration(max(c.WordCount, 1))*c.RotationPeriod
	return max(lastAbs, done) + lastRel
}
