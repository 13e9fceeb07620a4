package sequence

import (
	"fmt"
)

// Phase is the controller's current named stage. Phases only move forward.
type Phase uint8

// Phases in timeline order.
const (
	PhaseIdle Phase = iota
	PhaseIconsEntering
	PhaseIconsSteady
	PhaseGathering
	PhaseRotationActive
	PhaseRotationDone
	PhaseLabelShown
	PhaseLabelShrinking
	PhaseLogoRevealed
)

var phaseNames = [...]string{
	PhaseIdle:           "idle",
	PhaseIconsEntering:  "icons-entering",
	PhaseIconsSteady:    "icons-steady",
	PhaseGathering:      "gathering",
	PhaseRotationActive: "rotation-active",
	PhaseRotationDone:   "rotation-done",
	PhaseLabelShown:     "label-shown",
	PhaseLabelShrinking: "label-shrinking",
	PhaseLogoRevealed:   "logo-revealed",
}

// Phases returns every phase in timeline order.
func Phases() []Phase {
	out := make([]Phase, len(phaseNames))
	for i := range phaseNames {
		out[i] = Phase(i)
	}
	return out
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Valid reports whether p is a declared phase.
func (p Phase) Valid() bool { return int(p) < len(phaseNames) }

// Terminal reports whether no further phase can follow.
func (p Phase) Terminal() bool { return p == PhaseLogoRevealed }

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown phase %d", uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	parsed, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePhase returns the phase with the given name.
func ParsePhase(name string) (Phase, error) {
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), nil
		}
	}
	return PhaseIdle, fmt.Errorf("unknown phase %q", name)
}
