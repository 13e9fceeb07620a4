package sequence

import (
	"time"

	"github.com/agbru/splashseq/internal/clock"
)

// Step is one recorded State write.
type Step struct {
	Prev State
	Next State
}

// simulationLimit bounds a simulated run in virtual time.
const simulationLimit = time.Hour

// Simulate runs a controller on a virtual clock until no timer is pending
// and returns every State write in order.
func Simulate(cfg Config) ([]Step, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Unix(0, 0)
	v := clock.NewVirtual(start)
	var steps []Step
	ctrl := NewController(cfg,
		WithClock(v),
		WithObserver(ObserverFunc(func(prev, next State) {
			steps = append(steps, Step{Prev: prev, Next: next})
		})),
	)
	ctrl.Activate()
	defer ctrl.Deactivate()

	for {
		next, ok := v.NextDeadline()
		if !ok || next.Sub(start) > simulationLimit {
			break
		}
		v.AdvanceTo(next)
	}
	return steps, nil
}

// PhaseChanges filters steps down to those that moved the phase.
func PhaseChanges(steps []Step) []Step {
	var out []Step
	for _, s := range steps {
		if s.Prev.Phase != s.Next.Phase {
			out = append(out, s)
		}
	}
	return out
}
