package sequence

import (
	"sync"
	"time"

	"github.com/agbru/splashseq/internal/clock"
	"github.com/agbru/splashseq/internal/logging"
)

// Controller owns one splash run. It arms the absolute timeline on
// Activate, starts the word rotation when the phase reaches
// PhaseRotationActive, schedules the relative suffix when the rotation
// completes, and cancels everything on Deactivate. A Controller is never
// reused: a replay needs a new one.
type Controller struct {
	cfg       Config
	clock     clock.Clock
	logger    logging.Logger
	observers Observers
	rotator   *Rotator

	mu         sync.Mutex
	state      State
	activated  bool
	active     bool
	completed  bool
	startedAt  time.Time
	completeAt time.Duration
	timers     []clock.Timer
}

// Option configures a Controller during construction.
type Option func(*Controller)

// WithClock replaces the wall clock, typically with a clock.Virtual.
func WithClock(c clock.Clock) Option {
	return func(ctrl *Controller) { ctrl.clock = c }
}

// WithLogger sets the logger used for transitions and ignored calls.
func WithLogger(l logging.Logger) Option {
	return func(ctrl *Controller) { ctrl.logger = l }
}

// WithObserver registers an observer. It may be given several times.
func WithObserver(o Observer) Option {
	return func(ctrl *Controller) { ctrl.observers = append(ctrl.observers, o) }
}

// NewController builds an inactive controller. cfg is expected to have
// passed Config.Validate.
func NewController(cfg Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:   cfg,
		clock: clock.Real{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	c.state = State{Words: NewWordCycle(cfg.WordCount)}
	c.rotator = NewRotator(c.clock, cfg.WordCount, cfg.RotationPeriod, c.onWordTick, c.OnRotationCycleComplete)
	return c
}

// Activate arms every absolute-offset timer. Only the first call has an
// effect, and none after Deactivate; it reports whether this call activated
// the controller.
func (c *Controller) Activate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activated {
		c.logger.Debug("activate ignored", logging.Bool("torn_down", !c.active))
		return false
	}
	c.activated = true
	c.active = true
	c.startedAt = c.clock.Now()

	entries := c.cfg.Timeline.Absolute()
	for _, e := range entries {
		c.scheduleLocked(e)
	}
	c.logger.Debug("sequence activated", logging.Int("timers", len(entries)))
	return true
}

// OnRotationCycleComplete moves to PhaseRotationDone and schedules the
// suffix relative to now. Repeated calls, and calls after Deactivate, are
// ignored.
func (c *Controller) OnRotationCycleComplete() {
	c.mu.Lock()
	if !c.active || c.completed {
		active, duplicate := c.active, c.completed
		c.mu.Unlock()
		c.logger.Debug("rotation complete ignored",
			logging.Bool("active", active), logging.Bool("duplicate", duplicate))
		return
	}
	c.completed = true
	c.completeAt = c.clock.Now().Sub(c.startedAt)
	c.rotator.Stop()
	prev, next, changed := c.applyLocked(SetPhase(PhaseRotationDone))
	for _, e := range c.cfg.Timeline.RelativeTo(EventRotationComplete) {
		c.scheduleLocked(e)
	}
	c.mu.Unlock()

	if changed {
		c.notify(prev, next, "rotation-complete")
	}
}

// Deactivate cancels every pending timer, including the rotation tick. No
// State write happens after it returns. Teardown is permanent: a controller
// deactivated before it was activated never starts.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activated = true
	if !c.active {
		return
	}
	c.active = false
	canceled := 0
	for _, t := range c.timers {
		if t.Stop() {
			canceled++
		}
	}
	c.timers = nil
	c.rotator.Stop()
	c.logger.Debug("sequence deactivated",
		logging.Int("canceled_timers", canceled),
		logging.String("phase", c.state.Phase.String()))
}

// Snapshot returns the current State.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Active reports whether the controller has been activated and not yet
// deactivated.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// CompletedAt returns the offset at which the rotation completed.
func (c *Controller) CompletedAt() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completeAt, c.completed
}

// scheduleLocked must be called with c.mu held.
func (c *Controller) scheduleLocked(e Entry) {
	name, effect := e.Name, e.Effect
	c.timers = append(c.timers, c.clock.AfterFunc(e.Offset, func() {
		c.apply(effect, name)
	}))
}

func (c *Controller) onWordTick(w WordCycle) {
	c.apply(SetWords(w), "word-tick")
}

// apply is the single flag-write path.
func (c *Controller) apply(e Effect, source string) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		c.logger.Debug("effect after teardown ignored", logging.String("source", source))
		return
	}
	prev, next, changed := c.applyLocked(e)
	c.mu.Unlock()

	if changed {
		c.notify(prev, next, source)
	}
}

// applyLocked must be called with c.mu held.
func (c *Controller) applyLocked(e Effect) (State, State, bool) {
	prev := c.state
	next, changed := Reduce(prev, e)
	if !changed {
		return prev, prev, false
	}
	next.Version = prev.Version + 1
	next.At = c.clock.Now().Sub(c.startedAt)
	c.state = next

	if prev.Phase < PhaseRotationActive && next.Phase == PhaseRotationActive {
		c.rotator.Start()
	}
	return prev, next, true
}

func (c *Controller) notify(prev, next State, source string) {
	if prev.Phase != next.Phase {
		c.logger.Debug("phase transition",
			logging.String("from", prev.Phase.String()),
			logging.String("to", next.Phase.String()),
			logging.Duration("at", next.At),
			logging.String("source", source))
	}
	c.observers.OnStateChange(prev, next)
}
