package sequence

import (
	"sync"
	"testing"
	"time"

	"github.com/agbru/splashseq/internal/clock"
)

// recorder collects every notification in order.
type recorder struct {
	mu    sync.Mutex
	steps []Step
}

func (r *recorder) OnStateChange(prev, next State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, Step{Prev: prev, Next: next})
}

func (r *recorder) all() []Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Step(nil), r.steps...)
}

// phaseOffsets maps each reached phase to the offset at which it was entered.
func (r *recorder) phaseOffsets() map[Phase]time.Duration {
	out := map[Phase]time.Duration{}
	for _, s := range PhaseChanges(r.all()) {
		out[s.Next.Phase] = s.Next.At
	}
	return out
}

func newTestController(t *testing.T, cfg Config) (*Controller, *clock.Virtual, *recorder) {
	t.Helper()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid config: %v", err)
	}
	v := clock.NewVirtual(time.Unix(1_700_000_000, 0))
	rec := &recorder{}
	ctrl := NewController(cfg, WithClock(v), WithObserver(rec))
	return ctrl, v, rec
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestController_DefaultTimeline(t *testing.T) {
	t.Parallel()
	ctrl, v, rec := newTestController(t, DefaultTimings().Config(3))
	ctrl.Activate()

	v.Advance(ms(199))
	if got := ctrl.Snapshot(); got.Phase != PhaseIdle || got.CallOverlayVisible {
		t.Fatalf("state at 199ms = %+v, want idle", got)
	}

	v.Advance(ms(1))
	s := ctrl.Snapshot()
	if s.Phase != PhaseIconsEntering || !s.CallOverlayVisible {
		t.Fatalf("state at 200ms = %+v, want icons entering with the call overlay", s)
	}

	v.AdvanceTo(v.Now().Add(ms(500)))
	if got := ctrl.Snapshot().Phase; got != PhaseIconsSteady {
		t.Fatalf("phase at 700ms = %v, want icons-steady", got)
	}

	v.Advance(ms(3000))
	s = ctrl.Snapshot()
	if s.Phase != PhaseGathering || s.GatherComplete {
		t.Fatalf("state at 3700ms = %+v, want gathering", s)
	}

	v.Advance(ms(1700))
	s = ctrl.Snapshot()
	if s.Phase != PhaseRotationActive || !s.GatherComplete || s.CallOverlayVisible {
		t.Fatalf("state at 5400ms = %+v, want rotation active with overlay dismissed", s)
	}
	if s.Words.Index() != 0 {
		t.Errorf("word index at rotation start = %d, want 0", s.Words.Index())
	}

	v.Advance(ms(2000))
	if got := ctrl.Snapshot().Words.Index(); got != 1 {
		t.Errorf("word index at 7400ms = %d, want 1", got)
	}
	v.Advance(ms(2000))
	if got := ctrl.Snapshot().Words.Index(); got != 2 {
		t.Errorf("word index at 9400ms = %d, want 2", got)
	}

	v.Advance(time.Minute)
	want := map[Phase]time.Duration{
		PhaseIconsEntering:  ms(200),
		PhaseIconsSteady:    ms(700),
		PhaseGathering:      ms(3700),
		PhaseRotationActive: ms(5400),
		PhaseRotationDone:   ms(11400),
		PhaseLabelShown:     ms(11700),
		PhaseLabelShrinking: ms(13200),
		PhaseLogoRevealed:   ms(14000),
	}
	got := rec.phaseOffsets()
	for p, at := range want {
		if got[p] != at {
			t.Errorf("%v entered at %v, want %v", p, got[p], at)
		}
	}
	if at, ok := ctrl.CompletedAt(); !ok || at != ms(11400) {
		t.Errorf("CompletedAt = %v %v, want 11.4s", at, ok)
	}
	if v.Pending() != 0 {
		t.Errorf("pending timers after the run = %d, want 0", v.Pending())
	}
	final := ctrl.Snapshot()
	if final.Words.Index() != 0 || final.Words.CyclesCompleted() != 1 {
		t.Errorf("final words = %+v, want one pass ending on index 0", final.Words)
	}
}

func TestController_VersionsAreStrictlyIncreasing(t *testing.T) {
	t.Parallel()
	ctrl, v, rec := newTestController(t, DefaultTimings().Config(3))
	ctrl.Activate()
	v.Advance(time.Minute)

	steps := rec.all()
	if len(steps) == 0 {
		t.Fatal("no notifications")
	}
	for i, s := range steps {
		if s.Next.Version != uint64(i+1) || s.Prev.Version != uint64(i) {
			t.Fatalf("step %d versions %d -> %d", i, s.Prev.Version, s.Next.Version)
		}
		if s.Next.Phase < s.Prev.Phase {
			t.Fatalf("step %d moved backwards: %v -> %v", i, s.Prev.Phase, s.Next.Phase)
		}
	}
}

func TestController_ActivateIsIdempotent(t *testing.T) {
	t.Parallel()
	ctrl, v, rec := newTestController(t, DefaultTimings().Config(3))
	if !ctrl.Activate() {
		t.Fatal("first Activate should succeed")
	}
	pending := v.Pending()
	if ctrl.Activate() {
		t.Error("second Activate should be ignored")
	}
	if v.Pending() != pending {
		t.Errorf("second Activate armed timers: %d -> %d", pending, v.Pending())
	}

	v.Advance(ms(200))
	entering := 0
	for _, s := range rec.all() {
		if s.Next.Phase == PhaseIconsEntering && s.Prev.Phase != PhaseIconsEntering {
			entering++
		}
	}
	if entering != 1 {
		t.Errorf("icons-entering reached %d times, want 1", entering)
	}
}

func TestController_NoWritesBeforeActivate(t *testing.T) {
	t.Parallel()
	ctrl, v, rec := newTestController(t, DefaultTimings().Config(3))
	v.Advance(time.Minute)
	ctrl.OnRotationCycleComplete()
	if len(rec.all()) != 0 || ctrl.Snapshot().Phase != PhaseIdle {
		t.Error("an inactive controller must not write state")
	}
}

func TestController_DeactivateBeforeActivateIsFinal(t *testing.T) {
	t.Parallel()
	ctrl, v, rec := newTestController(t, DefaultTimings().Config(3))
	ctrl.Deactivate()
	if ctrl.Activate() {
		t.Error("Activate after Deactivate should be refused")
	}
	if v.Pending() != 0 {
		t.Errorf("torn down controller armed %d timers", v.Pending())
	}

	v.Advance(time.Hour)
	ctrl.OnRotationCycleComplete()
	if n := len(rec.all()); n != 0 {
		t.Errorf("writes after teardown = %d, want 0", n)
	}
	if ctrl.Active() || ctrl.Snapshot().Phase != PhaseIdle {
		t.Errorf("torn down controller state = %+v", ctrl.Snapshot())
	}
}

func TestController_SuffixFollowsLateCompletion(t *testing.T) {
	t.Parallel()
	tm := DefaultTimings()
	tm.RotationPeriod = 5 * time.Second
	ctrl, v, rec := newTestController(t, tm.Config(3))
	ctrl.Activate()
	v.Advance(time.Hour)

	// 5.4s + 3*5s
	completeAt := ms(20400)
	got := rec.phaseOffsets()
	want := map[Phase]time.Duration{
		PhaseRotationDone:   completeAt,
		PhaseLabelShown:     completeAt + ms(300),
		PhaseLabelShrinking: completeAt + ms(1800),
		PhaseLogoRevealed:   completeAt + ms(2600),
	}
	for p, at := range want {
		if got[p] != at {
			t.Errorf("%v entered at %v, want %v", p, got[p], at)
		}
	}
}

func TestController_ManualCompletionStopsRotation(t *testing.T) {
	t.Parallel()
	ctrl, v, rec := newTestController(t, DefaultTimings().Config(3))
	ctrl.Activate()
	v.Advance(ms(6000))

	ctrl.OnRotationCycleComplete()
	if got := ctrl.Snapshot().Phase; got != PhaseRotationDone {
		t.Fatalf("phase = %v, want rotation-done", got)
	}
	pending := v.Pending()
	ctrl.OnRotationCycleComplete()
	if v.Pending() != pending {
		t.Error("duplicate completion scheduled another suffix")
	}

	v.Advance(time.Minute)
	got := rec.phaseOffsets()
	if got[PhaseLabelShown] != ms(6300) || got[PhaseLogoRevealed] != ms(8600) {
		t.Errorf("suffix offsets = %v / %v, want 6.3s / 8.6s", got[PhaseLabelShown], got[PhaseLogoRevealed])
	}
	if idx := ctrl.Snapshot().Words.Index(); idx != 0 {
		t.Errorf("rotation kept ticking after completion, index = %d", idx)
	}
}

func TestController_DeactivateCancelsEverything(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		at   time.Duration
	}{
		{"before first entry", ms(100)},
		{"while icons steady", ms(1000)},
		{"during rotation", ms(8000)},
		{"during suffix", ms(12000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl, v, rec := newTestController(t, DefaultTimings().Config(3))
			ctrl.Activate()
			v.Advance(tt.at)

			ctrl.Deactivate()
			before := ctrl.Snapshot()
			writes := len(rec.all())
			if v.Pending() != 0 {
				t.Errorf("pending timers after Deactivate = %d", v.Pending())
			}

			v.Advance(time.Hour)
			ctrl.OnRotationCycleComplete()
			ctrl.Deactivate()

			if len(rec.all()) != writes {
				t.Errorf("state written after Deactivate: %d -> %d", writes, len(rec.all()))
			}
			if ctrl.Snapshot() != before {
				t.Errorf("snapshot changed after Deactivate")
			}
			if ctrl.Active() {
				t.Error("controller still active")
			}
		})
	}
}

func TestController_ObserverMayDeactivate(t *testing.T) {
	t.Parallel()
	v := clock.NewVirtual(time.Unix(0, 0))
	var ctrl *Controller
	calls := 0
	ctrl = NewController(DefaultTimings().Config(3),
		WithClock(v),
		WithObserver(ObserverFunc(func(_, next State) {
			calls++
			if next.Phase == PhaseGathering {
				ctrl.Deactivate()
			}
		})),
	)
	ctrl.Activate()
	v.Advance(time.Hour)

	if got := ctrl.Snapshot().Phase; got != PhaseGathering {
		t.Errorf("phase = %v, want gathering", got)
	}
	// 200ms: phase + overlay, 700ms: steady, 3700ms: gathering.
	if calls != 4 {
		t.Errorf("observer calls = %d, want 4", calls)
	}
}

func TestController_SingleWordCompletesOnFirstTick(t *testing.T) {
	t.Parallel()
	ctrl, v, _ := newTestController(t, DefaultTimings().Config(1))
	ctrl.Activate()
	v.Advance(time.Minute)
	if at, ok := ctrl.CompletedAt(); !ok || at != ms(7400) {
		t.Errorf("CompletedAt = %v %v, want 7.4s", at, ok)
	}
	if ctrl.Snapshot().Phase != PhaseLogoRevealed {
		t.Errorf("run did not finish: %v", ctrl.Snapshot().Phase)
	}
}

func TestController_RealClock(t *testing.T) {
	if testing.Short() {
		t.Skip("uses wall-clock timers")
	}
	t.Parallel()
	tm := Timings{
		IconsEnterDelay:    ms(1),
		IconsAppearDelay:   ms(2),
		GatherStartDelay:   ms(3),
		GatherDuration:     ms(1),
		CallDismissDelay:   ms(4),
		RotationStartDelay: ms(4),
		RotationPeriod:     ms(2),
		LabelShowDelay:     ms(1),
		LabelShrinkDelay:   ms(1),
		LogoRevealDelay:    ms(1),
	}
	done := make(chan struct{})
	var once sync.Once
	ctrl := NewController(tm.Config(2), WithObserver(ObserverFunc(func(_, next State) {
		if next.Phase.Terminal() {
			once.Do(func() { close(done) })
		}
	})))
	ctrl.Activate()
	defer ctrl.Deactivate()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not finish, phase %v", ctrl.Snapshot().Phase)
	}
}
