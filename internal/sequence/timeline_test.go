package sequence

import (
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/splashseq/internal/errors"
)

func TestDefaultTimeline_IsValid(t *testing.T) {
	t.Parallel()
	cfg := DefaultTimings().Config(3)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got := len(cfg.Timeline.Absolute()); got != 7 {
		t.Errorf("absolute entries = %d, want 7", got)
	}
	rel := cfg.Timeline.RelativeTo(EventRotationComplete)
	want := []time.Duration{300 * time.Millisecond, 1800 * time.Millisecond, 2600 * time.Millisecond}
	if len(rel) != len(want) {
		t.Fatalf("relative entries = %d, want %d", len(rel), len(want))
	}
	for i, e := range rel {
		if e.Offset != want[i] {
			t.Errorf("%s offset = %v, want %v", e.Name, e.Offset, want[i])
		}
	}
}

func TestTimeline_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(Timings) Timings
		entries Timeline
		wantMsg string
	}{
		{
			name:    "gather before steady",
			mutate:  func(tm Timings) Timings { tm.GatherStartDelay = 500 * time.Millisecond; return tm },
			wantMsg: "precedes",
		},
		{
			name:    "dismiss before gather end",
			mutate:  func(tm Timings) Timings { tm.CallDismissDelay = 4 * time.Second; return tm },
			wantMsg: "precedes",
		},
		{
			name:    "negative offset",
			mutate:  func(tm Timings) Timings { tm.IconsEnterDelay = -time.Millisecond; return tm },
			wantMsg: "negative",
		},
		{
			name:    "relative anchored on activation",
			entries: Timeline{{Name: "x", Kind: Relative, Anchor: EventActivated, Effect: SetPhase(PhaseLabelShown)}},
			wantMsg: "anchored",
		},
		{
			name:    "relative going backwards",
			entries: Timeline{
				{Name: "a", Kind: Relative, Anchor: EventRotationComplete, Offset: time.Second, Effect: SetPhase(PhaseLabelShown)},
				{Name: "b", Kind: Relative, Anchor: EventRotationComplete, Offset: 0, Effect: SetPhase(PhaseLabelShrinking)},
			},
			wantMsg: "precedes",
		},
		{
			name:    "word effect",
			entries: Timeline{{Name: "w", Kind: Absolute, Effect: SetWords(NewWordCycle(1))}},
			wantMsg: "only phase and flag",
		},
		{
			name:    "unknown phase",
			entries: Timeline{{Name: "p", Kind: Absolute, Effect: SetPhase(Phase(77))}},
			wantMsg: "unknown phase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tl := tt.entries
			if tt.mutate != nil {
				tl = tt.mutate(DefaultTimings()).Timeline()
			}
			err := tl.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			var valErr apperrors.ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestTimeline_TiesAreAllowed(t *testing.T) {
	t.Parallel()
	tm := DefaultTimings()
	tm.IconsAppearDelay = tm.IconsEnterDelay
	if err := tm.Timeline().Validate(); err != nil {
		t.Errorf("equal offsets must validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()
	cfg := DefaultTimings().Config(0)
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "words") {
		t.Errorf("empty word list should fail, got %v", err)
	}
	cfg = DefaultTimings().Config(3)
	cfg.RotationPeriod = 0
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "rotation-period") {
		t.Errorf("zero period should fail, got %v", err)
	}
}

func TestConfig_Duration(t *testing.T) {
	t.Parallel()
	// 5400 start + 3*2000 rotation + 2600 suffix.
	want := 14000 * time.Millisecond
	if got := DefaultTimings().Config(3).Duration(); got != want {
		t.Errorf("Duration() = %v, want %v", got, want)
	}
}
