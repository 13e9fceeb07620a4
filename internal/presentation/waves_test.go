package presentation

import (
	"testing"
	"time"
)

func TestWaveAt(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		index   int
		at      time.Duration
		visible bool
	}{
		{"first ring at mount", 0, 0, false},
		{"first ring growing", 0, time.Second, true},
		{"second ring not started", 1, time.Second, false},
		{"second ring started", 1, 2 * time.Second, true},
		{"first ring resting", 0, 4500 * time.Millisecond, false},
		{"first ring repeats", 0, 6 * time.Second, true},
		{"negative index", -1, time.Second, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := WaveAt(tt.index, tt.at).Visible(); got != tt.visible {
				t.Errorf("visible = %v, want %v (%+v)", got, tt.visible, WaveAt(tt.index, tt.at))
			}
		})
	}
}

func TestWaveAt_Bounds(t *testing.T) {
	t.Parallel()
	for i := 0; i < WaveCount; i++ {
		for ms := 0; ms < 20000; ms += 50 {
			w := WaveAt(i, time.Duration(ms)*time.Millisecond)
			if w.Opacity < 0 || w.Opacity > WavePeakOpacity+1e-9 {
				t.Fatalf("ring %d opacity %v out of range", i, w.Opacity)
			}
			if w.Scale < 0 || w.Scale > WaveMaxScale {
				t.Fatalf("ring %d scale %v out of range", i, w.Scale)
			}
		}
	}
}
