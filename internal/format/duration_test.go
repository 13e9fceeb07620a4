package format

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{200 * time.Millisecond, "200ms"},
		{1700 * time.Millisecond, "1.7s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatOffset(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "+0.000s"},
		{200 * time.Millisecond, "+0.200s"},
		{5400 * time.Millisecond, "+5.400s"},
		{-1500 * time.Millisecond, "-1.500s"},
	}
	for _, tt := range tests {
		if got := FormatOffset(tt.in); got != tt.want {
			t.Errorf("FormatOffset(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProgress(t *testing.T) {
	t.Parallel()
	tests := []struct {
		elapsed, total time.Duration
		fraction       float64
		remaining      time.Duration
	}{
		{0, 10 * time.Second, 0, 10 * time.Second},
		{-time.Second, 10 * time.Second, 0, 10 * time.Second},
		{5 * time.Second, 10 * time.Second, 0.5, 5 * time.Second},
		{12 * time.Second, 10 * time.Second, 1, 0},
		{time.Second, 0, 1, 0},
	}
	for _, tt := range tests {
		f, r := Progress(tt.elapsed, tt.total)
		if f != tt.fraction || r != tt.remaining {
			t.Errorf("Progress(%v, %v) = %v, %v; want %v, %v", tt.elapsed, tt.total, f, r, tt.fraction, tt.remaining)
		}
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		fraction float64
		width    int
		want     string
	}{
		{0, 4, "░░░░"},
		{0.5, 4, "██░░"},
		{1, 4, "████"},
		{2, 2, "██"},
		{-1, 2, "░░"},
		{0.5, 0, ""},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.fraction, tt.width); got != tt.want {
			t.Errorf("ProgressBar(%v, %d) = %q, want %q", tt.fraction, tt.width, got, tt.want)
		}
	}
}
