package presentation

import "time"

// Wave parameters of the background ripple.
const (
	WaveCount       = 4
	WaveStagger     = 1200 * time.Millisecond
	WaveDuration    = 4 * time.Second
	WaveRepeatDelay = 1 * time.Second
	WavePeakOpacity = 0.1
	WaveMaxScale    = 5.0
)

// Wave is the instantaneous look of one ripple ring.
type Wave struct {
	Opacity float64
	Scale   float64
}

// Visible reports whether the ring should be drawn at all.
func (w Wave) Visible() bool { return w.Opacity > 0 && w.Scale > 0 }

// WaveAt returns ring i at time t after mount. Each ring starts
// i*WaveStagger late, grows from nothing to WaveMaxScale with an ease-out
// over WaveDuration while fading in and back out, then rests for
// WaveRepeatDelay before repeating.
func WaveAt(i int, t time.Duration) Wave {
	start := time.Duration(i) * WaveStagger
	if i < 0 || t < start {
		return Wave{}
	}
	local := (t - start) % (WaveDuration + WaveRepeatDelay)
	if local >= WaveDuration {
		return Wave{}
	}
	p := float64(local) / float64(WaveDuration)
	eased := 1 - (1-p)*(1-p)

	opacity := WavePeakOpacity * eased * 2
	if eased > 0.5 {
		opacity = WavePeakOpacity * (1 - eased) * 2
	}
	return Wave{Opacity: opacity, Scale: WaveMaxScale * eased}
}
