package sequence

import (
	"sync"
	"time"

	"github.com/agbru/splashseq/internal/clock"
)

// WordCycle is the bounded circular position over a fixed word list. Word 0
// counts as shown at construction; each Tick shows the next word. The
// completion signal is reported by exactly one Tick: the Nth, where the
// index wraps back to 0 after every word has been shown once.
type WordCycle struct {
	size               int
	index              int
	cyclesCompleted    int
	completionSignaled bool
}

// NewWordCycle returns a cycle over size words. Sizes below one are treated
// as one.
func NewWordCycle(size int) WordCycle {
	if size < 1 {
		size = 1
	}
	return WordCycle{size: size}
}

// Index is the position of the word currently shown.
func (w WordCycle) Index() int { return w.index }

// Size is the number of words in the list.
func (w WordCycle) Size() int { return w.n() }

// CyclesCompleted counts wraps back to index 0.
func (w WordCycle) CyclesCompleted() int { return w.cyclesCompleted }

// Done reports whether completion has been signaled.
func (w WordCycle) Done() bool { return w.completionSignaled }

func (w WordCycle) n() int {
	if w.size < 1 {
		return 1
	}
	return w.size
}

// Tick advances one position. The boolean is true only on the tick that
// completes the first full pass; once completed, Tick returns w unchanged.
func (w WordCycle) Tick() (WordCycle, bool) {
	if w.completionSignaled {
		return w, false
	}
	w.size = w.n()
	w.index = (w.index + 1) % w.size
	if w.index == 0 {
		w.cyclesCompleted++
	}
	if w.cyclesCompleted == 1 {
		w.completionSignaled = true
		return w, true
	}
	return w, false
}

// Rotator drives a WordCycle with a fixed-period timer. It stops re-arming
// once the cycle has signaled completion.
type Rotator struct {
	clock      clock.Clock
	period     time.Duration
	onTick     func(WordCycle)
	onComplete func()

	mu      sync.Mutex
	cycle   WordCycle
	timer   clock.Timer
	running bool
	gen     uint64
}

// NewRotator builds a stopped rotator. onTick receives every new cycle
// value; onComplete runs once, right after the completing tick. Both run
// without the rotator lock held.
func NewRotator(c clock.Clock, size int, period time.Duration, onTick func(WordCycle), onComplete func()) *Rotator {
	return &Rotator{
		clock:      c,
		period:     period,
		onTick:     onTick,
		onComplete: onComplete,
		cycle:      NewWordCycle(size),
	}
}

// Start arms the periodic timer. It returns false if the rotator is already
// running or has completed its pass.
func (r *Rotator) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running || r.cycle.Done() {
		return false
	}
	r.running = true
	r.arm()
	return true
}

// Stop cancels the pending tick. It is safe to call at any time.
func (r *Rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.running = false
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// Running reports whether a tick is pending.
func (r *Rotator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Cycle returns the current cycle value.
func (r *Rotator) Cycle() WordCycle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cycle
}

// arm must be called with r.mu held.
func (r *Rotator) arm() {
	r.gen++
	gen := r.gen
	r.timer = r.clock.AfterFunc(r.period, func() { r.tick(gen) })
}

func (r *Rotator) tick(gen uint64) {
	r.mu.Lock()
	if !r.running || gen != r.gen {
		r.mu.Unlock()
		return
	}
	next, completed := r.cycle.Tick()
	r.cycle = next
	if completed {
		r.running = false
		r.timer = nil
	} else {
		r.arm()
	}
	r.mu.Unlock()

	if r.onTick != nil {
		r.onTick(next)
	}
	if completed && r.onComplete != nil {
		r.onComplete()
	}
}
