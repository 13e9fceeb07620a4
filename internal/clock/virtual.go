package clock

import (
	"sort"
	"sync"
	"time"
)

// Virtual is a deterministic clock whose time only moves when Advance is
// called. Due callbacks run synchronously on the caller's goroutine, ordered
// by deadline and then by scheduling order, which mirrors a single-threaded
// host event loop.
type Virtual struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*virtualTimer
}

type virtualTimer struct {
	v    *Virtual
	when time.Time
	seq  uint64
	f    func()
	done bool
}

// NewVirtual returns a virtual clock starting at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// AfterFunc schedules f at Now()+d. Negative delays are treated as zero; a
// zero-delay callback still waits for the next Advance.
func (v *Virtual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	t := &virtualTimer{v: v, when: v.now.Add(d), seq: v.seq, f: f}
	i := sort.Search(len(v.pending), func(i int) bool {
		return t.before(v.pending[i])
	})
	v.pending = append(v.pending, nil)
	copy(v.pending[i+1:], v.pending[i:])
	v.pending[i] = t
	return t
}

// Advance moves the clock forward by d, running every callback that falls
// due on the way, including callbacks scheduled by callbacks.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()
	v.AdvanceTo(target)
}

// AdvanceTo moves the clock to target. Moving backwards is a no-op.
func (v *Virtual) AdvanceTo(target time.Time) {
	for {
		v.mu.Lock()
		if len(v.pending) == 0 || v.pending[0].when.After(target) {
			if target.After(v.now) {
				v.now = target
			}
			v.mu.Unlock()
			return
		}
		t := v.pending[0]
		v.pending = v.pending[1:]
		t.done = true
		if t.when.After(v.now) {
			v.now = t.when
		}
		v.mu.Unlock()

		t.f()
	}
}

// Pending returns the number of scheduled callbacks that have neither fired
// nor been stopped.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pending)
}

// NextDeadline returns the deadline of the earliest pending callback.
func (v *Virtual) NextDeadline() (time.Time, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.pending) == 0 {
		return time.Time{}, false
	}
	return v.pending[0].when, true
}

func (t *virtualTimer) before(o *virtualTimer) bool {
	if t.when.Equal(o.when) {
		return t.seq < o.seq
	}
	return t.when.Before(o.when)
}

// Stop removes the callback if it has not run yet.
func (t *virtualTimer) Stop() bool {
	v := t.v
	v.mu.Lock()
	defer v.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	for i, p := range v.pending {
		if p == t {
			v.pending = append(v.pending[:i], v.pending[i+1:]...)
			break
		}
	}
	return true
}
