package server

import (
	"errors"
	"sync"

	"github.com/agbru/splashseq/internal/presentation"
	"github.com/agbru/splashseq/internal/sequence"
)

// ErrTooManyClients is returned by Subscribe when the stream limit is hit.
var ErrTooManyClients = errors.New("too many stream clients")

// ErrHubClosed is returned by Subscribe after Close.
var ErrHubClosed = errors.New("hub closed")

const subscriberBuffer = 16

// Hub is a sequence.Observer that keeps the latest state and fans derived
// directives out to stream subscribers. A slow subscriber loses
// intermediate directives, never the latest one.
type Hub struct {
	content presentation.Content
	limit   int

	mu     sync.Mutex
	latest sequence.State
	subs   map[chan presentation.Directives]struct{}
	closed bool
}

// NewHub returns a hub deriving directives from content. limit bounds the
// number of subscribers; zero means unbounded.
func NewHub(content presentation.Content, limit int) *Hub {
	return &Hub{
		content: content,
		limit:   limit,
		subs:    make(map[chan presentation.Directives]struct{}),
	}
}

// OnStateChange stores next unless it is older than the state already held
// and broadcasts its directives.
func (h *Hub) OnStateChange(_, next sequence.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || next.Version < h.latest.Version {
		return
	}
	h.latest = next
	d := presentation.Derive(next, h.content)
	for ch := range h.subs {
		send(ch, d)
	}
}

// send delivers d, evicting the oldest queued value if ch is full. Only
// called with the hub lock held, so there is a single writer per channel.
func send(ch chan presentation.Directives, d presentation.Directives) {
	select {
	case ch <- d:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- d:
	default:
	}
}

// Latest returns the newest state seen.
func (h *Hub) Latest() sequence.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Directives derives the directives of the newest state.
func (h *Hub) Directives() presentation.Directives {
	return presentation.Derive(h.Latest(), h.content)
}

// Subscribe registers a stream. The channel first receives the current
// directives; it is closed by the returned cancel function or by Close.
func (h *Hub) Subscribe() (<-chan presentation.Directives, func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, nil, ErrHubClosed
	}
	if h.limit > 0 && len(h.subs) >= h.limit {
		return nil, nil, ErrTooManyClients
	}
	ch := make(chan presentation.Directives, subscriberBuffer)
	ch <- presentation.Derive(h.latest, h.content)
	h.subs[ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
	return ch, cancel, nil
}

// Subscribers returns the number of open streams.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close ends every stream and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
