package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/splashseq/internal/sequence"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so controller callbacks can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe). It is a
// no-op until SetProgram has been called.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// stateBridge forwards every State write of one run to the program.
type stateBridge struct {
	ref        *programRef
	generation uint64
}

// Verify interface compliance.
var _ sequence.Observer = stateBridge{}

// OnStateChange implements sequence.Observer.
func (b stateBridge) OnStateChange(_, next sequence.State) {
	b.ref.Send(StateMsg{State: next, Generation: b.generation})
}
