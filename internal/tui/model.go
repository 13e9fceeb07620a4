package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/splashseq/internal/clock"
	apperrors "github.com/agbru/splashseq/internal/errors"
	"github.com/agbru/splashseq/internal/logging"
	"github.com/agbru/splashseq/internal/presentation"
	"github.com/agbru/splashseq/internal/sequence"
)

// FrameRate is the animation refresh period.
const FrameRate = time.Second / 15

// StateMsg carries one State write of run Generation.
type StateMsg struct {
	State      sequence.State
	Generation uint64
}

// FrameMsg advances the animations.
type FrameMsg time.Time

type holdExpiredMsg struct{ generation uint64 }

type contextCancelledMsg struct{}

// Options configures a TUI session.
type Options struct {
	Config  sequence.Config
	Content presentation.Content
	// Hold is how long the logo stays before the program exits; zero waits
	// for a key.
	Hold   time.Duration
	Logger logging.Logger
	// Clock drives the controller; nil means the wall clock.
	Clock clock.Clock
	// Observe returns extra observers for the run with the given
	// generation. It is called again on every replay.
	Observe func(generation uint64) []sequence.Observer
}

// Model is the root bubbletea model of the splash renderer.
type Model struct {
	opts   Options
	ctx    context.Context
	keymap KeyMap
	help   help.Model
	ref    *programRef

	ctrl       *sequence.Controller
	generation uint64
	startedAt  time.Time
	now        time.Time
	state      sequence.State
	directives presentation.Directives
	phaseAt    [phaseCount]time.Duration
	seen       phaseSeen
	logoMounts int
	logoAt     time.Duration
	gather     time.Duration

	width    int
	height   int
	done     bool
	exitCode int
}

const phaseCount = int(sequence.PhaseLogoRevealed) + 1

// phaseSeen records which phases a run has reached.
type phaseSeen [phaseCount]bool

// NewModel creates the model and its first, not yet activated, run.
func NewModel(ctx context.Context, opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	m := Model{
		opts:     opts,
		ctx:      ctx,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		ref:      &programRef{},
		gather:   gatherWindow(opts.Config.Timeline),
		exitCode: apperrors.ExitSuccess,
	}
	m.newRun()
	return m
}

// newRun replaces the controller with a fresh one for the next generation.
func (m *Model) newRun() {
	if m.ctrl != nil {
		m.ctrl.Deactivate()
		m.generation++
	}
	observers := sequence.Observers{stateBridge{ref: m.ref, generation: m.generation}}
	if m.opts.Observe != nil {
		observers = append(observers, m.opts.Observe(m.generation)...)
	}
	m.ctrl = sequence.NewController(m.opts.Config,
		sequence.WithClock(m.opts.Clock),
		sequence.WithLogger(m.opts.Logger),
		sequence.WithObserver(observers),
	)

	m.startedAt = m.opts.Clock.Now()
	m.now = m.startedAt
	m.state = sequence.State{Words: sequence.NewWordCycle(m.opts.Config.WordCount)}
	m.directives = presentation.Derive(m.state, m.opts.Content)
	m.phaseAt = [phaseCount]time.Duration{}
	m.seen = phaseSeen{sequence.PhaseIdle: true}
	m.logoMounts = 0
	m.logoAt = 0
	m.done = false
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frameCmd(),
		activateCmd(m.ctrl),
		watchContextCmd(m.ctx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case StateMsg:
		return m.applyState(msg)

	case FrameMsg:
		m.now = time.Time(msg)
		return m, frameCmd()

	case holdExpiredMsg:
		if msg.generation != m.generation {
			return m, nil // the user replayed in the meantime
		}
		m.ctrl.Deactivate()
		return m, tea.Quit

	case contextCancelledMsg:
		m.ctrl.Deactivate()
		m.exitCode = apperrors.ExitErrorCanceled
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) applyState(msg StateMsg) (tea.Model, tea.Cmd) {
	if msg.Generation != m.generation || msg.State.Version <= m.state.Version {
		return m, nil // stale run or an older snapshot delivered late
	}

	prev := m.directives
	m.state = msg.State
	m.directives = presentation.Derive(msg.State, m.opts.Content)
	if p := msg.State.Phase; p.Valid() && !m.seen[p] {
		m.seen[p] = true
		m.phaseAt[p] = msg.State.At
	}
	if presentation.LogoMounted(prev, m.directives) {
		m.logoMounts++
		m.logoAt = msg.State.At
	}

	if msg.State.Phase.Terminal() && !m.done {
		m.done = true
		if m.opts.Hold > 0 {
			return m, holdCmd(m.opts.Hold, m.generation)
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.ctrl.Deactivate()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Replay):
		m.newRun()
		return m, activateCmd(m.ctrl)
	}
	return m, nil
}

// View renders the device frame and the footer.
func (m Model) View() string {
	screen := renderScreen(m.frame())
	body := lipgloss.JoinVertical(lipgloss.Center, frameStyle.Render(screen), m.footerView())
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// elapsed is the animation time since the current run was activated.
func (m Model) elapsed() time.Duration {
	if d := m.now.Sub(m.startedAt); d > 0 {
		return d
	}
	return 0
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, opts Options) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so controller callbacks can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	last, ok := finalModel.(Model)
	if !ok {
		last = model
	}
	last.ctrl.Deactivate()

	if err != nil {
		model.opts.Logger.Error("terminal renderer failed", err)
		return apperrors.ExitErrorGeneric
	}
	return last.exitCode
}

// gatherWindow is the time between the gather phase and the gather
// completion flag in tl.
func gatherWindow(tl sequence.Timeline) time.Duration {
	var start, end time.Duration
	for _, e := range tl.Absolute() {
		switch {
		case e.Effect.Kind == sequence.EffectSetPhase && e.Effect.Phase == sequence.PhaseGathering:
			start = e.Offset
		case e.Effect.Kind == sequence.EffectSetFlag && e.Effect.Flag == sequence.FlagGatherComplete && e.Effect.On:
			end = e.Offset
		}
	}
	return max(end-start, 0)
}

func activateCmd(ctrl *sequence.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.Activate()
		return nil
	}
}

// frameCmd returns a command that sends a FrameMsg after FrameRate.
func frameCmd() tea.Cmd {
	return tea.Tick(FrameRate, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func holdCmd(d time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return holdExpiredMsg{generation: gen}
	})
}

// watchContextCmd reports the cancellation of ctx, typically on SIGINT.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return contextCancelledMsg{}
	}
}
