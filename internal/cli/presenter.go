package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/splashseq/internal/clock"
	"github.com/agbru/splashseq/internal/format"
	"github.com/agbru/splashseq/internal/logging"
	"github.com/agbru/splashseq/internal/presentation"
	"github.com/agbru/splashseq/internal/sequence"
	"github.com/agbru/splashseq/internal/ui"
)

// PlainPresenter prints one line per phase change and keeps a spinner
// suffix with the current text and the run progress. It is a
// sequence.Observer.
type PlainPresenter struct {
	mu      sync.Mutex
	out     io.Writer
	content presentation.Content
	spinner Spinner
	total   time.Duration
	last    presentation.Directives
	printed sequence.Phase
}

// NewPlainPresenter creates a presenter writing to out. A nil spinner
// disables the progress suffix.
func NewPlainPresenter(out io.Writer, content presentation.Content, total time.Duration, s Spinner) *PlainPresenter {
	return &PlainPresenter{out: out, content: content, spinner: s, total: total}
}

// OnStateChange implements sequence.Observer. Snapshots older than the
// newest one seen only contribute their phase line.
func (p *PlainPresenter) OnStateChange(_, next sequence.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if next.Phase > p.printed {
		p.printed = next.Phase
		if p.spinner != nil {
			p.spinner.Stop()
		}
		fmt.Fprintln(p.out, PhaseLine(next.At, next.Phase, presentation.Derive(next, p.content)))
		if p.spinner != nil && !next.Phase.Terminal() {
			p.spinner.Start()
		}
	}
	if next.Version > p.last.Version {
		p.last = presentation.Derive(next, p.content)
		p.refreshLocked(next.At)
	}
}

// Refresh updates the spinner suffix for elapsed time since activation.
func (p *PlainPresenter) Refresh(elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshLocked(elapsed)
}

func (p *PlainPresenter) refreshLocked(elapsed time.Duration) {
	if p.spinner != nil {
		p.spinner.UpdateSuffix(statusLine(p.last, elapsed, p.total))
	}
}

// PhaseLine formats one phase change, e.g.
// "+5.400s  rotation-active   Sell.".
func PhaseLine(at time.Duration, phase sequence.Phase, d presentation.Directives) string {
	theme := ui.GetCurrentTheme()
	var b strings.Builder
	b.WriteString(ui.Paint(theme.Muted, format.FormatOffset(at)))
	b.WriteString("  ")
	b.WriteString(ui.Paint(theme.Brand, fmt.Sprintf("%-16s", phase)))
	if detail := phaseDetail(phase, d); detail != "" {
		b.WriteString("  ")
		b.WriteString(ui.Paint(theme.Highlight, detail))
	}
	return strings.TrimRight(b.String(), " ")
}

func phaseDetail(phase sequence.Phase, d presentation.Directives) string {
	switch phase {
	case sequence.PhaseIconsEntering, sequence.PhaseIconsSteady, sequence.PhaseGathering:
		visible := 0
		for _, icon := range d.Icons {
			if icon.Pose != presentation.PoseHidden {
				visible++
			}
		}
		detail := fmt.Sprintf("%d icons %s", visible, poseSummary(d))
		if d.CallOverlay.Visible {
			detail += ", " + d.CallOverlay.Text
		}
		return detail
	case sequence.PhaseRotationActive:
		return d.Headline.Text
	case sequence.PhaseLabelShown, sequence.PhaseLabelShrinking:
		return fmt.Sprintf("%s (%s)", d.Label.Text, d.Label.Size)
	case sequence.PhaseLogoRevealed:
		return d.Logo.Name
	}
	return ""
}

// poseSummary names the pose shared by the non-centered icons.
func poseSummary(d presentation.Directives) string {
	for _, icon := range d.Icons {
		if icon.Pose != presentation.PoseCentered {
			return icon.Pose.String()
		}
	}
	return presentation.PoseHidden.String()
}

// RunPlain plays one run on clk, printing phase changes to out, and returns
// once the logo is revealed or ctx is done. A nil clk uses the wall clock.
func RunPlain(ctx context.Context, cfg sequence.Config, content presentation.Content, out io.Writer, clk clock.Clock, logger logging.Logger, observers ...sequence.Observer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	s := newSpinner(spinner.WithWriter(out))
	presenter := NewPlainPresenter(out, content, cfg.Duration(), s)

	done := make(chan struct{})
	var once sync.Once
	finish := sequence.ObserverFunc(func(_, next sequence.State) {
		if next.Phase.Terminal() {
			once.Do(func() { close(done) })
		}
	})

	all := append(sequence.Observers{presenter}, observers...)
	ctrl := sequence.NewController(cfg,
		sequence.WithClock(clk),
		sequence.WithLogger(logger),
		sequence.WithObserver(append(all, finish)),
	)

	start := clk.Now()
	s.Start()
	defer s.Stop()
	ctrl.Activate()
	defer ctrl.Deactivate()

	// The suffix is refreshed on clk so that a virtual clock drives the ETA
	// too. The timer is re-armed by this loop, never by its callback.
	refresh := make(chan struct{}, 1)
	arm := func() clock.Timer {
		return clk.AfterFunc(ProgressRefreshRate, func() {
			select {
			case refresh <- struct{}{}:
			default:
			}
		})
	}
	timer := arm()
	defer func() { timer.Stop() }()

	for {
		select {
		case <-done:
			fields := []logging.Field{logging.Duration("elapsed", clk.Now().Sub(start))}
			if at, ok := ctrl.CompletedAt(); ok {
				fields = append(fields, logging.Duration("rotation_complete", at))
			}
			logger.Debug("plain run finished", fields...)
			return nil
		case <-ctx.Done():
			logger.Debug("plain run interrupted", logging.String("phase", ctrl.Snapshot().Phase.String()))
			return ctx.Err()
		case <-refresh:
			presenter.Refresh(clk.Now().Sub(start))
			timer = arm()
		}
	}
}
